package html

// pageScript wires three behaviours into every page:
// POST forms get a hidden _csrf field from the X-CSRF-Token cookie,
// submit buttons marked data-busy-on-submit disable themselves once their form is sent,
// and elements with data-dismiss-after (milliseconds) are removed after that delay.
const pageScript = `<script>
(function () {
  function getCookie(name) {
    var prefix = name + "=";
    var parts = document.cookie ? document.cookie.split(";") : [];
    for (var i = 0; i < parts.length; i++) {
      var c = parts[i].trim();
      if (c.indexOf(prefix) === 0) return decodeURIComponent(c.substring(prefix.length));
    }
    return "";
  }

  function injectCSRF() {
    var token = getCookie("X-CSRF-Token");
    if (!token) return;
    var forms = document.querySelectorAll("form");
    for (var i = 0; i < forms.length; i++) {
      var form = forms[i];
      var method = (form.getAttribute("method") || "GET").toUpperCase();
      if (method !== "POST") continue;
      if (form.querySelector("input[name='_csrf']")) continue;
      var input = document.createElement("input");
      input.type = "hidden";
      input.name = "_csrf";
      input.value = token;
      form.appendChild(input);
    }
  }

  function busyOnSubmit() {
    document.addEventListener("submit", function (ev) {
      var form = ev.target;
      if (form.dataset.submitted === "1") {
        ev.preventDefault();
        return;
      }
      form.dataset.submitted = "1";
      var buttons = form.querySelectorAll("button[data-busy-on-submit]");
      for (var i = 0; i < buttons.length; i++) {
        buttons[i].setAttribute("aria-busy", "true");
        buttons[i].disabled = true;
      }
    });
  }

  function autoDismiss() {
    var banners = document.querySelectorAll("[data-dismiss-after]");
    for (var i = 0; i < banners.length; i++) {
      (function (el) {
        var ms = parseInt(el.getAttribute("data-dismiss-after"), 10);
        if (!(ms > 0)) return;
        setTimeout(function () { el.remove(); }, ms);
      })(banners[i]);
    }
  }

  function init() {
    injectCSRF();
    autoDismiss();
  }

  busyOnSubmit();
  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", init);
  } else {
    init();
  }
})();
</script>`

