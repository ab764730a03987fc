package register

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"userhub/infrastructure/apiclient"
)

type registerBackend struct {
	mu           sync.Mutex
	registerBody string
	registered   []apiclient.RegisterRequest
}

func newRegisterBackend(t *testing.T, registerBody string) (*registerBackend, *apiclient.Client) {
	t.Helper()
	rb := &registerBackend{registerBody: registerBody}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/roles":
			_, _ = io.WriteString(w, `{"success":true,"data":[{"roleId":2,"name":"General User"},{"roleId":3,"name":"Professional"}]}`)
		case "/api/v1/auth/register":
			var req apiclient.RegisterRequest
			_ = json.Unmarshal(raw, &req)
			rb.mu.Lock()
			rb.registered = append(rb.registered, req)
			body := rb.registerBody
			rb.mu.Unlock()
			_, _ = io.WriteString(w, body)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return rb, apiclient.New(srv.URL, nil, 0)
}

func validForm() url.Values {
	return url.Values{
		"firstName":       {"John"},
		"lastName":        {"Doe"},
		"email":           {"john@example.com"},
		"password":        {"Secret123!"},
		"confirmPassword": {"Secret123!"},
		"phoneNumber":     {"+14155550123"},
		"country":         {"US"},
		"roles":           {"General User"},
	}
}

func postRegister(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestRegisterScreenListsRoles(t *testing.T) {
	_, api := newRegisterBackend(t, "")
	rec := httptest.NewRecorder()
	if err := GetRegisterScreenHandler(api)(rec, httptest.NewRequest(http.MethodGet, "/register", nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `value="General User"`) || !strings.Contains(body, `value="Professional"`) {
		t.Fatalf("expected role checkboxes, got %s", body)
	}
}

func TestRegisterSuccessRedirectsToLogin(t *testing.T) {
	rb, api := newRegisterBackend(t, `{"success":true,"message":"User registered"}`)
	rec := httptest.NewRecorder()
	if err := CreateRegistrationHandler(api)(rec, postRegister(validForm())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, successMessage) || !strings.Contains(body, `content="2;url=/login"`) {
		t.Fatalf("expected success banner and redirect, got %s", body)
	}
	if len(rb.registered) != 1 {
		t.Fatalf("expected one register call, got %d", len(rb.registered))
	}
	got := rb.registered[0]
	if got.Email != "john@example.com" || got.ConfirmPassword != "Secret123!" || len(got.Roles) != 1 {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestRegisterValidationShowsOneMessagePerField(t *testing.T) {
	rb, api := newRegisterBackend(t, "")
	form := validForm()
	form.Set("confirmPassword", "Other123!")
	form.Set("phoneNumber", "12345")
	form.Del("roles")
	form.Set("roles", "a")
	form.Add("roles", "b")
	form.Add("roles", "c")
	form.Add("roles", "d")

	rec := httptest.NewRecorder()
	_ = CreateRegistrationHandler(api)(rec, postRegister(form))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, msg := range []string{"Passwords do not match", "Please enter a valid phone number with country code", "You can select up to 3 roles"} {
		if !strings.Contains(body, msg) {
			t.Fatalf("expected %q in page", msg)
		}
	}
	if len(rb.registered) != 0 {
		t.Fatalf("invalid form must not reach the backend")
	}
}

func TestRegisterServerFieldErrors(t *testing.T) {
	_, api := newRegisterBackend(t, `{"success":false,"message":"Validation failed","errors":[{"field":"email","message":"Email already registered"}]}`)
	rec := httptest.NewRecorder()
	_ = CreateRegistrationHandler(api)(rec, postRegister(validForm()))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Email already registered") {
		t.Fatalf("expected server field error")
	}
	if strings.Contains(body, "Secret123!") {
		t.Fatalf("passwords must never be echoed")
	}
}

func TestRegisterFailureFallback(t *testing.T) {
	_, api := newRegisterBackend(t, `{"success":false}`)
	rec := httptest.NewRecorder()
	_ = CreateRegistrationHandler(api)(rec, postRegister(validForm()))
	if !strings.Contains(rec.Body.String(), failureFallback) {
		t.Fatalf("expected fallback banner")
	}
}
