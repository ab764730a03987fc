// Package handler defines the page handler shape used behind the router.
//
// Page handlers render their own validation, field and banner errors. They return an error only
// for conditions they cannot show in place, chiefly apiclient.ErrUnauthenticated, which the
// server turns into "clear the session and go to /login".
package handler

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

type Func func(w http.ResponseWriter, r *http.Request) error

// Render writes c as an HTML page with status.
func Render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render page failed", slog.String("path", r.URL.Path), slog.Any("err", err))
	}
	return nil
}
