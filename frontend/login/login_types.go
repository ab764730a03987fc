package login

import (
	"net/url"
	"strings"
	"time"
)

// RedirectDelay is how long the success banner stays before the browser moves to the dashboard.
const RedirectDelay = 2 * time.Second

const (
	successMessage  = "Login successful! Redirecting to dashboard..."
	failureFallback = "Login failed"
)

// Form is the login form as posted.
type Form struct {
	Email    string `form:"email" validate:"useremail"`
	Password string `form:"password" label:"Password" validate:"notblank"`
}

func formFromValues(v url.Values) Form {
	return Form{
		Email:    strings.TrimSpace(v.Get("email")),
		Password: v.Get("password"),
	}
}

// echo is what the page renders back; the password is never echoed.
func (f Form) echo() url.Values {
	return url.Values{"email": {f.Email}}
}
