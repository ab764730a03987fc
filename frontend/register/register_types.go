package register

import (
	"net/url"
	"strings"
	"time"

	"userhub/infrastructure/apiclient"
)

const RedirectDelay = 2 * time.Second

const (
	successMessage  = "Registration successful! Redirecting to login..."
	failureFallback = "Registration failed"
)

// Form is the registration form as posted.
type Form struct {
	FirstName       string   `form:"firstName" label:"First name" validate:"notblank"`
	LastName        string   `form:"lastName" label:"Last name" validate:"notblank"`
	Email           string   `form:"email" validate:"useremail"`
	Password        string   `form:"password" validate:"userpassword"`
	ConfirmPassword string   `form:"confirmPassword" validate:"required,eqfield=Password" msg:"required=Please confirm your password;eqfield=Passwords do not match"`
	PhoneNumber     string   `form:"phoneNumber" validate:"userphone"`
	Country         string   `form:"country" label:"Country" validate:"notblank"`
	Roles           []string `form:"roles" validate:"min=1,max=3" msg:"min=Please select at least one role;max=You can select up to 3 roles"`
}

func formFromValues(v url.Values) Form {
	return Form{
		FirstName:       strings.TrimSpace(v.Get("firstName")),
		LastName:        strings.TrimSpace(v.Get("lastName")),
		Email:           strings.TrimSpace(v.Get("email")),
		Password:        v.Get("password"),
		ConfirmPassword: v.Get("confirmPassword"),
		PhoneNumber:     strings.TrimSpace(v.Get("phoneNumber")),
		Country:         strings.TrimSpace(v.Get("country")),
		Roles:           v["roles"],
	}
}

// echo drops both password fields.
func (f Form) echo() url.Values {
	return url.Values{
		"firstName":   {f.FirstName},
		"lastName":    {f.LastName},
		"email":       {f.Email},
		"phoneNumber": {f.PhoneNumber},
		"country":     {f.Country},
		"roles":       append([]string(nil), f.Roles...),
	}
}

func (f Form) request() apiclient.RegisterRequest {
	roles := f.Roles
	if roles == nil {
		roles = []string{}
	}
	return apiclient.RegisterRequest{
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		Email:           f.Email,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
		PhoneNumber:     f.PhoneNumber,
		Country:         f.Country,
		Roles:           roles,
	}
}
