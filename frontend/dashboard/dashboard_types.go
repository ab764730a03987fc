package dashboard

import (
	"net/url"
	"strings"
	"time"

	"userhub/frontend/shared/nav"
	"userhub/frontend/shared/viewmodel"
	"userhub/infrastructure/apiclient"
	"userhub/models"
)

// BannerDismiss is how long dashboard banners stay on screen.
const BannerDismiss = 3 * time.Second

const (
	loadFailedMessage      = "Failed to load profile data"
	profileSavedMessage    = "Profile updated successfully!"
	profileFailedFallback  = "Update failed"
	passwordSavedMessage   = "Password changed successfully!"
	passwordFailedFallback = "Password change failed"
)

// ProfileForm is the profile edit form as posted.
type ProfileForm struct {
	FirstName   string   `form:"firstName" label:"First name" validate:"notblank"`
	LastName    string   `form:"lastName" label:"Last name" validate:"notblank"`
	Email       string   `form:"email" validate:"useremail"`
	PhoneNumber string   `form:"phoneNumber" validate:"userphone"`
	Country     string   `form:"country" label:"Country" validate:"notblank"`
	Roles       []string `form:"roles" validate:"min=1" msg:"min=Please select at least one role"`
}

func profileFormFromValues(v url.Values) ProfileForm {
	return ProfileForm{
		FirstName:   strings.TrimSpace(v.Get("firstName")),
		LastName:    strings.TrimSpace(v.Get("lastName")),
		Email:       strings.TrimSpace(v.Get("email")),
		PhoneNumber: strings.TrimSpace(v.Get("phoneNumber")),
		Country:     strings.TrimSpace(v.Get("country")),
		Roles:       v["roles"],
	}
}

func (f ProfileForm) values() url.Values {
	return url.Values{
		"firstName":   {f.FirstName},
		"lastName":    {f.LastName},
		"email":       {f.Email},
		"phoneNumber": {f.PhoneNumber},
		"country":     {f.Country},
		"roles":       append([]string(nil), f.Roles...),
	}
}

func (f ProfileForm) request() apiclient.ProfileUpdate {
	roles := f.Roles
	if roles == nil {
		roles = []string{}
	}
	return apiclient.ProfileUpdate{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Email:       f.Email,
		PhoneNumber: f.PhoneNumber,
		Country:     f.Country,
		Roles:       roles,
	}
}

// profileValues is the editable copy of a loaded profile.
func profileValues(u models.User) url.Values {
	return url.Values{
		"firstName":   {u.FirstName},
		"lastName":    {u.LastName},
		"email":       {u.Email},
		"phoneNumber": {u.PhoneNumber},
		"country":     {u.Country},
		"roles":       append([]string(nil), u.Roles...),
	}
}

// PasswordForm is the change-password dialog as posted.
type PasswordForm struct {
	CurrentPassword    string `form:"currentPassword" label:"Current password" validate:"notblank"`
	NewPassword        string `form:"newPassword" validate:"nefield=CurrentPassword,userpassword" msg:"nefield=New password must be different from current password"`
	ConfirmNewPassword string `form:"confirmNewPassword" label:"Confirm new password" validate:"notblank,eqfield=NewPassword" msg:"eqfield=Passwords do not match"`
}

func passwordFormFromValues(v url.Values) PasswordForm {
	return PasswordForm{
		CurrentPassword:    v.Get("currentPassword"),
		NewPassword:        v.Get("newPassword"),
		ConfirmNewPassword: v.Get("confirmNewPassword"),
	}
}

func (f PasswordForm) request() apiclient.PasswordChange {
	return apiclient.PasswordChange{
		CurrentPassword:    f.CurrentPassword,
		NewPassword:        f.NewPassword,
		ConfirmNewPassword: f.ConfirmNewPassword,
	}
}

// PageData is everything the dashboard renders. Banner is the page-level banner, kept apart from
// the two forms so a load failure and an open edit can show together.
type PageData struct {
	Nav          nav.TopNavData
	User         models.User
	HasUser      bool
	Roles        []models.Role
	Profile      viewmodel.Form
	Password     viewmodel.Form
	PasswordOpen bool
	Banner       viewmodel.Banner
	Activity     []models.AuditLog
}
