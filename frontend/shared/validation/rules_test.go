package validation

import "testing"

type signupForm struct {
	FirstName       string   `form:"firstName" label:"First name" validate:"notblank"`
	Email           string   `form:"email" validate:"useremail"`
	Password        string   `form:"password" validate:"userpassword"`
	ConfirmPassword string   `form:"confirmPassword" validate:"required,eqfield=Password" msg:"required=Please confirm your password;eqfield=Passwords do not match"`
	PhoneNumber     string   `form:"phoneNumber" validate:"userphone"`
	Roles           []string `form:"roles" validate:"min=1,max=3" msg:"min=Please select at least one role;max=Select at most 3 roles"`
}

type changeForm struct {
	CurrentPassword string `form:"currentPassword" label:"Current password" validate:"notblank"`
	NewPassword     string `form:"newPassword" validate:"nefield=CurrentPassword,userpassword" msg:"nefield=New password must be different from current password"`
}

func TestCheckReportsOneMessagePerField(t *testing.T) {
	errs := Check(signupForm{Email: "nope", Password: "short", ConfirmPassword: "other", PhoneNumber: "12345"})

	want := Errors{
		"firstName":       "First name is required",
		"email":           "Please enter a valid email address",
		"password":        "Password must be at least 8 characters long",
		"confirmPassword": "Passwords do not match",
		"phoneNumber":     "Please enter a valid phone number with country code",
		"roles":           "Please select at least one role",
	}
	if len(errs) != len(want) {
		t.Fatalf("expected %d errors, got %d: %v", len(want), len(errs), errs)
	}
	for field, msg := range want {
		if errs[field] != msg {
			t.Fatalf("field %s: expected %q, got %q", field, msg, errs[field])
		}
	}
}

func TestCheckValidForm(t *testing.T) {
	errs := Check(&signupForm{
		FirstName:       "John",
		Email:           "john@example.com",
		Password:        "Abcdefg1!",
		ConfirmPassword: "Abcdefg1!",
		Roles:           []string{"General User"},
	})
	if !errs.Empty() {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckCustomRequiredMessage(t *testing.T) {
	errs := Check(signupForm{Password: "Abcdefg1!", Roles: []string{"a", "b", "c", "d"}})
	if errs["confirmPassword"] != "Please confirm your password" {
		t.Fatalf("unexpected confirm message %q", errs["confirmPassword"])
	}
	if errs["roles"] != "Select at most 3 roles" {
		t.Fatalf("unexpected roles message %q", errs["roles"])
	}
}

func TestCheckSamePasswordWinsOverComplexity(t *testing.T) {
	errs := Check(changeForm{CurrentPassword: "weak", NewPassword: "weak"})
	if errs["newPassword"] != "New password must be different from current password" {
		t.Fatalf("unexpected message %q", errs["newPassword"])
	}

	errs = Check(changeForm{CurrentPassword: "Oldpass1!", NewPassword: "weak"})
	if errs["newPassword"] != "Password must be at least 8 characters long" {
		t.Fatalf("unexpected message %q", errs["newPassword"])
	}
}

func TestErrorsMergeOverwritesNamedFieldsOnly(t *testing.T) {
	base := Errors{"email": "old", "firstName": "keep"}
	got := base.Merge(Errors{"email": "Email already registered"})
	if got["email"] != "Email already registered" || got["firstName"] != "keep" {
		t.Fatalf("unexpected merge result %v", got)
	}
	if base["email"] != "old" {
		t.Fatalf("merge must not mutate receiver")
	}
}
