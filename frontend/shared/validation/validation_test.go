package validation

import "testing"

func TestEmail(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  string
	}{
		{name: "valid", value: "john@example.com", want: ""},
		{name: "empty", value: "", want: "Email is required"},
		{name: "no at", value: "john.example.com", want: "Please enter a valid email address"},
		{name: "no domain dot", value: "john@example", want: "Please enter a valid email address"},
		{name: "whitespace inside", value: "jo hn@example.com", want: "Please enter a valid email address"},
		{name: "two ats", value: "john@@example.com", want: "Please enter a valid email address"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Email(tc.value); got != tc.want {
				t.Fatalf("Email(%q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	const classes = "Password must contain uppercase, lowercase, number, and special character"
	cases := []struct {
		name  string
		value string
		want  string
	}{
		{name: "empty", value: "", want: "Password is required"},
		{name: "short", value: "abc", want: "Password must be at least 8 characters long"},
		{name: "letters only", value: "abcdefgh", want: classes},
		{name: "no special", value: "Abcdefg1", want: classes},
		{name: "unsupported special", value: "Abcdefg1^", want: classes},
		{name: "space", value: "Abc defg1!", want: classes},
		{name: "valid", value: "Abcdefg1!", want: ""},
		{name: "valid underscore", value: "Passw0rd_", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Password(tc.value); got != tc.want {
				t.Fatalf("Password(%q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{value: "", ok: true},
		{value: "+14155551234", ok: true},
		{value: "442071838750", ok: true},
		{value: "12345", ok: false},
		{value: "123", ok: false},
		{value: "+14", ok: false},
		{value: "+1234567", ok: true},
		{value: "+0123456789", ok: false},
		{value: "+1 415 555 1234", ok: false},
		{value: "+1234567890123456", ok: false},
	}
	for _, tc := range cases {
		got := Phone(tc.value)
		if tc.ok && got != "" {
			t.Fatalf("Phone(%q) = %q, want valid", tc.value, got)
		}
		if !tc.ok && got != "Please enter a valid phone number with country code" {
			t.Fatalf("Phone(%q) = %q, want phone error", tc.value, got)
		}
	}
}

func TestRequired(t *testing.T) {
	if got := Required("   ", "First name"); got != "First name is required" {
		t.Fatalf("expected whitespace to fail, got %q", got)
	}
	if got := Required("", "Country"); got != "Country is required" {
		t.Fatalf("expected empty to fail, got %q", got)
	}
	if got := Required(" x ", "Country"); got != "" {
		t.Fatalf("expected value to pass, got %q", got)
	}
}
