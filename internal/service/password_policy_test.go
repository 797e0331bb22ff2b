package service

import (
	"errors"
	"testing"

	"github.com/diecast-shop/internal/config"
)

func TestValidatePassword(t *testing.T) {
	full := config.PasswordPolicyConfig{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}

	cases := []struct {
		name     string
		policy   config.PasswordPolicyConfig
		password string
		wantWeak bool
	}{
		{name: "zero policy accepts anything", policy: config.PasswordPolicyConfig{}, password: "x", wantWeak: false},
		{name: "full policy happy path", policy: full, password: "Abcdef1!", wantWeak: false},
		{name: "too short", policy: full, password: "Ab1!", wantWeak: true},
		{name: "missing upper", policy: full, password: "abcdef1!", wantWeak: true},
		{name: "missing lower", policy: full, password: "ABCDEF1!", wantWeak: true},
		{name: "missing digit", policy: full, password: "Abcdefg!", wantWeak: true},
		{name: "missing special", policy: full, password: "Abcdefg1", wantWeak: true},
		{
			name:     "min length counts runes not bytes",
			policy:   config.PasswordPolicyConfig{MinLength: 6},
			password: "密码密码密码",
			wantWeak: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(tc.policy, tc.password)
			if tc.wantWeak {
				if !errors.Is(err, ErrPasswordTooWeak) {
					t.Fatalf("want ErrPasswordTooWeak got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("want nil got %v", err)
			}
		})
	}
}
