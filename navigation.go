package goAuthFlow

import (
	"net/url"
	"strings"
)

// Screen names a mountable auth screen.
type Screen string

const (
	ScreenLogin          Screen = "login"
	ScreenRegister       Screen = "register"
	ScreenVerifyEmail    Screen = "verify-email"
	ScreenForgotPassword Screen = "forgot-password"
	ScreenResetPassword  Screen = "reset-password"
	ScreenHome           Screen = "home"
)

// NavigationState is the in-memory payload handed to the next screen.
type NavigationState struct {
	Email   string
	Message string
}

// Navigation asks the host to mount another screen.
type Navigation struct {
	To    Screen
	State NavigationState
}

// Navigator performs navigations. It may be called from a timer goroutine.
type Navigator interface {
	Navigate(Navigation)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Navigation)

func (f NavigatorFunc) Navigate(n Navigation) {
	if f != nil {
		f(n)
	}
}

// ResetTokenFromURL extracts the "token" query parameter from a reset link.
// A bare query string ("token=abc") is accepted too.
func ResetTokenFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	query := raw
	if u, err := url.Parse(raw); err == nil && (u.Scheme != "" || u.RawQuery != "") {
		query = u.RawQuery
	}
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return ""
	}
	return values.Get("token")
}
