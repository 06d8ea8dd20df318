package main

import (
	"net/mail"
	"strings"
	"unicode"
)

const passwordSpecials = "@$!%*?&"

// validateUsername returns a message for the client, or "" when valid.
// The username is expected to be trimmed already.
func validateUsername(username string) string {
	if username == "" {
		return "Please provide a username"
	}
	if len(username) < 4 {
		return "Username must be at least 4 characters long"
	}
	return ""
}

func validateEmail(email string) string {
	if email == "" {
		return "Please provide an email"
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "Please enter a valid email"
	}
	return ""
}

func validatePassword(password string) string {
	if password == "" {
		return "Password is required"
	}
	if len(password) < 8 {
		return "Password must be at least 8 characters long"
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	if !lower || !upper || !digit || !special {
		return "Password must contain at least one uppercase letter, one lowercase letter, one digit, and one special character"
	}
	return ""
}
