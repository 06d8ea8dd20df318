package main

import "testing"

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		wantErr  bool
	}{
		{"", true},
		{"abc", true},
		{"abcd", false},
		{"alice123", false},
	}
	for _, tt := range tests {
		if msg := validateUsername(tt.username); (msg != "") != tt.wantErr {
			t.Errorf("validateUsername(%q) = %q, wantErr %v", tt.username, msg, tt.wantErr)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"", true},
		{"not-an-email", true},
		{"a@", true},
		{"a@x.com", false},
	}
	for _, tt := range tests {
		if msg := validateEmail(tt.email); (msg != "") != tt.wantErr {
			t.Errorf("validateEmail(%q) = %q, wantErr %v", tt.email, msg, tt.wantErr)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"Ab1!", true},          // too short
		{"abc12345!", true},     // no uppercase
		{"ABC12345!", true},     // no lowercase
		{"Abcdefgh!", true},     // no digit
		{"Abc123456", true},     // no special
		{"Abc12345!", false},
		{"Str0ng&Pass", false},
	}
	for _, tt := range tests {
		if msg := validatePassword(tt.password); (msg != "") != tt.wantErr {
			t.Errorf("validatePassword(%q) = %q, wantErr %v", tt.password, msg, tt.wantErr)
		}
	}
}
