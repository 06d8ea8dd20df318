package main

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors for the auth and task flows. Handlers branch on these,
// never on message text.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrDuplicateUser     = errors.New("username or email already taken")
	ErrTaskNotFound      = errors.New("task not found")
	ErrNotOwner          = errors.New("user not authorized")
)

// ValidationErrors collects per-field messages from signup/update validation.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// signupErrorBody is the wire shape for signup/profile-update failures. All
// three keys are always present, empty when the field passed.
type signupErrorBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func newSignupErrorBody(v ValidationErrors) signupErrorBody {
	return signupErrorBody{
		Username: v["username"],
		Email:    v["email"],
		Password: v["password"],
	}
}

// loginErrorBody is the wire shape for login failures.
type loginErrorBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
