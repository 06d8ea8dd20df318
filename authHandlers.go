package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// POST /signup
func (app *App) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	verrs := ValidationErrors{}
	if msg := validateUsername(req.Username); msg != "" {
		verrs["username"] = msg
	}
	if msg := validateEmail(req.Email); msg != "" {
		verrs["email"] = msg
	}
	if msg := validatePassword(req.Password); msg != "" {
		verrs["password"] = msg
	}

	if _, ok := verrs["username"]; !ok {
		switch _, err := app.users.FindByUsername(ctx, req.Username); {
		case err == nil:
			verrs["username"] = "Username already taken"
		case !errors.Is(err, ErrUserNotFound):
			app.serverError(w, r, err)
			return
		}
	}
	if _, ok := verrs["email"]; !ok {
		switch _, err := app.users.FindByEmail(ctx, req.Email); {
		case err == nil:
			verrs["email"] = "Email already taken"
		case !errors.Is(err, ErrUserNotFound):
			app.serverError(w, r, err)
			return
		}
	}
	if len(verrs) > 0 {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"errors": newSignupErrorBody(verrs)})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	user := &User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
	}
	if err := app.users.Insert(ctx, user); err != nil {
		// unique index caught a race with another signup
		if errors.Is(err, ErrDuplicateUser) {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"errors": newSignupErrorBody(ValidationErrors{"username": "Username or email already taken"}),
			})
			return
		}
		app.serverError(w, r, err)
		return
	}

	token, err := app.codec.Issue(user.ID, user.Username)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// authenticate resolves a username/password pair to the stored user.
// Failures are ErrUserNotFound or ErrIncorrectPassword.
func (app *App) authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := app.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrIncorrectPassword
	}
	return user, nil
}

// POST /login
func (app *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := app.authenticate(ctx, strings.TrimSpace(req.Username), req.Password)
	switch {
	case errors.Is(err, ErrUserNotFound):
		writeJSON(w, http.StatusUnauthorized, map[string]any{"errors": loginErrorBody{Username: "User not found"}})
		return
	case errors.Is(err, ErrIncorrectPassword):
		writeJSON(w, http.StatusUnauthorized, map[string]any{"errors": loginErrorBody{Password: "Incorrect password!!"}})
		return
	case err != nil:
		app.serverError(w, r, err)
		return
	}

	token, err := app.codec.Issue(user.ID, user.Username)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// GET /logout
func (app *App) Logout(w http.ResponseWriter, r *http.Request) {
	app.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "User logged out successfully"})
}

// PATCH /user
func (app *App) UpdateUser(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	verrs := ValidationErrors{}
	upd := UserUpdate{}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if msg := validateUsername(username); msg != "" {
			verrs["username"] = msg
		} else if other, err := app.users.FindByUsername(ctx, username); err == nil && other.ID != session.UserID {
			verrs["username"] = "Username already taken"
		} else if err != nil && !errors.Is(err, ErrUserNotFound) {
			app.serverError(w, r, err)
			return
		} else {
			upd.Username = &username
		}
	}
	if req.Email != nil {
		if msg := validateEmail(*req.Email); msg != "" {
			verrs["email"] = msg
		} else if other, err := app.users.FindByEmail(ctx, *req.Email); err == nil && other.ID != session.UserID {
			verrs["email"] = "Email already taken"
		} else if err != nil && !errors.Is(err, ErrUserNotFound) {
			app.serverError(w, r, err)
			return
		} else {
			upd.Email = req.Email
		}
	}
	if req.Password != nil {
		// a changed password is always re-hashed with a fresh salt
		if msg := validatePassword(*req.Password); msg != "" {
			verrs["password"] = msg
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				app.serverError(w, r, err)
				return
			}
			hashed := string(hash)
			upd.Password = &hashed
		}
	}

	if len(verrs) > 0 {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"errors": newSignupErrorBody(verrs)})
		return
	}

	user, err := app.users.Update(ctx, session.UserID, upd)
	if err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"errors": newSignupErrorBody(ValidationErrors{"username": "Username or email already taken"}),
			})
			return
		}
		app.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GET /users
// Debug-only listing of all users.
func (app *App) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	users, err := app.users.All(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to retrieve users from database"})
		return
	}
	if users == nil {
		users = []User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// serverError logs the cause and answers with a generic 500 so internals
// never leak to clients.
func (app *App) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("handler error")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Something went wrong"})
}
