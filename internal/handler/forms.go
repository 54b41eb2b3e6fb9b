// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"inkwell/internal/model"
)

// SignupForm holds the signup form fields and validation state.
type SignupForm struct {
	Username  string
	Password1 string
	Password2 string
	Errors    map[string]string
}

// parseSignupForm extracts signup fields from the request.
func parseSignupForm(r *http.Request) SignupForm {
	return SignupForm{
		Username:  strings.TrimSpace(r.FormValue("username")),
		Password1: r.FormValue("password1"),
		Password2: r.FormValue("password2"),
		Errors:    make(map[string]string),
	}
}

// Validate checks the form fields and fills Errors.
// Returns true if the form is valid.
func (f *SignupForm) Validate() bool {
	if err := model.ValidateUsername(f.Username); err != nil {
		f.Errors["username"] = validationMessage(err)
	}

	if f.Password1 == "" {
		f.Errors["password1"] = "Password is required"
	} else if err := model.ValidatePassword(f.Password1, f.Username); err != nil {
		f.Errors["password1"] = validationMessage(err)
	}

	if f.Password2 == "" {
		f.Errors["password2"] = "Please confirm your password"
	} else if f.Password1 != f.Password2 {
		f.Errors["password2"] = "Passwords do not match"
	}

	return len(f.Errors) == 0
}

// LoginForm holds the login form fields and validation state.
type LoginForm struct {
	Username string
	Password string
	Errors   map[string]string
}

// parseLoginForm extracts login fields from the request.
func parseLoginForm(r *http.Request) LoginForm {
	return LoginForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
		Errors:   make(map[string]string),
	}
}

// Validate checks that both fields are present.
func (f *LoginForm) Validate() bool {
	if f.Username == "" {
		f.Errors["username"] = "Username is required"
	}
	if f.Password == "" {
		f.Errors["password"] = "Password is required"
	}
	return len(f.Errors) == 0
}

// CommentForm holds the comment form fields and validation state.
type CommentForm struct {
	Body   string
	Errors map[string]string
}

// parseCommentForm extracts the comment body from the request.
func parseCommentForm(r *http.Request) CommentForm {
	return CommentForm{
		Body:   strings.TrimSpace(r.FormValue("body")),
		Errors: make(map[string]string),
	}
}

// Validate checks the comment body.
func (f *CommentForm) Validate() bool {
	if f.Body == "" {
		f.Errors["body"] = "Comment cannot be empty"
	} else if len([]rune(f.Body)) > model.CommentBodyMaxLength {
		f.Errors["body"] = "Comment is too long"
	}
	return len(f.Errors) == 0
}

// validationMessage extracts a display message from a validation error.
func validationMessage(err error) string {
	if verr, ok := err.(*model.ValidationError); ok {
		return verr.Message
	}
	return err.Error()
}
