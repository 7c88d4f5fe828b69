// Package validate holds the input rules for registration and login. The
// server enforces them; the CLI applies the same rules before sending a form.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 50
	EmailMaxLen    = 100
	PasswordMinLen = 6
	// bcrypt ignores input past 72 bytes and x/crypto rejects it.
	PasswordMaxBytes = 72
)

// Field names used in ValidationError.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Registration checks every field and reports all violations at once, one
// message per field. It returns nil when the input is acceptable.
func Registration(username, email, password string) *common.ValidationError {
	v := common.NewValidationError()
	checkUsername(v, username)
	checkEmail(v, email)
	checkPassword(v, password)
	if v.Empty() {
		return nil
	}
	return v
}

// Login only requires both fields to be present.
func Login(email, password string) *common.ValidationError {
	v := common.NewValidationError()
	if strings.TrimSpace(email) == "" {
		v.Add(FieldEmail, "email is required")
	}
	if password == "" {
		v.Add(FieldPassword, "password is required")
	}
	if v.Empty() {
		return nil
	}
	return v
}

// Email reports whether s has the local@domain.tld shape.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

func checkUsername(v *common.ValidationError, username string) {
	n := utf8.RuneCountInString(username)
	switch {
	case strings.TrimSpace(username) == "":
		v.Add(FieldUsername, "username is required")
	case n < UsernameMinLen:
		v.Add(FieldUsername, fmt.Sprintf("username must be at least %d characters", UsernameMinLen))
	case n > UsernameMaxLen:
		v.Add(FieldUsername, fmt.Sprintf("username must be at most %d characters", UsernameMaxLen))
	}
}

func checkEmail(v *common.ValidationError, email string) {
	switch {
	case strings.TrimSpace(email) == "":
		v.Add(FieldEmail, "email is required")
	case utf8.RuneCountInString(email) > EmailMaxLen:
		v.Add(FieldEmail, fmt.Sprintf("email must be at most %d characters", EmailMaxLen))
	case !Email(email):
		v.Add(FieldEmail, "email is invalid")
	}
}

func checkPassword(v *common.ValidationError, password string) {
	switch {
	case password == "":
		v.Add(FieldPassword, "password is required")
	case utf8.RuneCountInString(password) < PasswordMinLen:
		v.Add(FieldPassword, fmt.Sprintf("password must be at least %d characters", PasswordMinLen))
	case len(password) > PasswordMaxBytes:
		v.Add(FieldPassword, fmt.Sprintf("password must be at most %d bytes", PasswordMaxBytes))
	}
}
