package identity

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"snsfeed/cmd/security/password"
)

var (
	loginIDRe  = regexp.MustCompile(`^[a-z0-9]+$`)
	nameRe     = regexp.MustCompile(`^[가-힣a-zA-Z\s]+$`)
	nicknameRe = regexp.MustCompile(`^[a-z]+$`)
	tldRe      = regexp.MustCompile(`^\p{L}{2,63}$`)
)

// RegisterInput is the sign-up request as received from the HTTP boundary.
type RegisterInput struct {
	LoginID         string
	Name            string
	Nickname        string
	Password        string
	ProfileImageURL *string
}

// ValidateRegistration checks fields in declaration order and returns the first failure
// as a ValidationError carrying the user-facing message.
func ValidateRegistration(in RegisterInput, pw password.Config) error {
	if !lengthBetween(in.LoginID, 3, 20) {
		return ValidationError{Field: "loginId", Message: "ID는 3-20자 사이여야 합니다"}
	}
	if !loginIDRe.MatchString(in.LoginID) {
		return ValidationError{Field: "loginId", Message: "ID는 영문소문자와 숫자만 허용됩니다"}
	}

	if !lengthBetween(in.Name, 2, 50) {
		return ValidationError{Field: "name", Message: "이름은 2-50자 사이여야 합니다"}
	}
	if !nameRe.MatchString(in.Name) {
		return ValidationError{Field: "name", Message: "이름은 한글, 영문대소문자만 허용됩니다"}
	}

	if !lengthBetween(in.Nickname, 2, 20) {
		return ValidationError{Field: "nickname", Message: "닉네임은 2-20자 사이여야 합니다"}
	}
	if !nicknameRe.MatchString(in.Nickname) {
		return ValidationError{Field: "nickname", Message: "닉네임은 영문소문자만 허용됩니다"}
	}

	if err := pw.Validate(in.Password); err != nil {
		switch {
		case errors.Is(err, password.ErrPasswordTooShort), errors.Is(err, password.ErrPasswordTooLong):
			return ValidationError{
				Field:   "password",
				Message: fmt.Sprintf("비밀번호는 %d-%d자 사이여야 합니다", pw.Policy.MinLength, pw.Policy.MaxLength),
			}
		default:
			return ValidationError{Field: "password", Message: "비밀번호는 영문소문자, 숫자, 특수문자를 각각 1개 이상 포함해야 합니다"}
		}
	}

	if in.ProfileImageURL != nil && !isURL(*in.ProfileImageURL) {
		return ValidationError{Field: "profileImageUrl", Message: "올바른 URL 형식이어야 합니다"}
	}

	return nil
}

func lengthBetween(s string, minLen, maxLen int) bool {
	n := utf8.RuneCountInString(s)
	return n >= minLen && n <= maxLen
}

// isURL accepts http, https and ftp URLs with a dotted host and a letter TLD.
// A missing scheme is tolerated ("example.com/a.png").
func isURL(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" || s != raw || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp":
	default:
		return false
	}

	host := u.Hostname()
	if host == "localhost" {
		return false
	}
	dot := strings.LastIndexByte(host, '.')
	if dot <= 0 || dot == len(host)-1 {
		return false
	}
	return tldRe.MatchString(host[dot+1:])
}
