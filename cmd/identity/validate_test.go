package identity

import (
	"errors"
	"strings"
	"testing"

	"snsfeed/cmd/security/password"
)

func validInput() RegisterInput {
	return RegisterInput{
		LoginID:  "alice01",
		Name:     "김 Alice",
		Nickname: "alice",
		Password: "secret1!",
	}
}

func TestValidateRegistration_Valid(t *testing.T) {
	t.Parallel()

	in := validInput()
	if err := ValidateRegistration(in, password.DefaultConfig()); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	url := "https://cdn.example.com/a.png"
	in.ProfileImageURL = &url
	if err := ValidateRegistration(in, password.DefaultConfig()); err != nil {
		t.Fatalf("expected valid input with url, got %v", err)
	}
}

func TestValidateRegistration_FirstFailingField(t *testing.T) {
	t.Parallel()

	str := func(s string) *string { return &s }

	cases := []struct {
		name    string
		mutate  func(*RegisterInput)
		field   string
		message string
	}{
		{"login id too short", func(in *RegisterInput) { in.LoginID = "ab" }, "loginId", "ID는 3-20자 사이여야 합니다"},
		{"login id too long", func(in *RegisterInput) { in.LoginID = strings.Repeat("a", 21) }, "loginId", "ID는 3-20자 사이여야 합니다"},
		{"login id uppercase", func(in *RegisterInput) { in.LoginID = "Alice" }, "loginId", "ID는 영문소문자와 숫자만 허용됩니다"},
		{"name too short", func(in *RegisterInput) { in.Name = "김" }, "name", "이름은 2-50자 사이여야 합니다"},
		{"name digits", func(in *RegisterInput) { in.Name = "alice9" }, "name", "이름은 한글, 영문대소문자만 허용됩니다"},
		{"nickname too short", func(in *RegisterInput) { in.Nickname = "a" }, "nickname", "닉네임은 2-20자 사이여야 합니다"},
		{"nickname digits", func(in *RegisterInput) { in.Nickname = "alice1" }, "nickname", "닉네임은 영문소문자만 허용됩니다"},
		{"password too short", func(in *RegisterInput) { in.Password = "a1!" }, "password", "비밀번호는 8-20자 사이여야 합니다"},
		{"password no special", func(in *RegisterInput) { in.Password = "secret123" }, "password", "비밀번호는 영문소문자, 숫자, 특수문자를 각각 1개 이상 포함해야 합니다"},
		{"profile url localhost", func(in *RegisterInput) { in.ProfileImageURL = str("http://localhost/a.png") }, "profileImageUrl", "올바른 URL 형식이어야 합니다"},
		{"profile url scheme", func(in *RegisterInput) { in.ProfileImageURL = str("javascript://x.com") }, "profileImageUrl", "올바른 URL 형식이어야 합니다"},
		{"login id checked before name", func(in *RegisterInput) { in.LoginID = "A"; in.Name = "1" }, "loginId", "ID는 3-20자 사이여야 합니다"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := validInput()
			tc.mutate(&in)

			err := ValidateRegistration(in, password.DefaultConfig())
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field || ve.Message != tc.message {
				t.Fatalf("got (%q, %q), want (%q, %q)", ve.Field, ve.Message, tc.field, tc.message)
			}
			if !IsInvalidInput(err) {
				t.Fatalf("expected ErrInvalidInput in chain")
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	// ftp and scheme-less hosts are accepted intentionally.
	cases := map[string]bool{
		"https://picsum.photos/40/40?random=1": true,
		"ftp://files.example.org/x":            true,
		"FTP://files.example.org/x":            true,
		"example.com/a.png":                    true,
		"cdn.example.co.kr":                    true,
		"gopher://example.com/x":               false,
		"mailto://user@example.com":            false,
		"http://localhost/a.png":               false,
		"localhost/a.png":                      false,
		"http://example":                       false,
		"http://example.c0m":                   false,
		"https://exa mple.com":                 false,
		" https://example.com":                 false,
		"":                                     false,
	}
	for raw, want := range cases {
		if got := isURL(raw); got != want {
			t.Errorf("isURL(%q) = %v, want %v", raw, got, want)
		}
	}
}
