package session

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestNewAccount_passwordPolicy(t *testing.T) {
	validate := testValidator(t)

	account := func(pwd string) NewAccount {
		return NewAccount{
			FirstName:       "Akosua",
			LastName:        "Mensah",
			Email:           "akosua.mensah@academyos.test",
			Password:        pwd,
			PasswordConfirm: pwd,
		}
	}

	tests := []struct {
		name     string
		password string
		wantTag  string // empty means valid
	}{
		{"ok", "Tr0ub4dor&3", ""},
		{"too short", "Ab3%xyz", pwdMinLenTag},
		{"whitespace", "open sesame1", pwdNoSpaceTag},
		{"all numeric", "8412090145", pwdNotAllNumTag},
		{"matches first name", "akosua123", pwdAttrSimTag},
		{"matches email", "akosua.mensah@academyos.test", pwdAttrSimTag},
		{"short-circuits on length", "12 4", pwdMinLenTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct := account(tt.password)
			err := acct.Validate(validate)
			if tt.wantTag == "" {
				if err != nil {
					t.Errorf("Validate() = %v; expected nil", err)
				}
				return
			}
			fieldErrs, ok := err.(validator.ValidationErrors)
			if !ok {
				t.Fatalf("Validate() = %T (%v); expected validator.ValidationErrors", err, err)
			}
			for _, fe := range fieldErrs {
				if fe.Tag() == tt.wantTag {
					return
				}
			}
			t.Errorf("Validate() tags %v; expected %s", fieldErrs, tt.wantTag)
		})
	}
}

func TestNewAccount_Validate_normalizes(t *testing.T) {
	validate := testValidator(t)
	acct := NewAccount{
		FirstName:       "  Akosua ",
		LastName:        " Mensah",
		Email:           " Akosua.Mensah@AcademyOS.test ",
		Password:        "Tr0ub4dor&3",
		PasswordConfirm: "Tr0ub4dor&3",
		Role:            "teacher",
	}
	if err := acct.Validate(validate); err != nil {
		t.Fatalf("Validate() = %v; expected nil", err)
	}
	if acct.FirstName != "Akosua" || acct.LastName != "Mensah" {
		t.Errorf("names not trimmed: %q %q", acct.FirstName, acct.LastName)
	}
	if acct.Email != "akosua.mensah@academyos.test" {
		t.Errorf("email not lowered: %q", acct.Email)
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"student", RoleStudent, false},
		{" Teacher ", RoleTeacher, false},
		{"ADMIN", RoleAdmin, false},
		{"parent", RoleParent, false},
		{"librarian", RoleNone, true},
		{"", RoleNone, true},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseRole(%q) = (%q, %v); expected (%q, err=%v)", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}
