package session

import (
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Kwesikendy/academyos/core"
)

// Roles form a closed set; anything else is treated as belonging to no
// role at all (fail closed).
const (
	RoleNone    Role = ""
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
	RoleParent  Role = "parent"
)

var AllRoles = []Role{RoleStudent, RoleTeacher, RoleAdmin, RoleParent}

type Role string

// ParseRole maps a backend role string onto the closed enum.
// Unrecognized values return RoleNone and an error.
func ParseRole(s string) (Role, error) {
	r := Role(core.CleanString(s, true /* lower */))
	for _, known := range AllRoles {
		if r == known {
			return r, nil
		}
	}
	return RoleNone, errors.Errorf("unknown role %q", s)
}

// Known reports whether r is a member of the closed role set.
func (r Role) Known() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// Identity is the authenticated user's profile as confirmed by the
// backend. It is either fully populated or absent; no partial identities.
type Identity struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

func (i Identity) FullName() string {
	return fmt.Sprintf("%s %s", i.FirstName, i.LastName)
}

// Credential is the persisted client state surviving restarts: the
// opaque bearer token plus a denormalized identity copy for instant
// paint before the confirming network call resolves.
type Credential struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
}

// Snapshot is what readers observe; treat it as a point-in-time value.
type Snapshot struct {
	Identity *Identity
	Loading  bool
}

func (s Snapshot) Authenticated() bool { return s.Identity != nil }

// Role returns the snapshot's role, RoleNone when unauthenticated.
func (s Snapshot) Role() Role {
	if s.Identity == nil {
		return RoleNone
	}
	return s.Identity.Role
}

// Login is the credentials payload sent to the auth collaborator.
type Login struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (l *Login) Validate(validate *validator.Validate) error {
	l.Email = core.CleanString(l.Email, true /* lower */)
	return validate.Struct(l)
}

// NewAccount contains information needed to register a new account.
type NewAccount struct {
	FirstName       string `json:"first_name" form:"first_name" validate:"required"`
	LastName        string `json:"last_name" form:"last_name" validate:"required"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
	Role            string `json:"role" form:"role" validate:"omitempty,knownrole"`
}

func (na *NewAccount) Validate(validate *validator.Validate) error {
	na.FirstName = core.CleanString(na.FirstName)
	na.LastName = core.CleanString(na.LastName)
	na.Email = core.CleanString(na.Email, true /* lower */)
	return validate.Struct(na)
}

// InitValidators registers session-specific validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(knownRoleTag, knownRoleValidation)
	core.RegisterCustomTranslation(validate, translator, knownRoleTag, knownRoleText)

	validate.RegisterStructValidation(newAccountStructValidation, NewAccount{})
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
}
