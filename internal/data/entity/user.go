package entity

import (
	"strings"
	"time"
)

type UserStatus string

const (
	StatusActive     UserStatus = "active"
	StatusPending    UserStatus = "pending"
	StatusDeactivate UserStatus = "deactivate"
)

func (s UserStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusPending, StatusDeactivate:
		return true
	}
	return false
}

const PhoneNumberLength = 10

type User struct {
	Base
	Fullname     string     `db:"fullname"`
	Username     string     `db:"username"`
	PhoneNumber  *string    `db:"phone_number"`
	PasswordHash string     `db:"password"`
	LastLogin    *time.Time `db:"last_login"`
	Status       UserStatus `db:"status"`
	Roles        []Role     `db:"-"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func (u *User) HasRole(name RoleName) bool {
	for _, role := range u.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}

func (u *User) RoleNames() []RoleName {
	names := make([]RoleName, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}

// Validate checks the user_account invariants that must hold before a row is
// written. The returned map is keyed by column name and is nil when valid.
func (u *User) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(u.Fullname) == "" {
		errs["fullname"] = "This field is required"
	}
	if msg := ValidateUsername(u.Username); msg != "" {
		errs["username"] = msg
	}
	if u.PhoneNumber != nil {
		if msg := ValidatePhoneNumber(*u.PhoneNumber); msg != "" {
			errs["phone_number"] = msg
		}
	}
	if u.PasswordHash == "" {
		errs["password"] = "This field is required"
	}
	if !u.Status.IsValid() {
		errs["status"] = "Must be one of: active, pending, deactivate"
	}

	seen := make(map[RoleName]bool, len(u.Roles))
	for _, role := range u.Roles {
		if !role.Name.IsValid() {
			errs["roles"] = "Unknown role " + string(role.Name)
			break
		}
		if seen[role.Name] {
			errs["roles"] = "Duplicate role " + string(role.Name)
			break
		}
		seen[role.Name] = true
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateUsername returns an empty string when username is acceptable.
// Only the presence of '@' is checked, not full address syntax.
func ValidateUsername(username string) string {
	if username == "" {
		return "This field is required"
	}
	if !strings.Contains(username, "@") {
		return "Failed simple email validation"
	}
	return ""
}

// ValidatePhoneNumber returns an empty string when phone is exactly ten ASCII digits.
func ValidatePhoneNumber(phone string) string {
	if len(phone) != PhoneNumberLength {
		return "Must be exactly 10 digits"
	}
	for i := 0; i < len(phone); i++ {
		if phone[i] < '0' || phone[i] > '9' {
			return "Must be exactly 10 digits"
		}
	}
	return ""
}
