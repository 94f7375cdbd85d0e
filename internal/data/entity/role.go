package entity

type RoleName string

const (
	RoleAdmin RoleName = "admin"
	RoleUser  RoleName = "user"
)

// KnownRoles lists every role name the service recognises, in seed order.
var KnownRoles = []RoleName{RoleAdmin, RoleUser}

func (n RoleName) IsValid() bool {
	for _, known := range KnownRoles {
		if n == known {
			return true
		}
	}
	return false
}

type Role struct {
	ID   int      `db:"id"`
	Name RoleName `db:"name"`
}

// UserRole is a row of the user_role join table.
type UserRole struct {
	UserID int64 `db:"user_id"`
	RoleID int   `db:"role_id"`
}
