package entity

import "time"

// User roles. The closed set of role variants gating contest visibility and
// restricted-tier access.
const (
	RoleAdmin  = "admin"
	RoleVIP    = "vip"
	RoleNormal = "normal"
)

// User represents an authenticated participant. Credentials and profile
// management belong to the auth collaborator; this core only reads identity,
// display name and role.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Role      string    `gorm:"size:20;not null;default:'normal'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName defines the GORM table name
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAccessLevel is the capability check for contest access tiers:
// vip contests are open to vip and admin users, normal contests to everyone.
func CanAccessLevel(role, accessLevel string) bool {
	if accessLevel != AccessLevelVIP {
		return true
	}
	return role == RoleVIP || role == RoleAdmin
}
