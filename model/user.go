package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type UserStatus string

const (
	// UserStatusPending is the default for invited accounts that have not
	// yet completed activation.
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBlocked   UserStatus = "blocked"
)

type User struct {
	ID        string     `json:"id"`
	NickName  string     `json:"nick_name"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	Note      string     `json:"note,omitempty"`
	Deleted   bool       `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AuthUser is the identity attached to a request or connection after a
// successful token validation. SessionID is the jti of the presented access
// token; logout needs it to revoke the right session.
type AuthUser struct {
	ID        string
	Email     string
	Role      Role
	SessionID string
}
