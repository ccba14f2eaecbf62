package model

import "time"

type LineStatus string

const (
	LineStatusPending   LineStatus = "pending"   // not ready to use
	LineStatusAvailable LineStatus = "available" // free to allocate
	LineStatusAllocated LineStatus = "allocated" // assigned to a user
	LineStatusSuspended LineStatus = "suspended" // suspended by admin
)

type Line struct {
	ID          string     `json:"id"`
	PhoneNumber string     `json:"phone_number"`
	Status      LineStatus `json:"status"`
	Label       string     `json:"label,omitempty"`
	Note        string     `json:"note,omitempty"`
	Deleted     bool       `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// UserLine is the line's current assignment, loaded by lookup when
	// needed. Nil when the line is unassigned.
	UserLine *UserLine `json:"user_line,omitempty"`
}

type UserLineStatus string

const (
	UserLineStatusPending   UserLineStatus = "pending"   // awaiting admin approval
	UserLineStatusActive    UserLineStatus = "active"    // user may use the line
	UserLineStatusReleased  UserLineStatus = "released"  // association released
	UserLineStatusSuspended UserLineStatus = "suspended" // suspended by admin
)

// UserLine ties a line to the user it is assigned to. Joins are performed by
// explicit lookup on LineID/UserID; entities never embed each other both ways.
type UserLine struct {
	ID        string         `json:"id"`
	LineID    string         `json:"line_id"`
	UserID    string         `json:"user_id"`
	Status    UserLineStatus `json:"status"`
	Label     string         `json:"label,omitempty"`
	Note      string         `json:"note,omitempty"`
	Deleted   bool           `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	// UserStatus is the assigned user's account status, populated by the
	// line lookup so the visibility decision needs no second query.
	UserStatus UserStatus `json:"-"`
}
