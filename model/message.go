package model

import "time"

// Message is one inbound SMS delivered by the upstream gateway. UserID is
// the owning account, nil when no account currently holds the receiving
// line. IsVisible is computed at ingestion time, never supplied by the
// gateway.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	SMSC      string    `json:"smsc"`
	SCTS      string    `json:"scts"`
	Port      string    `json:"port"`
	Message   string    `json:"message"`
	IsVisible bool      `json:"is_visible"`
	IsRead    bool      `json:"is_read"`
	UserID    *string   `json:"user_id,omitempty"`
	Deleted   bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessagePayload is the wire form pushed over a live channel. It never
// carries the owning user reference, only the message fields the client is
// allowed to see.
type MessagePayload struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	SMSC      string    `json:"smsc"`
	SCTS      string    `json:"scts"`
	Port      string    `json:"port"`
	Message   string    `json:"message"`
	IsVisible bool      `json:"is_visible"`
	CreatedAt time.Time `json:"created_at"`
}
