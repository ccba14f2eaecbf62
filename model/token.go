package model

import "time"

// Revocation states stored in the revoked column of both token tables.
const (
	TokenNotRevoked = 0
	TokenRevoked    = 1
)

// AccessToken is the database record backing one issued JWT. The ID is the
// token's own jti claim, not a surrogate key. Rows are never deleted; only
// the Revoked flag ever changes.
type AccessToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Revoked   int       `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RefreshToken is minted alongside an AccessToken and linked to it by
// AccessTokenID. Its expiry is the access token expiry plus a configured
// extension.
type RefreshToken struct {
	ID            string    `json:"id"`
	AccessTokenID string    `json:"access_token_id"`
	Revoked       int       `json:"revoked"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// TokenPair is what login, register and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}
