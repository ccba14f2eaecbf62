package model

type RegisterRequest struct {
	NickName string `json:"nick_name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateLineRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,max=255"`
	Status      string `json:"status" validate:"omitempty,oneof=pending available allocated suspended"`
	Label       string `json:"label" validate:"max=255"`
	Note        string `json:"note" validate:"max=255"`
}

type UpdateLineRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=pending available allocated suspended"`
	Label  string `json:"label" validate:"max=255"`
	Note   string `json:"note" validate:"max=255"`
}

type CreateUserLineRequest struct {
	LineID string `json:"line_id" validate:"required,uuid"`
	UserID string `json:"user_id" validate:"required,uuid"`
	Status string `json:"status" validate:"omitempty,oneof=pending active released suspended"`
	Label  string `json:"label" validate:"max=255"`
}

type UpdateUserLineRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active released suspended"`
}

type UpdateMessageRequest struct {
	IsVisible *bool `json:"is_visible"`
	IsRead    *bool `json:"is_read"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// GatewayAck is returned to the upstream SMS gateway after ingestion.
type GatewayAck struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}
