package dto

// RegisterRequest payload for new identities.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest payload for token rotation. The token may carry a
// "Bearer " prefix.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest payload for logout.
type LogoutRequest struct {
	AccessToken string `json:"access_token"`
}

// SessionResponse is the standard response of every token-yielding step.
type SessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Role         string `json:"role"`
	DisplayName  string `json:"display_name"`
}
