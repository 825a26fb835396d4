package dto

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleSignInRequest struct {
	IDToken string `json:"id_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SessionUser mirrors the materialized session user published to clients.
type SessionUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Plan       string `json:"plan"`
	Credits    int    `json:"credits"`
	Registered bool   `json:"registered"`
	Verified   bool   `json:"verified"`
}

// SessionResponse is a tagged session snapshot. Status is "none",
// "optimistic" or "authoritative"; InitTimedOut stays true for the rest of
// the session once set.
type SessionResponse struct {
	Status       string       `json:"status"`
	User         *SessionUser `json:"user"`
	Ready        bool         `json:"ready"`
	InitTimedOut bool         `json:"init_timed_out"`
}

type AuthResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Session      SessionResponse `json:"session"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Redis     string `json:"redis"`
}
