package api

// Request DTOs

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SsoRequest carries the profile asserted by the trusted identity layer
// after a federated sign-in. Guarded by the shared auth secret, not a session.
type SsoRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// Response DTOs

type SignupResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token,omitempty"` // for non-cookie clients
}
