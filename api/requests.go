package api

import "encoding/json"

// RegisterRequest is the body of the register endpoint.
type RegisterRequest struct {
	FullName string `json:"nombre_completo"`
	Email    string `json:"email"`
	Phone    string `json:"telefono"`
	Password string `json:"password"`
}

// LoginRequest is the body of the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"recordar"`
}

// LoginData is the data object of a successful login.
type LoginData struct {
	Token      string          `json:"token"`
	User       json.RawMessage `json:"usuario"`
	Expiration string          `json:"expiracion"`
}

// VerifyEmailRequest is the body of the verify-email endpoint.
type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"codigo"`
}

// EmailRequest is the body shared by forgot-password and resend-verification.
type EmailRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body of the reset-password endpoint.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}
