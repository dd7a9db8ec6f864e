package auth

import "github.com/juicejoy/juicejoy-backend/internal/users"

// PhoneLoginRequest carries the phone-first customer sign-in payload.
type PhoneLoginRequest struct {
	Phone string  `json:"phone" validate:"required,e164"`
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
}

// EmailLoginRequest carries the email-first customer sign-in payload.
type EmailLoginRequest struct {
	Email string  `json:"email" validate:"required,email"`
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
}

// BusinessLoginRequest carries the credentialed business-owner sign-in payload.
type BusinessLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the access token and user produced by a successful
// sign-in.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}
