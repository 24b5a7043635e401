package dto

// Data Transfer Objects for the signup and token endpoints

// SignupRequest: payload for signup; "me" is rejected by the service
type SignupRequest struct {
	Username string `json:"username" binding:"required,max=150,username"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// SignupResponse echoes the identity the confirmation code was sent for
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest: exchange a mailed confirmation code for a token
type TokenRequest struct {
	Username         string `json:"username" binding:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse: response payload after successful token issuance
type TokenResponse struct {
	Token string `json:"token"`
}
