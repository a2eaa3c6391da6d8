package dto

// LoginRequest is the credential pair accepted by the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// LoginUser is the public shape of the authenticated account.
type LoginUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"nama,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"no_telpon,omitempty"`
	Role     string `json:"role"`
}
