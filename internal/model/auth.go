package model

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the answer of POST /auth/login.
type LoginResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token"`
	User    *CurrentUser `json:"user"`
}

// CurrentUser is the identity persisted next to the token.
type CurrentUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u CurrentUser) IsAdmin() bool { return u.Role == RoleAdmin }
