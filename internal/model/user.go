package model

import "time"

// User roles
const (
	RoleParent    = "parent"
	RoleTeacher   = "teacher"
	RoleTherapist = "therapist"
	RoleDoctor    = "doctor"
	RoleAdmin     = "admin"
)

// Roles lists every role an admin may assign.
var Roles = []string{RoleParent, RoleTeacher, RoleTherapist, RoleDoctor, RoleAdmin}

// User is a platform account.
type User struct {
	ID           string     `json:"_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	Verified     bool       `json:"verified"`
	Blocked      bool       `json:"blocked"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastActiveAt *time.Time `json:"lastActiveAt,omitempty"`
	PostsCount   *int       `json:"postsCount,omitempty"`
}

func (u User) GetID() string { return u.ID }

// Status is the label shown in the users table.
func (u User) Status() string {
	if u.Blocked {
		return "Blocked"
	}
	return "Active"
}

// UserFilter holds the users page filters.
type UserFilter struct {
	Role    string `json:"role" form:"role"`
	Search  string `json:"search" form:"search"`
	Blocked string `json:"blocked" form:"blocked" binding:"omitempty,oneof=true false"`
}

// UpdateUserRequest is the body of PUT /admin/users/:id.
type UpdateUserRequest struct {
	Name    *string `json:"name,omitempty"`
	Role    *string `json:"role,omitempty" binding:"omitempty,oneof=parent teacher therapist doctor admin"`
	Blocked *bool   `json:"blocked,omitempty"`
}

// BulkUsersRequest is the body of the bulk block endpoints.
type BulkUsersRequest struct {
	UserIDs []string `json:"userIds"`
}
