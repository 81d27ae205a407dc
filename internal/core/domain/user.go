package domain

import "time"

type Role string

const (
	RoleParent Role = "parent"
	RoleCAS    Role = "cas"
	RoleDriver Role = "driver"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleParent, RoleCAS, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        string    `json:"id" firestore:"-"`
	Name      string    `json:"name" firestore:"name"`
	Email     string    `json:"email" firestore:"email"`
	Phone     string    `json:"phone" firestore:"phone"`
	Role      Role      `json:"role" firestore:"role"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Profile carries the user-editable fields collected at sign-up or on the
// profile screen.
type Profile struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Credential is the email/password identity kept by the password provider.
type Credential struct {
	UserID       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is what a successful sign-in hands back to the client.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// Claims identify the caller of an authenticated request.
type Claims struct {
	UserID    string
	Role      Role
	SessionID string
	ExpiresAt time.Time
}
