package user

import (
	"time"

	"github.com/medcare/medcare/internal/platform/interchange"
)

type Role string

const (
	Admin        Role = "admin"
	Doctor       Role = "doctor"
	Nurse        Role = "nurse"
	Receptionist Role = "receptionist"
)

func (r Role) Label() string { return string(r) }

var roles = []string{string(Admin), string(Doctor), string(Nurse), string(Receptionist)}

// ParseRole folds a client supplied role onto a known one.
func ParseRole(s string) (Role, bool) {
	s = interchange.NormalizeLabel(s)
	for _, r := range roles {
		if s == r {
			return Role(r), true
		}
	}
	return "", false
}

// User maps to the users table. PasswordHash never leaves the service.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

func (u User) Fields() []interchange.Field {
	return []interchange.Field{
		{Name: "id", Value: u.ID},
		{Name: "name", Value: u.Name},
		{Name: "email", Value: u.Email},
		{Name: "role", Value: u.Role},
		{Name: "createdAt", Value: u.CreatedAt},
	}
}

// Session is returned by login and registration.
type Session struct {
	User  *User
	Token string
}

func (s Session) Fields() []interchange.Field {
	return []interchange.Field{
		{Name: "user", Value: s.User},
		{Name: "token", Value: s.Token},
	}
}

// Registration is a request to create an account.
type Registration struct {
	Name     string
	Email    string
	Password string
	Role     string
}

func RegistrationFromBody(b interchange.Body) Registration {
	return Registration{
		Name:     b.String("name"),
		Email:    b.String("email"),
		Password: b.String("password"),
		Role:     b.String("role"),
	}
}
