package entity

import "time"

// Roles válidos para User (se derivan del flag Admin).
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Admin        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role devuelve el rol que se emite en el token.
func (u *User) Role() string {
	if u.Admin {
		return RoleAdmin
	}
	return RoleUser
}
