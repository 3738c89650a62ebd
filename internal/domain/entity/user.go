package entity

import "time"

// Role rol de autorización de un usuario. El conjunto es fijo.
type Role string

// Roles válidos para User.
const (
	RoleMaster     Role = "master"
	RoleAdmin      Role = "admin"
	RoleEntregador Role = "entregador"
)

// Roles devuelve todos los roles conocidos en orden de privilegio descendente.
func Roles() []Role {
	return []Role{RoleMaster, RoleAdmin, RoleEntregador}
}

// Valid informa si el rol pertenece al conjunto fijo.
func (r Role) Valid() bool {
	switch r {
	case RoleMaster, RoleAdmin, RoleEntregador:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Name         string
	Email        string
	PasswordHash string // bcrypt; nunca se serializa
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time

	CompanyName string // solo lectura (JOIN companies)
}
