package dto

import "time"

// CompanySummary empresa embebida en la lectura de un usuario.
type CompanySummary struct {
	ID          string `json:"id"`
	RazaoSocial string `json:"razao_social"`
}

// CreateUserRequest entrada para crear un usuario (senha en texto, se hashea en use case).
// EmpresaID es obligatorio solo para master; admin crea siempre en su propia empresa.
type CreateUserRequest struct {
	Nome        string `json:"nome" validate:"required,min=1,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Senha       string `json:"senha" validate:"required,min=6"`
	TipoUsuario string `json:"tipo_usuario" validate:"required,oneof=master admin entregador"`
	EmpresaID   string `json:"empresa_id" validate:"omitempty,uuid"`
}

// UpdateUserRequest entrada para editar un usuario. Senha vacía conserva la actual.
type UpdateUserRequest struct {
	Nome        string `json:"nome" validate:"required,min=1,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Senha       string `json:"senha" validate:"omitempty,min=6"`
	TipoUsuario string `json:"tipo_usuario" validate:"required,oneof=master admin entregador"`
	EmpresaID   string `json:"empresa_id" validate:"omitempty,uuid"`
}

// UserResponse salida de un usuario (sin senha).
type UserResponse struct {
	ID          string          `json:"id"`
	Nome        string          `json:"nome"`
	Email       string          `json:"email"`
	TipoUsuario string          `json:"tipo_usuario"`
	EmpresaID   string          `json:"empresa_id"`
	Empresa     *CompanySummary `json:"empresa,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

// LoginResponse salida con token JWT y el usuario autenticado.
type LoginResponse struct {
	Token   string       `json:"token"`
	Usuario UserResponse `json:"usuario"`
}
