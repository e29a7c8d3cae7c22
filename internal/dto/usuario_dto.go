package dto

type CriarUsuarioRequest struct {
	Email string `json:"email" validate:"required,email"`
	Nome  string `json:"nome"  validate:"required,min=3,max=120"`
	Senha string `json:"senha" validate:"required,min=6"`
	Role  string `json:"role"  validate:"required,oneof=ADMIN OPERADOR"`
}

type AtualizarUsuarioRequest struct {
	Nome  string `json:"nome"  validate:"omitempty,min=3,max=120"`
	Senha string `json:"senha" validate:"omitempty,min=6"`
	Role  string `json:"role"  validate:"omitempty,oneof=ADMIN OPERADOR"`
}

type UsuarioResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Nome  string `json:"nome"`
	Role  string `json:"role"`
	Ativo bool   `json:"ativo"`
}
