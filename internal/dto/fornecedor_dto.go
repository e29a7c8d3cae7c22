package dto

type FornecedorRequest struct {
	Nome     string  `json:"nome"     validate:"required,min=2,max=120"`
	CNPJ     *string `json:"cnpj"     validate:"omitempty,min=14,max=18"`
	Telefone *string `json:"telefone" validate:"omitempty,max=20"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Endereco *string `json:"endereco" validate:"omitempty,max=200"`
}

type FornecedorResponse struct {
	ID       string  `json:"id"`
	Nome     string  `json:"nome"`
	CNPJ     *string `json:"cnpj"`
	Telefone *string `json:"telefone"`
	Email    *string `json:"email"`
	Endereco *string `json:"endereco"`
	Ativo    bool    `json:"ativo"`
}
