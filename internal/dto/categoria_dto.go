package dto

type CategoriaRequest struct {
	Nome string `json:"nome" validate:"required,min=2,max=80"`
}

type CategoriaResponse struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}
