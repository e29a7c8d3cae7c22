package dto

import "github.com/shopspring/decimal"

// ProdutoFilter é vinculado da query string de GET /v1/produtos.
type ProdutoFilter struct {
	Busca       string `form:"busca"`
	CategoriaID string `form:"categoria_id" validate:"omitempty,uuid"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type CriarProdutoRequest struct {
	Nome        string          `json:"nome"         validate:"required,min=2,max=120"`
	Codigo      *string         `json:"codigo"       validate:"omitempty,min=1,max=64"`
	Preco       decimal.Decimal `json:"preco"        validate:"required,gt=0"`
	Estoque     int             `json:"estoque"      validate:"min=0"`
	CategoriaID *string         `json:"categoria_id" validate:"omitempty,uuid"`
}

type AtualizarProdutoRequest struct {
	Nome        string           `json:"nome"         validate:"omitempty,min=2,max=120"`
	Codigo      *string          `json:"codigo"       validate:"omitempty,min=1,max=64"`
	Preco       *decimal.Decimal `json:"preco"        validate:"omitempty"`
	Estoque     *int             `json:"estoque"      validate:"omitempty,min=0"`
	CategoriaID *string          `json:"categoria_id" validate:"omitempty,uuid"`
}

type ProdutoResponse struct {
	ID        string          `json:"id"`
	Nome      string          `json:"nome"`
	Codigo    *string         `json:"codigo"`
	Preco     decimal.Decimal `json:"preco"`
	Estoque   int             `json:"estoque"`
	Categoria *CategoriaResponse `json:"categoria,omitempty"`
	CreatedAt string          `json:"created_at"`
}
