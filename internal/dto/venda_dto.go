package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type ItemVendaRequest struct {
	ProdutoID  string          `json:"produto_id" validate:"required,uuid"`
	Quantidade int             `json:"quantidade" validate:"required,min=1"`
	PrecoUnit  decimal.Decimal `json:"preco_unit" validate:"required,gt=0"`
}

type PagamentoRequest struct {
	Tipo  string          `json:"tipo"  validate:"required,oneof=DINHEIRO PIX CARTAO_CREDITO CARTAO_DEBITO"`
	Valor decimal.Decimal `json:"valor" validate:"required,gt=0"`
	// ValorRecebido só se aplica a DINHEIRO.
	ValorRecebido *decimal.Decimal `json:"valor_recebido" validate:"omitempty"`
	// Parcelas só se aplica a CARTAO_CREDITO.
	Parcelas *int `json:"parcelas" validate:"omitempty,min=1,max=12"`
	// Confirmado é obrigatório (true) para PIX.
	Confirmado *bool `json:"confirmado"`
}

type CriarVendaRequest struct {
	Itens      []ItemVendaRequest `json:"itens"      validate:"required,min=1,dive"`
	Desconto   decimal.Decimal    `json:"desconto"   validate:"min=0"`
	Pagamentos []PagamentoRequest `json:"pagamentos" validate:"required,min=1,dive"`
	Cliente    *string            `json:"cliente"    validate:"omitempty,max=120"`
	CPF        *string            `json:"cpf"        validate:"omitempty,max=14"`
	Observacao *string            `json:"observacao" validate:"omitempty,max=300"`
}

// VendaFilter é vinculado da query string de GET /v1/vendas.
type VendaFilter struct {
	Data  string `form:"data"             validate:"omitempty,datetime=2006-01-02"` // YYYY-MM-DD
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type ItemVendaResponse struct {
	ProdutoID  string          `json:"produto_id"`
	Produto    string          `json:"produto"`
	Quantidade int             `json:"quantidade"`
	PrecoUnit  decimal.Decimal `json:"preco_unit"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type PagamentoResponse struct {
	Tipo     string          `json:"tipo"`
	Valor    decimal.Decimal `json:"valor"`
	Parcelas *int            `json:"parcelas,omitempty"`
	Troco    decimal.Decimal `json:"troco"`
}

type VendaResponse struct {
	ID             string              `json:"id"`
	CaixaID        string              `json:"caixa_id"`
	OperadorID     string              `json:"operador_id"`
	Operador       string              `json:"operador,omitempty"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	Desconto       decimal.Decimal     `json:"desconto"`
	Total          decimal.Decimal     `json:"total"`
	FormaPagamento string              `json:"forma_pagamento"`
	Cliente        *string             `json:"cliente,omitempty"`
	CPF            *string             `json:"cpf,omitempty"`
	Observacao     *string             `json:"observacao,omitempty"`
	Status         string              `json:"status"`
	Itens          []ItemVendaResponse `json:"itens"`
	Pagamentos     []PagamentoResponse `json:"pagamentos"`
	CreatedAt      string              `json:"created_at"`
}
