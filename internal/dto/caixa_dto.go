package dto

import (
	"github.com/shopspring/decimal"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/ledger"
)

// ─── Requests ────────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	ValorInicial decimal.Decimal `json:"valor_inicial" validate:"min=0"`
	Descricao    *string         `json:"descricao"     validate:"omitempty,max=300"`
}

// MovimentoCaixaRequest cobre sangria e suprimento.
type MovimentoCaixaRequest struct {
	Valor  decimal.Decimal `json:"valor"  validate:"required,gt=0"`
	Motivo string          `json:"motivo" validate:"required,min=3,max=300"`
}

type FecharCaixaRequest struct {
	ValorContadoDinheiro decimal.Decimal `json:"valor_contado_dinheiro" validate:"min=0"`
	Justificativa        *string         `json:"justificativa"          validate:"omitempty,max=500"`
}

type PreverFechamentoRequest struct {
	ValorContadoDinheiro decimal.Decimal `json:"valor_contado_dinheiro" validate:"min=0"`
}

// HistoricoFilter é vinculado da query string de GET /v1/caixa/historico.
// OperadorID e intervalo de datas só são aplicados para ADMIN.
type HistoricoFilter struct {
	OperadorID string `form:"operador_id" validate:"omitempty,uuid"`
	DataInicio string `form:"data_inicio" validate:"omitempty,datetime=2006-01-02"`
	DataFim    string `form:"data_fim"    validate:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type CaixaResponse struct {
	ID           string          `json:"id"`
	OperadorID   string          `json:"operador_id"`
	Status       string          `json:"status"`
	ValorInicial decimal.Decimal `json:"valor_inicial"`
	AberturaEm   string          `json:"abertura_em"`
	FechamentoEm *string         `json:"fechamento_em,omitempty"`
}

type CaixaAtivoResponse struct {
	CaixaAberto bool               `json:"caixa_aberto"`
	Caixa       *CaixaResponse     `json:"caixa,omitempty"`
	Indicadores ledger.Indicadores `json:"indicadores"`
}

type MovimentoResponse struct {
	ID             string          `json:"id"`
	CaixaID        string          `json:"caixa_id"`
	Tipo           string          `json:"tipo"`
	FormaPagamento *string         `json:"forma_pagamento"`
	Valor          decimal.Decimal `json:"valor"`
	Descricao      string          `json:"descricao"`
	CriadoEm       string          `json:"criado_em"`
}

type FechamentoResponse struct {
	CaixaID       string             `json:"caixa_id"`
	FechamentoEm  string             `json:"fechamento_em"`
	TotalEsperado decimal.Decimal    `json:"total_esperado"`
	TotalContado  decimal.Decimal    `json:"total_contado"`
	Diferenca     decimal.Decimal    `json:"diferenca"`
	Justificativa *string            `json:"justificativa"`
	Indicadores   ledger.Indicadores `json:"indicadores"`
}

// FechamentoPreviewResponse é o fechamento calculado sem efeitos colaterais.
type FechamentoPreviewResponse struct {
	CaixaID       string             `json:"caixa_id"`
	TotalEsperado decimal.Decimal    `json:"total_esperado"`
	TotalContado  decimal.Decimal    `json:"total_contado"`
	Diferenca     decimal.Decimal    `json:"diferenca"`
	Indicadores   ledger.Indicadores `json:"indicadores"`
}

type IndicadoresResponse struct {
	CaixaAberto bool               `json:"caixa_aberto"`
	Indicadores ledger.Indicadores `json:"indicadores"`
}

type LimpezaResponse struct {
	PagamentosRemovidos int64 `json:"pagamentos_removidos"`
	ItensRemovidos      int64 `json:"itens_removidos"`
	MovimentosRemovidos int64 `json:"movimentos_removidos"`
	VendasRemovidas     int64 `json:"vendas_removidas"`
	CaixasRemovidos     int64 `json:"caixas_removidos"`
}
