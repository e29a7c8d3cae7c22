package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de pagamento aceitos numa linha de pagamento de venda.
const (
	PagamentoDinheiro      = "DINHEIRO"
	PagamentoPix           = "PIX"
	PagamentoCartaoCredito = "CARTAO_CREDITO"
	PagamentoCartaoDebito  = "CARTAO_DEBITO"
)

// VendaConcluida é o único status de vendas novas; vendas são imutáveis
// depois de criadas, exceto pela limpeza completa de histórico.
const VendaConcluida = "CONCLUIDA"

// Venda é uma transação de venda pertencente a um caixa aberto.
// Itens e pagamentos são composição: removidos junto com a venda.
type Venda struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaixaID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	OperadorID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Desconto   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// FormaPagamento agregada: o tipo único, ou MISTO quando há mais de
	// uma linha de pagamento.
	FormaPagamento string  `gorm:"type:varchar(20);not null"`
	Cliente        *string
	CPF            *string `gorm:"type:varchar(14)"`
	Observacao     *string
	Status         string `gorm:"type:varchar(20);not null;default:'CONCLUIDA'"`
	CreatedAt      time.Time

	Operador   *Usuario         `gorm:"foreignKey:OperadorID"`
	Itens      []VendaItem      `gorm:"foreignKey:VendaID"`
	Pagamentos []VendaPagamento `gorm:"foreignKey:VendaID"`
}

func (Venda) TableName() string { return "vendas" }

// VendaItem congela preço unitário e subtotal no momento da venda.
type VendaItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProdutoID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantidade int             `gorm:"not null"`
	PrecoUnit  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

func (VendaItem) TableName() string { return "venda_itens" }

// VendaPagamento é uma linha do rateio de pagamento da venda.
type VendaPagamento struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo    string          `gorm:"type:varchar(20);not null"`
	Valor   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ValorRecebido só se aplica a DINHEIRO; Parcelas só a CARTAO_CREDITO.
	ValorRecebido *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Parcelas      *int
	Troco         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt     time.Time
}

func (VendaPagamento) TableName() string { return "venda_pagamentos" }
