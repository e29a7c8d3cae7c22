package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status do caixa. O fechamento é terminal: um caixa FECHADO nunca reabre.
const (
	CaixaAberto  = "ABERTO"
	CaixaFechado = "FECHADO"
)

// Tipos de movimento do livro-caixa.
const (
	MovAbertura   = "ABERTURA"
	MovVenda      = "VENDA"
	MovSuprimento = "SUPRIMENTO"
	MovSangria    = "SANGRIA"
	MovFechamento = "FECHAMENTO"
)

// Formas de pagamento simplificadas registradas nos movimentos.
const (
	FormaDinheiro = "DINHEIRO"
	FormaPix      = "PIX"
	FormaCartao   = "CARTAO"
	FormaMisto    = "MISTO"
)

// Caixa é a sessão de caixa de um operador, delimitada por abertura e
// fechamento. No máximo um caixa ABERTO por operador — invariante garantida
// por índice único parcial em (operador_id) WHERE status = 'ABERTO'.
// O saldo corrente é sempre derivado dos movimentos, nunca armazenado.
type Caixa struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OperadorID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status       string          `gorm:"type:varchar(10);not null;default:'ABERTO'"`
	ValorInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AberturaEm   time.Time       `gorm:"not null"`
	// Preenchidos apenas no fechamento.
	FechamentoEm             *time.Time
	ValorEsperadoFechamento  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ValorContadoFechamento   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiferencaFechamento      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	JustificativaDivergencia *string

	Operador   *Usuario         `gorm:"foreignKey:OperadorID"`
	Movimentos []CaixaMovimento `gorm:"foreignKey:CaixaID"`
}

func (Caixa) TableName() string { return "caixas" }

// CaixaMovimento é um lançamento imutável no livro do caixa.
// Movimentos nunca são editados ou removidos, exceto pela limpeza
// administrativa de histórico.
type CaixaMovimento struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaixaID    uuid.UUID `gorm:"type:uuid;not null;index"`
	OperadorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo       string    `gorm:"type:varchar(20);not null"`
	// FormaPagamento só é significativa para VENDA e ABERTURA.
	FormaPagamento *string         `gorm:"type:varchar(20)"`
	Valor          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descricao      string          `gorm:"not null"`
	// ReferenciaVenda aponta para a venda que originou um movimento VENDA.
	ReferenciaVenda *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time
}

func (CaixaMovimento) TableName() string { return "caixa_movimentos" }
