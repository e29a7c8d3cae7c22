package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto do catálogo. O estoque só é decrementado pela liquidação de venda —
// nunca editado diretamente por esse fluxo (reposição fica fora do núcleo).
type Produto struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Codigo é o código de barras/SKU; opcional porém único quando presente.
	Codigo      *string         `gorm:"uniqueIndex"`
	Nome        string          `gorm:"index;not null"`
	Preco       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estoque     int             `gorm:"not null;default:0"`
	CategoriaID *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

func (Produto) TableName() string { return "produtos" }
