package model

import (
	"time"

	"github.com/google/uuid"
)

// Fornecedor de mercadorias da loja.
type Fornecedor struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome     string    `gorm:"not null"`
	CNPJ     *string   `gorm:"uniqueIndex"`
	Telefone *string
	Email    *string
	Endereco *string
	Ativo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Fornecedor) TableName() string { return "fornecedores" }
