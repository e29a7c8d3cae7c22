package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles de acesso. O caller HTTP valida o role antes de chamar os services.
const (
	RoleAdmin    = "ADMIN"
	RoleOperador = "OPERADOR"
)

// Usuario armazena operadores e administradores do sistema.
type Usuario struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Nome      string    `gorm:"not null"`
	SenhaHash string    `gorm:"not null"`
	Role      string    `gorm:"type:varchar(20);not null;default:'OPERADOR'"`
	Ativo     bool      `gorm:"not null;default:true"`
	// Controle de bloqueio por tentativas consecutivas de login.
	TentativasLogin int `gorm:"not null;default:0"`
	BloqueadoAte    *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Usuario) TableName() string { return "usuarios" }
