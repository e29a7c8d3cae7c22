package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog registra quem fez o quê. Escrita é best-effort via fila:
// falha de auditoria nunca derruba a operação principal.
type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID uuid.UUID `gorm:"type:uuid;not null;index"`
	Acao      string    `gorm:"not null"`
	IP        *string
	UserAgent *string
	CreatedAt time.Time
}

func (AuditLog) TableName() string { return "audit_logs" }
