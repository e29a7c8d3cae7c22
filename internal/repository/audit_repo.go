package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
)

type AuditRepository interface {
	Create(ctx context.Context, a *model.AuditLog) error
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) Create(ctx context.Context, a *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(a).Error
}
