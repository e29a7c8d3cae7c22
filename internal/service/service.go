// Package service concentra as regras de negócio do PDV. Services recebem
// DTOs validados, aplicam as invariantes de domínio e orquestram repositórios
// dentro de transações. Erros de regra saem como *apperror.AppError.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditSink registra ações auditáveis em best-effort. O worker.Dispatcher é a
// implementação de produção; nos testes fica nil ou um fake.
type AuditSink interface {
	Registrar(ctx context.Context, usuarioID uuid.UUID, acao string)
}

// runTx executa fn dentro de uma transação GORM quando há banco disponível,
// ou chama fn(nil) diretamente quando db é nil (modo de teste unitário).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func fmtTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func fmtTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := fmtTime(*t)
	return &s
}
