package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
)

// NewDatabase abre a conexão GORM (pgx por baixo), roda o AutoMigrate de todos
// os modelos e aplica os patches de SQL que o GORM não expressa sozinho.
// TranslateError habilitado para que violações de unicidade cheguem aos
// services como gorm.ErrDuplicatedKey, independente do driver.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Categoria{},
		&model.Produto{},
		&model.Fornecedor{},
		&model.Caixa{},
		&model.CaixaMovimento{},
		&model.Venda{},
		&model.VendaItem{},
		&model.VendaPagamento{},
		&model.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches roda DDL idempotente que o AutoMigrate não cobre.
// Cada statement usa IF NOT EXISTS, então reexecutar num schema já
// atualizado é um no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// gen_random_uuid() exige o pgcrypto em versões antigas do Postgres.
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

		// Invariante de sessão única: no máximo um caixa ABERTO por operador.
		// Índice único parcial — duas aberturas simultâneas fazem a segunda
		// falhar com violação de unicidade, traduzida para ErrDuplicatedKey.
		`CREATE UNIQUE INDEX IF NOT EXISTS uni_caixas_operador_aberto
		   ON caixas (operador_id) WHERE status = 'ABERTO'`,

		// Consultas de histórico filtram por data com frequência.
		`CREATE INDEX IF NOT EXISTS idx_caixa_movimentos_created_at
		   ON caixa_movimentos (created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_vendas_created_at
		   ON vendas (created_at)`,
	}

	for _, p := range patches {
		if err := db.Exec(p).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p, err)
		}
	}
	return nil
}
