package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/dto"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
)

// ContagemLimpeza reporta quantas linhas a limpeza de histórico removeu.
type ContagemLimpeza struct {
	Pagamentos int64
	Itens      int64
	Movimentos int64
	Vendas     int64
	Caixas     int64
}

type CaixaRepository interface {
	// CreateCaixaTx cria a sessão dentro da transação de abertura, junto
	// com o movimento ABERTURA.
	CreateCaixaTx(tx *gorm.DB, c *model.Caixa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error)
	// FindAbertoPorOperador retorna (nil, nil) quando o operador não tem
	// caixa aberto — ausência não é erro nesse fluxo.
	FindAbertoPorOperador(ctx context.Context, operadorID uuid.UUID) (*model.Caixa, error)
	FecharTx(tx *gorm.DB, c *model.Caixa) error
	CreateMovimento(ctx context.Context, m *model.CaixaMovimento) error
	CreateMovimentoTx(tx *gorm.DB, m *model.CaixaMovimento) error
	ListMovimentosPorCaixa(ctx context.Context, caixaID uuid.UUID) ([]model.CaixaMovimento, error)
	ListMovimentos(ctx context.Context, filter dto.HistoricoFilter) ([]model.CaixaMovimento, int64, error)
	VendasConcluidas(ctx context.Context, caixaID uuid.UUID) ([]model.Venda, error)
	// LimparHistorico apaga todo o histórico de liquidação em ordem de FK:
	// pagamentos → itens → movimentos → vendas → caixas. Irreversível.
	LimparHistorico(ctx context.Context) (*ContagemLimpeza, error)
	DB() *gorm.DB
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) DB() *gorm.DB { return r.db }

func (r *caixaRepo) CreateCaixaTx(tx *gorm.DB, c *model.Caixa) error {
	return tx.Create(c).Error
}

func (r *caixaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *caixaRepo) FindAbertoPorOperador(ctx context.Context, operadorID uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).
		Where("operador_id = ? AND status = ?", operadorID, model.CaixaAberto).
		Order("abertura_em DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caixaRepo) FecharTx(tx *gorm.DB, c *model.Caixa) error {
	return tx.Save(c).Error
}

func (r *caixaRepo) CreateMovimento(ctx context.Context, m *model.CaixaMovimento) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *caixaRepo) CreateMovimentoTx(tx *gorm.DB, m *model.CaixaMovimento) error {
	return tx.Create(m).Error
}

func (r *caixaRepo) ListMovimentosPorCaixa(ctx context.Context, caixaID uuid.UUID) ([]model.CaixaMovimento, error) {
	var movs []model.CaixaMovimento
	err := r.db.WithContext(ctx).
		Where("caixa_id = ?", caixaID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *caixaRepo) ListMovimentos(ctx context.Context, filter dto.HistoricoFilter) ([]model.CaixaMovimento, int64, error) {
	var movs []model.CaixaMovimento
	var total int64

	q := r.db.WithContext(ctx).Model(&model.CaixaMovimento{})
	if filter.OperadorID != "" {
		q = q.Where("operador_id = ?", filter.OperadorID)
	}
	if filter.DataInicio != "" {
		q = q.Where("created_at >= ?", filter.DataInicio)
	}
	if filter.DataFim != "" {
		q = q.Where("created_at < ?::date + interval '1 day'", filter.DataFim)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&movs).Error
	return movs, total, err
}

func (r *caixaRepo) VendasConcluidas(ctx context.Context, caixaID uuid.UUID) ([]model.Venda, error) {
	var vendas []model.Venda
	err := r.db.WithContext(ctx).
		Preload("Pagamentos").
		Where("caixa_id = ? AND status = ?", caixaID, model.VendaConcluida).
		Find(&vendas).Error
	return vendas, err
}

func (r *caixaRepo) LimparHistorico(ctx context.Context) (*ContagemLimpeza, error) {
	contagem := &ContagemLimpeza{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			count *int64
			del   func() *gorm.DB
		}{
			{&contagem.Pagamentos, func() *gorm.DB { return tx.Where("1 = 1").Delete(&model.VendaPagamento{}) }},
			{&contagem.Itens, func() *gorm.DB { return tx.Where("1 = 1").Delete(&model.VendaItem{}) }},
			{&contagem.Movimentos, func() *gorm.DB { return tx.Where("1 = 1").Delete(&model.CaixaMovimento{}) }},
			{&contagem.Vendas, func() *gorm.DB { return tx.Where("1 = 1").Delete(&model.Venda{}) }},
			{&contagem.Caixas, func() *gorm.DB { return tx.Where("1 = 1").Delete(&model.Caixa{}) }},
		}
		for _, s := range steps {
			res := s.del()
			if res.Error != nil {
				return res.Error
			}
			*s.count = res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contagem, nil
}
