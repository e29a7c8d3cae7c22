package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/dto"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
)

// ProdutoRepository é o contrato de acesso a dados de produtos.
// Services dependem da interface, não da implementação GORM, o que permite
// testes de unidade com fakes em memória.
type ProdutoRepository interface {
	Create(ctx context.Context, p *model.Produto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Produto, error)
	List(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error)
	Update(ctx context.Context, p *model.Produto) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountVendaItens(ctx context.Context, id uuid.UUID) (int64, error)

	// DescontarEstoqueTx é a guarda de estoque: decremento condicional
	// "estoque = estoque - qtd WHERE estoque >= qtd" avaliado pelo banco em
	// um único statement. Retorna false quando nenhuma linha casou — outro
	// caixa consumiu o estoque entre a pré-checagem e o commit — e nesse
	// caso a transação inteira da venda deve ser abortada.
	DescontarEstoqueTx(tx *gorm.DB, id uuid.UUID, quantidade int) (bool, error)
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) Create(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *produtoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).Preload("Categoria").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *produtoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&p).Error
	return &p, err
}

func (r *produtoRepo) List(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var produtos []model.Produto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Produto{})

	if filter.Busca != "" {
		busca := "%" + filter.Busca + "%"
		q = q.Where("nome ILIKE ? OR codigo ILIKE ?", busca, busca)
	}
	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Categoria").Order("nome ASC").
		Limit(filter.Limit).Offset(offset).Find(&produtos).Error
	return produtos, total, err
}

func (r *produtoRepo) Update(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *produtoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Produto{}, "id = ?", id).Error
}

func (r *produtoRepo) CountVendaItens(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.VendaItem{}).Where("produto_id = ?", id).Count(&n).Error
	return n, err
}

func (r *produtoRepo) DescontarEstoqueTx(tx *gorm.DB, id uuid.UUID, quantidade int) (bool, error) {
	res := tx.Model(&model.Produto{}).
		Where("id = ? AND estoque >= ?", id, quantidade).
		UpdateColumn("estoque", gorm.Expr("estoque - ?", quantidade))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
