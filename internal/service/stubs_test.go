package service

// Stubs em memória dos repositórios, para testes de unidade dos services.
// Seguem a semântica essencial das implementações GORM: cópias defensivas,
// IDs atribuídos na criação e o decremento condicional de estoque.

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/dto"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/repository"
)

// ── audit ────────────────────────────────────────────────────────────────────

type stubAudit struct {
	mu    sync.Mutex
	acoes []string
}

func (a *stubAudit) Registrar(_ context.Context, _ uuid.UUID, acao string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acoes = append(a.acoes, acao)
}

func (a *stubAudit) contem(prefixo string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, acao := range a.acoes {
		if strings.HasPrefix(acao, prefixo) {
			return true
		}
	}
	return false
}

// ── caixa ────────────────────────────────────────────────────────────────────

type stubCaixaRepo struct {
	caixas     map[uuid.UUID]*model.Caixa
	movimentos []model.CaixaMovimento
	vendas     map[uuid.UUID][]model.Venda
}

func newStubCaixaRepo() *stubCaixaRepo {
	return &stubCaixaRepo{
		caixas: make(map[uuid.UUID]*model.Caixa),
		vendas: make(map[uuid.UUID][]model.Venda),
	}
}

func (r *stubCaixaRepo) DB() *gorm.DB { return nil }

func (r *stubCaixaRepo) CreateCaixaTx(_ *gorm.DB, c *model.Caixa) error {
	// Reproduz o índice único parcial: um ABERTO por operador.
	for _, existente := range r.caixas {
		if existente.OperadorID == c.OperadorID && existente.Status == model.CaixaAberto {
			return gorm.ErrDuplicatedKey
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cloned := *c
	r.caixas[c.ID] = &cloned
	return nil
}

func (r *stubCaixaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caixa, error) {
	c, ok := r.caixas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *c
	return &cloned, nil
}

func (r *stubCaixaRepo) FindAbertoPorOperador(_ context.Context, operadorID uuid.UUID) (*model.Caixa, error) {
	for _, c := range r.caixas {
		if c.OperadorID == operadorID && c.Status == model.CaixaAberto {
			cloned := *c
			return &cloned, nil
		}
	}
	return nil, nil
}

func (r *stubCaixaRepo) FecharTx(_ *gorm.DB, c *model.Caixa) error {
	cloned := *c
	r.caixas[c.ID] = &cloned
	return nil
}

func (r *stubCaixaRepo) CreateMovimento(_ context.Context, m *model.CaixaMovimento) error {
	return r.criarMovimento(m)
}

func (r *stubCaixaRepo) CreateMovimentoTx(_ *gorm.DB, m *model.CaixaMovimento) error {
	return r.criarMovimento(m)
}

func (r *stubCaixaRepo) criarMovimento(m *model.CaixaMovimento) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.movimentos = append(r.movimentos, *m)
	return nil
}

func (r *stubCaixaRepo) ListMovimentosPorCaixa(_ context.Context, caixaID uuid.UUID) ([]model.CaixaMovimento, error) {
	var out []model.CaixaMovimento
	for _, m := range r.movimentos {
		if m.CaixaID == caixaID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubCaixaRepo) ListMovimentos(_ context.Context, filter dto.HistoricoFilter) ([]model.CaixaMovimento, int64, error) {
	var out []model.CaixaMovimento
	for _, m := range r.movimentos {
		if filter.OperadorID != "" && m.OperadorID.String() != filter.OperadorID {
			continue
		}
		out = append(out, m)
	}
	total := int64(len(out))
	inicio := (filter.Page - 1) * filter.Limit
	if inicio > len(out) {
		inicio = len(out)
	}
	fim := inicio + filter.Limit
	if fim > len(out) {
		fim = len(out)
	}
	return out[inicio:fim], total, nil
}

func (r *stubCaixaRepo) VendasConcluidas(_ context.Context, caixaID uuid.UUID) ([]model.Venda, error) {
	return r.vendas[caixaID], nil
}

func (r *stubCaixaRepo) LimparHistorico(_ context.Context) (*repository.ContagemLimpeza, error) {
	contagem := &repository.ContagemLimpeza{
		Movimentos: int64(len(r.movimentos)),
		Caixas:     int64(len(r.caixas)),
	}
	for _, vs := range r.vendas {
		contagem.Vendas += int64(len(vs))
		for _, v := range vs {
			contagem.Itens += int64(len(v.Itens))
			contagem.Pagamentos += int64(len(v.Pagamentos))
		}
	}
	r.movimentos = nil
	r.caixas = make(map[uuid.UUID]*model.Caixa)
	r.vendas = make(map[uuid.UUID][]model.Venda)
	return contagem, nil
}

// registrarVenda injeta uma venda concluída no caixa, para os indicadores.
func (r *stubCaixaRepo) registrarVenda(v model.Venda) {
	r.vendas[v.CaixaID] = append(r.vendas[v.CaixaID], v)
}

// ── produto ──────────────────────────────────────────────────────────────────

type stubProdutoRepo struct {
	produtos   map[uuid.UUID]*model.Produto
	vendidos   map[uuid.UUID]int64
	// forcarFalhaEstoque simula a corrida: o decremento condicional não casa
	// nenhuma linha mesmo com a pré-checagem tendo passado.
	forcarFalhaEstoque map[uuid.UUID]bool
}

func newStubProdutoRepo() *stubProdutoRepo {
	return &stubProdutoRepo{
		produtos:           make(map[uuid.UUID]*model.Produto),
		vendidos:           make(map[uuid.UUID]int64),
		forcarFalhaEstoque: make(map[uuid.UUID]bool),
	}
}

func (r *stubProdutoRepo) Create(_ context.Context, p *model.Produto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	cloned := *p
	r.produtos[p.ID] = &cloned
	return nil
}

func (r *stubProdutoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Produto, error) {
	p, ok := r.produtos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *p
	return &cloned, nil
}

func (r *stubProdutoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Produto, error) {
	for _, p := range r.produtos {
		if p.Codigo != nil && *p.Codigo == codigo {
			cloned := *p
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProdutoRepo) List(_ context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var out []model.Produto
	for _, p := range r.produtos {
		if filter.Busca != "" && !strings.Contains(strings.ToLower(p.Nome), strings.ToLower(filter.Busca)) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProdutoRepo) Update(_ context.Context, p *model.Produto) error {
	cloned := *p
	r.produtos[p.ID] = &cloned
	return nil
}

func (r *stubProdutoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.produtos, id)
	return nil
}

func (r *stubProdutoRepo) CountVendaItens(_ context.Context, id uuid.UUID) (int64, error) {
	return r.vendidos[id], nil
}

func (r *stubProdutoRepo) DescontarEstoqueTx(_ *gorm.DB, id uuid.UUID, quantidade int) (bool, error) {
	if r.forcarFalhaEstoque[id] {
		return false, nil
	}
	p, ok := r.produtos[id]
	if !ok || p.Estoque < quantidade {
		return false, nil
	}
	p.Estoque -= quantidade
	return true, nil
}

// ── venda ────────────────────────────────────────────────────────────────────

type stubVendaRepo struct {
	vendas map[uuid.UUID]*model.Venda
}

func newStubVendaRepo() *stubVendaRepo {
	return &stubVendaRepo{vendas: make(map[uuid.UUID]*model.Venda)}
}

func (r *stubVendaRepo) DB() *gorm.DB { return nil }

func (r *stubVendaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venda) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	for i := range v.Itens {
		if v.Itens[i].ID == uuid.Nil {
			v.Itens[i].ID = uuid.New()
		}
		v.Itens[i].VendaID = v.ID
	}
	for i := range v.Pagamentos {
		if v.Pagamentos[i].ID == uuid.Nil {
			v.Pagamentos[i].ID = uuid.New()
		}
		v.Pagamentos[i].VendaID = v.ID
	}
	cloned := *v
	r.vendas[v.ID] = &cloned
	return nil
}

func (r *stubVendaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venda, error) {
	v, ok := r.vendas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *v
	return &cloned, nil
}

func (r *stubVendaRepo) List(_ context.Context, _ dto.VendaFilter) ([]model.Venda, int64, error) {
	var out []model.Venda
	for _, v := range r.vendas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

// ── usuário ──────────────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cloned := *u
	r.usuarios[u.ID] = &cloned
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *u
	return &cloned, nil
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Email == email {
			cloned := *u
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) List(_ context.Context, incluirInativos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if !incluirInativos && !u.Ativo {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	cloned := *u
	r.usuarios[u.ID] = &cloned
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Ativo = false
	}
	return nil
}

func (r *stubUsuarioRepo) Reativar(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Ativo = true
	}
	return nil
}
