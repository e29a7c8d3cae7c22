package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/apperror"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/dto"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
)

type vendaFixture struct {
	svc         VendaService
	caixaRepo   *stubCaixaRepo
	produtoRepo *stubProdutoRepo
	vendaRepo   *stubVendaRepo
	audit       *stubAudit
	operador    uuid.UUID
	produto     *model.Produto
}

// novaVendaFixture monta o cenário padrão: caixa aberto com 100 de troco e um
// produto com 10 unidades a 5.50.
func novaVendaFixture(t *testing.T) *vendaFixture {
	t.Helper()
	ctx := context.Background()

	caixaRepo := newStubCaixaRepo()
	produtoRepo := newStubProdutoRepo()
	vendaRepo := newStubVendaRepo()
	audit := &stubAudit{}

	caixaSvc, _ := novoCaixaService(caixaRepo)
	svc := NewVendaService(vendaRepo, produtoRepo, caixaRepo, caixaSvc, audit)

	operador := uuid.New()
	_, err := caixaSvc.Abrir(ctx, operador, dto.AbrirCaixaRequest{ValorInicial: dec("100.00")})
	require.NoError(t, err)

	produto := &model.Produto{Nome: "Refrigerante Lata", Preco: dec("5.50"), Estoque: 10}
	require.NoError(t, produtoRepo.Create(ctx, produto))

	return &vendaFixture{
		svc:         svc,
		caixaRepo:   caixaRepo,
		produtoRepo: produtoRepo,
		vendaRepo:   vendaRepo,
		audit:       audit,
		operador:    operador,
		produto:     produto,
	}
}

func (f *vendaFixture) movimentosVenda() []model.CaixaMovimento {
	var out []model.CaixaMovimento
	for _, m := range f.caixaRepo.movimentos {
		if m.Tipo == model.MovVenda {
			out = append(out, m)
		}
	}
	return out
}

func TestRegistrarVendaDinheiroComTroco(t *testing.T) {
	ctx := context.Background()
	f := novaVendaFixture(t)

	recebido := dec("20.00")
	resp, err := f.svc.RegistrarVenda(ctx, f.operador, dto.CriarVendaRequest{
		Itens: []dto.ItemVendaRequest{
			{ProdutoID: f.produto.ID.String(), Quantidade: 2, PrecoUnit: dec("5.50")},
		},
		Desconto: dec("1.00"),
		Pagamentos: []dto.PagamentoRequest{
			{Tipo: model.PagamentoDinheiro, Valor: dec("10.00"), ValorRecebido: &recebido},
		},
	})
	require.NoError(t, err)

	assert.True(t, dec("11.00").Equal(resp.Subtotal))
	assert.True(t, dec("10.00").Equal(resp.Total))
	assert.Equal(t, model.PagamentoDinheiro, resp.FormaPagamento)
	require.Len(t, resp.Pagamentos, 1)
	assert.True(t, dec("10.00").Equal(resp.Pagamentos[0].Troco))
	assert.Equal(t, "Refrigerante Lata", resp.Itens[0].Produto)

	// Estoque decrementado dentro da liquidação.
	p, err := f.produtoRepo.FindByID(ctx, f.produto.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, p.Estoque)

	// Um movimento VENDA por linha de pagamento, referenciando a venda.
	movs := f.movimentosVenda()
	require.Len(t, movs, 1)
	require.NotNil(t, movs[0].FormaPagamento)
	assert.Equal(t, model.FormaDinheiro, *movs[0].FormaPagamento)
	require.NotNil(t, movs[0].ReferenciaVenda)
	assert.Equal(t, resp.ID, movs[0].ReferenciaVenda.String())
	assert.True(t, dec("10.00").Equal(movs[0].Valor))

	assert.True(t, f.audit.contem("VENDA_REGISTRADA"))
}

func TestRegistrarVendaSemCaixaAberto(t *testing.T) {
	ctx := context.Background()
	f := novaVendaFixture(t)

	_, err := f.svc.RegistrarVenda(ctx, uuid.New(), dto.CriarVendaRequest{
		Itens:      []dto.ItemVendaRequest{{ProdutoID: f.produto.ID.String(), Quantidade: 1, PrecoUnit: dec("5.50")}},
		Pagamentos: []dto.PagamentoRequest{{Tipo: model.PagamentoPix, Valor: dec("5.50"), Confirmado: boolPtr(true)}},
	})
	assertAppError(t, err, apperror.CodeCaixaFechado)
}

func TestRegistrarVendaEstoqueInsuficiente(t *testing.T) {
	ctx := context.Background()
	f := novaVendaFixture(t)

	_, err := f.svc.RegistrarVenda(ctx, f.operador, dto.CriarVendaRequest{
		Itens:      []dto.ItemVendaRequest{{ProdutoID: f.produto.ID.String(), Quantidade: 11, PrecoUnit: dec("5.50")}},
		Pagamentos: []dto.PagamentoRequest{{Tipo: model.PagamentoPix, Valor: dec("60.50"), Confirmado: boolPtr(true)}},
	})
	assertAppError(t, err, apperror.CodeEstoqueInsuficiente)

	// Nada foi liquidado.
	assert.Empty(t, f.movimentosVenda())
	p, _ := f.produtoRepo.FindByID(ctx, f.produto.ID)
	assert.Equal(t, 10, p.Estoque)
}

func TestRegistrarVendaCorridaDeEstoque(t *testing.T) {
	ctx := context.Background()
	f := novaVendaFixture(t)

	// A pré-checagem vê estoque suficiente, mas o decremento condicional não
	// casa nenhuma linha — outro caixa consumiu o estoque no meio do caminho.
	f.produtoRepo.forcarFalhaEstoque[f.produto.ID] = true

	_, err := f.svc.RegistrarVenda(ctx, f.operador, dto.CriarVendaRequest{
		Itens:      []dto.ItemVendaRequest{{ProdutoID: f.produto.ID.String(), Quantidade: 1, PrecoUnit: dec("5.50")}},
		Pagamentos: []dto.PagamentoRequest{{Tipo: model.PagamentoPix, Valor: dec("5.50"), Confirmado: boolPtr(true)}},
	})
	assertAppError(t, err, apperror.CodeEstoqueInsuficiente)
	assert.Empty(t, f.movimentosVenda())
}

func TestRegistrarVendaPixNaoConfirmado(t *testing.T) {
	ctx := context.Background()
	f := novaVendaFixture(t)

	_, err := f.svc.RegistrarVenda(ctx, f.operador, dto.CriarVendaRequest{
		Itens:      []dto.ItemVendaRequest{{ProdutoID: f.produto.ID.String(), Quantidade: 1, PrecoUnit: dec("5.50")}},
		Pagamentos: []dto.PagamentoRequest{{Tipo: model.PagamentoPix, Valor: dec("5.50")}},
	})
	assertAppError(t, err, apperror.CodePixNaoConfirmado)

	naoConfirmado := false
	_, err = f.svc.RegistrarVenda(ctx, f.operador, dto.CriarVendaRequest{
		Itens:      []dto.ItemVendaRequest{{ProdutoID: f.produto.ID.String(), Quantidade: 1, PrecoUnit: dec("5.50")}},
		Pagamentos: []dto.PagamentoRequest{{Tipo: model.PagamentoPix, Valor: dec("5.50"), Confirmado: &naoConfirmado}},
	})
	assertAppError(t, err, apperror.CodePixNaoConfirmado)
}

func TestRegistrarVendaPagamentoDivergente(t *testing.T) {
	ctx := context.Background()
	f := novaVendaFixture(t)

	// Total 5.50, pagamentos somam 5.00 — fora da tolerância de um centavo.
	_, err := f.svc.RegistrarVenda(ctx, f.operador, dto.CriarVendaRequest{
		Itens:      []dto.ItemVendaRequest{{ProdutoID: f.produto.ID.String(), Quantidade: 1, PrecoUnit: dec("5.50")}},
		Pagamentos: []dto.PagamentoRequest{{Tipo: model.PagamentoPix, Valor: dec("5.00"), Confirmado: boolPtr(true)}},
	})
	assertAppError(t, err, apperror.CodePagamentoDivergente)
}

func TestRegistrarVendaDescontoInvalido(t *testing.T) {
	ctx := context.Background()
	f := novaVendaFixture(t)

	_, err := f.svc.RegistrarVenda(ctx, f.operador, dto.CriarVendaRequest{
		Itens:      []dto.ItemVendaRequest{{ProdutoID: f.produto.ID.String(), Quantidade: 1, PrecoUnit: dec("5.50")}},
		Desconto:   dec("5.51"),
		Pagamentos: []dto.PagamentoRequest{{Tipo: model.PagamentoPix, Valor: dec("0.01"), Confirmado: boolPtr(true)}},
	})
	assertAppError(t, err, apperror.CodeDescontoInvalido)
}

func TestRegistrarVendaParcelasInvalidas(t *testing.T) {
	ctx := context.Background()
	f := novaVendaFixture(t)

	parcelas := 13
	_, err := f.svc.RegistrarVenda(ctx, f.operador, dto.CriarVendaRequest{
		Itens:      []dto.ItemVendaRequest{{ProdutoID: f.produto.ID.String(), Quantidade: 1, PrecoUnit: dec("5.50")}},
		Pagamentos: []dto.PagamentoRequest{{Tipo: model.PagamentoCartaoCredito, Valor: dec("5.50"), Parcelas: &parcelas}},
	})
	assertAppError(t, err, apperror.CodeParcelasInvalidas)
}

func TestRegistrarVendaCartaoCreditoSemParcelas(t *testing.T) {
	ctx := context.Background()
	f := novaVendaFixture(t)

	// Crédito sem parcelas não tem default: a linha é rejeitada.
	_, err := f.svc.RegistrarVenda(ctx, f.operador, dto.CriarVendaRequest{
		Itens:      []dto.ItemVendaRequest{{ProdutoID: f.produto.ID.String(), Quantidade: 1, PrecoUnit: dec("5.50")}},
		Pagamentos: []dto.PagamentoRequest{{Tipo: model.PagamentoCartaoCredito, Valor: dec("5.50")}},
	})
	assertAppError(t, err, apperror.CodeParcelasInvalidas)
}

func TestRegistrarVendaDinheiroRecebidoMenor(t *testing.T) {
	ctx := context.Background()
	f := novaVendaFixture(t)

	recebido := dec("5.00")
	_, err := f.svc.RegistrarVenda(ctx, f.operador, dto.CriarVendaRequest{
		Itens:      []dto.ItemVendaRequest{{ProdutoID: f.produto.ID.String(), Quantidade: 1, PrecoUnit: dec("5.50")}},
		Pagamentos: []dto.PagamentoRequest{{Tipo: model.PagamentoDinheiro, Valor: dec("5.50"), ValorRecebido: &recebido}},
	})
	assertAppError(t, err, apperror.CodeValorDinheiroInvalido)
}

func TestRegistrarVendaDinheiroSemValorRecebido(t *testing.T) {
	ctx := context.Background()
	f := novaVendaFixture(t)

	// Valor recebido ausente é pagamento exato: aceito, troco zero.
	resp, err := f.svc.RegistrarVenda(ctx, f.operador, dto.CriarVendaRequest{
		Itens:      []dto.ItemVendaRequest{{ProdutoID: f.produto.ID.String(), Quantidade: 1, PrecoUnit: dec("5.50")}},
		Pagamentos: []dto.PagamentoRequest{{Tipo: model.PagamentoDinheiro, Valor: dec("5.50")}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Pagamentos, 1)
	assert.True(t, resp.Pagamentos[0].Troco.IsZero())
}

func TestRegistrarVendaDivergenciaDeUmCentavo(t *testing.T) {
	ctx := context.Background()
	f := novaVendaFixture(t)

	// Total 11.00, pagamento 11.01: um centavo de diferença já não fecha.
	_, err := f.svc.RegistrarVenda(ctx, f.operador, dto.CriarVendaRequest{
		Itens:      []dto.ItemVendaRequest{{ProdutoID: f.produto.ID.String(), Quantidade: 2, PrecoUnit: dec("5.50")}},
		Pagamentos: []dto.PagamentoRequest{{Tipo: model.PagamentoPix, Valor: dec("11.01"), Confirmado: boolPtr(true)}},
	})
	assertAppError(t, err, apperror.CodePagamentoDivergente)
	assert.Empty(t, f.movimentosVenda())
}

func TestRegistrarVendaMista(t *testing.T) {
	ctx := context.Background()
	f := novaVendaFixture(t)

	recebido := dec("6.00")
	resp, err := f.svc.RegistrarVenda(ctx, f.operador, dto.CriarVendaRequest{
		Itens: []dto.ItemVendaRequest{
			{ProdutoID: f.produto.ID.String(), Quantidade: 2, PrecoUnit: dec("5.50")},
		},
		Pagamentos: []dto.PagamentoRequest{
			{Tipo: model.PagamentoDinheiro, Valor: dec("6.00"), ValorRecebido: &recebido},
			{Tipo: model.PagamentoCartaoDebito, Valor: dec("5.00")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.FormaMisto, resp.FormaPagamento)

	movs := f.movimentosVenda()
	require.Len(t, movs, 2)
	formas := []string{*movs[0].FormaPagamento, *movs[1].FormaPagamento}
	assert.Contains(t, formas, model.FormaDinheiro)
	assert.Contains(t, formas, model.FormaCartao)
}

// repoProdutoIndisponivel simula falha de infraestrutura na busca do produto.
type repoProdutoIndisponivel struct {
	*stubProdutoRepo
	falha error
}

func (r *repoProdutoIndisponivel) FindByID(_ context.Context, _ uuid.UUID) (*model.Produto, error) {
	return nil, r.falha
}

func TestRegistrarVendaFalhaDeRepositorioNaoVira404(t *testing.T) {
	ctx := context.Background()
	f := novaVendaFixture(t)

	falha := errors.New("conexão recusada")
	caixaSvc, _ := novoCaixaService(f.caixaRepo)
	svc := NewVendaService(f.vendaRepo, &repoProdutoIndisponivel{f.produtoRepo, falha}, f.caixaRepo, caixaSvc, nil)

	// Só ErrRecordNotFound vira NOT_FOUND; erro de infraestrutura propaga
	// intacto e o handler responde 500.
	_, err := svc.RegistrarVenda(ctx, f.operador, dto.CriarVendaRequest{
		Itens:      []dto.ItemVendaRequest{{ProdutoID: f.produto.ID.String(), Quantidade: 1, PrecoUnit: dec("5.50")}},
		Pagamentos: []dto.PagamentoRequest{{Tipo: model.PagamentoPix, Valor: dec("5.50"), Confirmado: boolPtr(true)}},
	})
	require.ErrorIs(t, err, falha)
	var appErr *apperror.AppError
	assert.False(t, errors.As(err, &appErr))
}

func TestObterVendaNaoEncontrada(t *testing.T) {
	ctx := context.Background()
	f := novaVendaFixture(t)

	_, err := f.svc.ObterPorID(ctx, uuid.New())
	assertAppError(t, err, apperror.CodeNaoEncontrado)
}

func boolPtr(b bool) *bool { return &b }
