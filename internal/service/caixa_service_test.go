package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/apperror"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/dto"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mustParse(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "esperava *apperror.AppError, veio %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func novoCaixaService(repo *stubCaixaRepo) (*caixaService, *stubAudit) {
	audit := &stubAudit{}
	svc := NewCaixaService(repo, audit).(*caixaService)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }
	return svc, audit
}

func TestAbrirCaixa(t *testing.T) {
	ctx := context.Background()
	repo := newStubCaixaRepo()
	svc, audit := novoCaixaService(repo)
	operador := uuid.New()

	resp, err := svc.Abrir(ctx, operador, dto.AbrirCaixaRequest{ValorInicial: dec("100.00")})
	require.NoError(t, err)
	assert.Equal(t, model.CaixaAberto, resp.Status)
	assert.True(t, dec("100.00").Equal(resp.ValorInicial))

	// Abertura registra um movimento ABERTURA em dinheiro.
	require.Len(t, repo.movimentos, 1)
	mov := repo.movimentos[0]
	assert.Equal(t, model.MovAbertura, mov.Tipo)
	require.NotNil(t, mov.FormaPagamento)
	assert.Equal(t, model.FormaDinheiro, *mov.FormaPagamento)
	assert.True(t, dec("100.00").Equal(mov.Valor))

	assert.True(t, audit.contem("CAIXA_ABERTO"))
}

func TestAbrirCaixaDuplicado(t *testing.T) {
	ctx := context.Background()
	repo := newStubCaixaRepo()
	svc, _ := novoCaixaService(repo)
	operador := uuid.New()

	_, err := svc.Abrir(ctx, operador, dto.AbrirCaixaRequest{ValorInicial: dec("50.00")})
	require.NoError(t, err)

	_, err = svc.Abrir(ctx, operador, dto.AbrirCaixaRequest{ValorInicial: dec("50.00")})
	assertAppError(t, err, apperror.CodeCaixaJaAberto)
}

// repoCorrida simula duas aberturas simultâneas: a pré-checagem não vê caixa
// aberto, mas o banco rejeita a segunda criação pelo índice único parcial.
type repoCorrida struct{ *stubCaixaRepo }

func (r *repoCorrida) FindAbertoPorOperador(_ context.Context, _ uuid.UUID) (*model.Caixa, error) {
	return nil, nil
}

func TestAbrirCaixaCorridaDeAbertura(t *testing.T) {
	ctx := context.Background()
	base := newStubCaixaRepo()
	svc := NewCaixaService(&repoCorrida{base}, nil).(*caixaService)
	operador := uuid.New()

	_, err := svc.Abrir(ctx, operador, dto.AbrirCaixaRequest{ValorInicial: dec("10.00")})
	require.NoError(t, err)

	_, err = svc.Abrir(ctx, operador, dto.AbrirCaixaRequest{ValorInicial: dec("10.00")})
	assertAppError(t, err, apperror.CodeCaixaJaAberto)
}

// repoMovimentoFalho faz a gravação do movimento ABERTURA falhar.
type repoMovimentoFalho struct {
	*stubCaixaRepo
	falha error
}

func (r *repoMovimentoFalho) CreateMovimentoTx(_ *gorm.DB, _ *model.CaixaMovimento) error {
	return r.falha
}

func TestAbrirCaixaFalhaNoMovimento(t *testing.T) {
	ctx := context.Background()
	falha := errors.New("insert rejeitado")
	repo := &repoMovimentoFalho{stubCaixaRepo: newStubCaixaRepo(), falha: falha}
	svc := NewCaixaService(repo, nil).(*caixaService)

	// Sessão e movimento ABERTURA são gravados na mesma transação: a falha
	// do movimento aborta a abertura inteira em vez de deixar um caixa
	// ABERTO sem lançamento inicial.
	_, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCaixaRequest{ValorInicial: dec("100.00")})
	require.ErrorIs(t, err, falha)
}

func TestSuprimentoESangria(t *testing.T) {
	ctx := context.Background()
	repo := newStubCaixaRepo()
	svc, audit := novoCaixaService(repo)
	operador := uuid.New()

	_, err := svc.Abrir(ctx, operador, dto.AbrirCaixaRequest{ValorInicial: dec("100.00")})
	require.NoError(t, err)

	_, err = svc.RegistrarSuprimento(ctx, operador, dto.MovimentoCaixaRequest{Valor: dec("50.00"), Motivo: "troco extra"})
	require.NoError(t, err)

	// Saldo em dinheiro: 100 + 50 = 150. Sangria de 150 passa exato.
	mov, err := svc.RegistrarSangria(ctx, operador, dto.MovimentoCaixaRequest{Valor: dec("150.00"), Motivo: "recolhimento"})
	require.NoError(t, err)
	assert.Equal(t, model.MovSangria, mov.Tipo)

	assert.True(t, audit.contem("SUPRIMENTO"))
	assert.True(t, audit.contem("SANGRIA"))
}

func TestSangriaAcimaDoSaldo(t *testing.T) {
	ctx := context.Background()
	repo := newStubCaixaRepo()
	svc, _ := novoCaixaService(repo)
	operador := uuid.New()

	_, err := svc.Abrir(ctx, operador, dto.AbrirCaixaRequest{ValorInicial: dec("100.00")})
	require.NoError(t, err)

	_, err = svc.RegistrarSangria(ctx, operador, dto.MovimentoCaixaRequest{Valor: dec("100.01"), Motivo: "recolhimento"})
	assertAppError(t, err, apperror.CodeSaldoInsuficiente)
}

func TestSangriaSemCaixaAberto(t *testing.T) {
	ctx := context.Background()
	repo := newStubCaixaRepo()
	svc, _ := novoCaixaService(repo)

	_, err := svc.RegistrarSangria(ctx, uuid.New(), dto.MovimentoCaixaRequest{Valor: dec("10.00"), Motivo: "recolhimento"})
	assertAppError(t, err, apperror.CodeCaixaFechado)
}

func TestFecharSemDivergencia(t *testing.T) {
	ctx := context.Background()
	repo := newStubCaixaRepo()
	svc, _ := novoCaixaService(repo)
	operador := uuid.New()

	aberto, err := svc.Abrir(ctx, operador, dto.AbrirCaixaRequest{ValorInicial: dec("100.00")})
	require.NoError(t, err)

	resp, err := svc.Fechar(ctx, operador, dto.FecharCaixaRequest{ValorContadoDinheiro: dec("100.00")})
	require.NoError(t, err)
	assert.True(t, resp.Diferenca.IsZero())
	assert.True(t, dec("100.00").Equal(resp.TotalEsperado))

	// Fechamento é terminal: o caixa some da visão de sessão ativa e uma
	// nova operação de caixa falha com CAIXA_FECHADO.
	caixaID, _ := uuid.Parse(aberto.ID)
	fechado, err := repo.FindByID(ctx, caixaID)
	require.NoError(t, err)
	assert.Equal(t, model.CaixaFechado, fechado.Status)
	require.NotNil(t, fechado.FechamentoEm)

	_, err = svc.Fechar(ctx, operador, dto.FecharCaixaRequest{ValorContadoDinheiro: dec("100.00")})
	assertAppError(t, err, apperror.CodeCaixaFechado)
}

func TestFecharDivergenciaExigeJustificativa(t *testing.T) {
	ctx := context.Background()
	repo := newStubCaixaRepo()
	svc, _ := novoCaixaService(repo)
	operador := uuid.New()

	_, err := svc.Abrir(ctx, operador, dto.AbrirCaixaRequest{ValorInicial: dec("100.00")})
	require.NoError(t, err)

	// Um centavo de divergência já exige justificativa.
	_, err = svc.Fechar(ctx, operador, dto.FecharCaixaRequest{ValorContadoDinheiro: dec("99.99")})
	assertAppError(t, err, apperror.CodeJustificativaObrigatoria)

	// Justificativa curta demais também não passa.
	curta := "erro"
	_, err = svc.Fechar(ctx, operador, dto.FecharCaixaRequest{ValorContadoDinheiro: dec("99.99"), Justificativa: &curta})
	assertAppError(t, err, apperror.CodeJustificativaObrigatoria)

	justificativa := "faltou um centavo na conferência"
	resp, err := svc.Fechar(ctx, operador, dto.FecharCaixaRequest{ValorContadoDinheiro: dec("99.99"), Justificativa: &justificativa})
	require.NoError(t, err)
	assert.True(t, dec("-0.01").Equal(resp.Diferenca))
	require.NotNil(t, resp.Justificativa)
	assert.Equal(t, justificativa, *resp.Justificativa)
}

func TestPreverFechamentoNaoFecha(t *testing.T) {
	ctx := context.Background()
	repo := newStubCaixaRepo()
	svc, _ := novoCaixaService(repo)
	operador := uuid.New()

	_, err := svc.Abrir(ctx, operador, dto.AbrirCaixaRequest{ValorInicial: dec("200.00")})
	require.NoError(t, err)
	_, err = svc.RegistrarSuprimento(ctx, operador, dto.MovimentoCaixaRequest{Valor: dec("30.00"), Motivo: "troco"})
	require.NoError(t, err)

	preview, err := svc.PreverFechamento(ctx, operador, dto.PreverFechamentoRequest{ValorContadoDinheiro: dec("225.00")})
	require.NoError(t, err)
	assert.True(t, dec("230.00").Equal(preview.TotalEsperado))
	assert.True(t, dec("-5.00").Equal(preview.Diferenca))

	// Preview é somente leitura: a sessão segue aberta e o fechamento real
	// chega ao mesmo resultado.
	ativo, err := svc.CaixaAtivo(ctx, operador)
	require.NoError(t, err)
	assert.True(t, ativo.CaixaAberto)

	justificativa := "diferença de cinco reais no contado"
	fechamento, err := svc.Fechar(ctx, operador, dto.FecharCaixaRequest{ValorContadoDinheiro: dec("225.00"), Justificativa: &justificativa})
	require.NoError(t, err)
	assert.True(t, preview.TotalEsperado.Equal(fechamento.TotalEsperado))
	assert.True(t, preview.Diferenca.Equal(fechamento.Diferenca))
}

func TestIndicadoresComVendas(t *testing.T) {
	ctx := context.Background()
	repo := newStubCaixaRepo()
	svc, _ := novoCaixaService(repo)
	operador := uuid.New()

	aberto, err := svc.Abrir(ctx, operador, dto.AbrirCaixaRequest{ValorInicial: dec("100.00")})
	require.NoError(t, err)
	caixaID, _ := uuid.Parse(aberto.ID)

	repo.registrarVenda(model.Venda{
		CaixaID: caixaID, Total: dec("30.00"), Status: model.VendaConcluida,
		Pagamentos: []model.VendaPagamento{{Tipo: model.PagamentoDinheiro, Valor: dec("30.00")}},
	})
	repo.registrarVenda(model.Venda{
		CaixaID: caixaID, Total: dec("50.00"), Status: model.VendaConcluida,
		Pagamentos: []model.VendaPagamento{
			{Tipo: model.PagamentoPix, Valor: dec("20.00")},
			{Tipo: model.PagamentoCartaoCredito, Valor: dec("30.00")},
		},
	})

	resp, err := svc.Indicadores(ctx, operador)
	require.NoError(t, err)
	require.True(t, resp.CaixaAberto)
	ind := resp.Indicadores
	assert.Equal(t, 2, ind.QuantidadeVendas)
	assert.True(t, dec("30.00").Equal(ind.TotalDinheiro))
	assert.True(t, dec("20.00").Equal(ind.TotalPix))
	assert.True(t, dec("30.00").Equal(ind.TotalCartao))
	assert.True(t, dec("40.00").Equal(ind.TicketMedio))
}

func TestLimparHistorico(t *testing.T) {
	ctx := context.Background()
	repo := newStubCaixaRepo()
	svc, audit := novoCaixaService(repo)
	operador := uuid.New()

	aberto, err := svc.Abrir(ctx, operador, dto.AbrirCaixaRequest{ValorInicial: dec("100.00")})
	require.NoError(t, err)
	caixaID, _ := uuid.Parse(aberto.ID)
	repo.registrarVenda(model.Venda{
		CaixaID: caixaID, Total: dec("10.00"), Status: model.VendaConcluida,
		Itens:      []model.VendaItem{{Quantidade: 1, PrecoUnit: dec("10.00"), Subtotal: dec("10.00")}},
		Pagamentos: []model.VendaPagamento{{Tipo: model.PagamentoPix, Valor: dec("10.00")}},
	})

	resp, err := svc.LimparHistorico(ctx, operador)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.CaixasRemovidos)
	assert.Equal(t, int64(1), resp.VendasRemovidas)
	assert.Equal(t, int64(1), resp.ItensRemovidos)
	assert.Equal(t, int64(1), resp.PagamentosRemovidos)
	assert.Equal(t, int64(1), resp.MovimentosRemovidos)
	assert.True(t, audit.contem("HISTORICO_LIMPO"))

	ativo, err := svc.CaixaAtivo(ctx, operador)
	require.NoError(t, err)
	assert.False(t, ativo.CaixaAberto)
}
