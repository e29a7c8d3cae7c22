package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRound2(t *testing.T) {
	assert.Equal(t, "10.57", Round2(dec("10.565")).String())
	assert.Equal(t, "10.56", Round2(dec("10.564")).String())
	assert.Equal(t, "51", Round2(dec("25.5").Mul(dec("2"))).String())
	assert.Equal(t, "0", Round2(decimal.Zero).String())
}

func TestSumPorTipo(t *testing.T) {
	movs := []model.CaixaMovimento{
		{Tipo: model.MovSuprimento, Valor: dec("50")},
		{Tipo: model.MovSangria, Valor: dec("20")},
		{Tipo: model.MovSuprimento, Valor: dec("30.50")},
		{Tipo: model.MovVenda, Valor: dec("99")},
	}
	assert.Equal(t, "80.5", SumPorTipo(movs, model.MovSuprimento).String())
	assert.Equal(t, "20", SumPorTipo(movs, model.MovSangria).String())
	assert.Equal(t, "0", SumPorTipo(movs, model.MovFechamento).String())
}

func TestCalcularIndicadores(t *testing.T) {
	vendas := []model.Venda{
		{
			Total: dec("100"),
			Pagamentos: []model.VendaPagamento{
				{Tipo: model.PagamentoDinheiro, Valor: dec("40")},
				{Tipo: model.PagamentoPix, Valor: dec("60")},
			},
		},
		{
			Total: dec("80"),
			Pagamentos: []model.VendaPagamento{
				{Tipo: model.PagamentoCartaoCredito, Valor: dec("50")},
				{Tipo: model.PagamentoCartaoDebito, Valor: dec("30")},
			},
		},
	}
	movs := []model.CaixaMovimento{
		{Tipo: model.MovSuprimento, Valor: dec("25")},
		{Tipo: model.MovSangria, Valor: dec("10")},
	}

	ind := CalcularIndicadores(vendas, movs)
	assert.Equal(t, "40", ind.TotalDinheiro.String())
	assert.Equal(t, "60", ind.TotalPix.String())
	assert.Equal(t, "80", ind.TotalCartao.String())
	assert.Equal(t, "25", ind.TotalSuprimento.String())
	assert.Equal(t, "10", ind.TotalSangria.String())
	assert.Equal(t, 2, ind.QuantidadeVendas)
	assert.Equal(t, "90", ind.TicketMedio.String())
}

func TestCalcularIndicadoresVendaLegadaSemPagamentos(t *testing.T) {
	// Vendas históricas sem detalhe de pagamento contam como dinheiro.
	vendas := []model.Venda{{Total: dec("35.90")}}

	ind := CalcularIndicadores(vendas, nil)
	assert.Equal(t, "35.9", ind.TotalDinheiro.String())
	assert.Equal(t, 1, ind.QuantidadeVendas)
	assert.Equal(t, "35.9", ind.TicketMedio.String())
}

func TestCalcularIndicadoresVazio(t *testing.T) {
	ind := CalcularIndicadores(nil, nil)
	assert.Equal(t, 0, ind.QuantidadeVendas)
	assert.True(t, ind.TicketMedio.IsZero())
	assert.True(t, ind.TotalDinheiro.IsZero())
}

func TestSaldoDinheiro(t *testing.T) {
	ind := Indicadores{
		TotalDinheiro:   dec("30"),
		TotalSuprimento: dec("10"),
		TotalSangria:    dec("20"),
		TotalPix:        dec("500"), // não entra na gaveta
	}
	assert.Equal(t, "70", SaldoDinheiro(dec("50"), ind).String())
}
