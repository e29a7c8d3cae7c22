// Package ledger concentra a aritmética monetária pura do PDV: arredondamento,
// somatórios por tipo de movimento e os indicadores de uma sessão de caixa.
// Sem estado e sem I/O — tudo aqui é função de entrada para saída.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
)

// Round2 arredonda para duas casas decimais (meio para cima nos centavos).
// Todo valor monetário persistido ou comparado passa por aqui.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// SumPorTipo soma os valores dos movimentos do tipo informado.
func SumPorTipo(movimentos []model.CaixaMovimento, tipo string) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movimentos {
		if m.Tipo == tipo {
			total = total.Add(m.Valor)
		}
	}
	return total
}

// Indicadores agrega os totais de uma sessão de caixa por forma de pagamento
// e tipo de movimento.
type Indicadores struct {
	TotalDinheiro    decimal.Decimal `json:"total_dinheiro"`
	TotalCartao      decimal.Decimal `json:"total_cartao"`
	TotalPix         decimal.Decimal `json:"total_pix"`
	TotalSuprimento  decimal.Decimal `json:"total_suprimento"`
	TotalSangria     decimal.Decimal `json:"total_sangria"`
	QuantidadeVendas int             `json:"quantidade_vendas"`
	TicketMedio      decimal.Decimal `json:"ticket_medio"`
}

// CalcularIndicadores dobra as vendas (pelo detalhe de pagamento) e os
// movimentos (por tipo) de uma sessão.
//
// Regra de compatibilidade: vendas antigas sem linhas de pagamento contam
// integralmente como dinheiro. Vendas novas sempre têm >= 1 pagamento, então
// a regra só dispara sobre dados históricos.
func CalcularIndicadores(vendas []model.Venda, movimentos []model.CaixaMovimento) Indicadores {
	ind := Indicadores{
		TotalDinheiro:   decimal.Zero,
		TotalCartao:     decimal.Zero,
		TotalPix:        decimal.Zero,
		TotalSuprimento: decimal.Zero,
		TotalSangria:    decimal.Zero,
		TicketMedio:     decimal.Zero,
	}

	totalVendas := decimal.Zero
	for _, v := range vendas {
		ind.QuantidadeVendas++
		totalVendas = totalVendas.Add(v.Total)

		if len(v.Pagamentos) == 0 {
			ind.TotalDinheiro = ind.TotalDinheiro.Add(v.Total)
			continue
		}
		for _, p := range v.Pagamentos {
			switch p.Tipo {
			case model.PagamentoDinheiro:
				ind.TotalDinheiro = ind.TotalDinheiro.Add(p.Valor)
			case model.PagamentoPix:
				ind.TotalPix = ind.TotalPix.Add(p.Valor)
			case model.PagamentoCartaoCredito, model.PagamentoCartaoDebito:
				ind.TotalCartao = ind.TotalCartao.Add(p.Valor)
			}
		}
	}

	ind.TotalSuprimento = SumPorTipo(movimentos, model.MovSuprimento)
	ind.TotalSangria = SumPorTipo(movimentos, model.MovSangria)

	if ind.QuantidadeVendas > 0 {
		ind.TicketMedio = Round2(totalVendas.Div(decimal.NewFromInt(int64(ind.QuantidadeVendas))))
	}
	return ind
}

// SaldoDinheiro é o dinheiro disponível na gaveta:
// valor inicial + vendas em dinheiro + suprimentos - sangrias.
// Formas não-dinheiro (PIX, cartão) nunca entram na gaveta.
func SaldoDinheiro(valorInicial decimal.Decimal, ind Indicadores) decimal.Decimal {
	return valorInicial.Add(ind.TotalDinheiro).Add(ind.TotalSuprimento).Sub(ind.TotalSangria)
}
