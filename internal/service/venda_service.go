package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/apperror"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/dto"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/ledger"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/repository"
)

type VendaService interface {
	RegistrarVenda(ctx context.Context, operadorID uuid.UUID, req dto.CriarVendaRequest) (*dto.VendaResponse, error)
	Listar(ctx context.Context, filter dto.VendaFilter) (*dto.Paginado[dto.VendaResponse], error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error)
}

type vendaService struct {
	repo        repository.VendaRepository
	produtoRepo repository.ProdutoRepository
	caixaRepo   repository.CaixaRepository
	caixa       CaixaService
	audit       AuditSink
}

func NewVendaService(
	repo repository.VendaRepository,
	produtoRepo repository.ProdutoRepository,
	caixaRepo repository.CaixaRepository,
	caixa CaixaService,
	audit AuditSink,
) VendaService {
	return &vendaService{
		repo:        repo,
		produtoRepo: produtoRepo,
		caixaRepo:   caixaRepo,
		caixa:       caixa,
		audit:       audit,
	}
}

// ── RegistrarVenda ────────────────────────────────────────────────────────────
// Liquidação completa em uma transação:
//  1. exige caixa aberto do operador
//  2. resolve itens, pré-checa estoque e calcula subtotal/total
//  3. valida desconto e a composição de pagamentos
//  4. BEGIN TX: cria venda+itens+pagamentos, desconta estoque (guarda
//     condicional — false aborta tudo), um movimento VENDA por pagamento
//  5. COMMIT

func (s *vendaService) RegistrarVenda(ctx context.Context, operadorID uuid.UUID, req dto.CriarVendaRequest) (*dto.VendaResponse, error) {
	caixa, err := s.caixa.CaixaAbertoDoOperador(ctx, operadorID)
	if err != nil {
		return nil, err
	}

	// Resolução de itens e pré-checagem de estoque, fora da transação. A
	// checagem definitiva é o decremento condicional dentro da transação;
	// esta só antecipa o erro para o caminho comum.
	type itemResolvido struct {
		produtoID uuid.UUID
		nome      string
		qtd       int
		preco     decimal.Decimal
		subtotal  decimal.Decimal
	}
	var resolvidos []itemResolvido
	subtotal := decimal.Zero

	for _, item := range req.Itens {
		pid, err := uuid.Parse(item.ProdutoID)
		if err != nil {
			return nil, apperror.BadRequest(apperror.CodeNaoEncontrado, fmt.Sprintf("produto_id inválido: %s", item.ProdutoID))
		}
		p, err := s.produtoRepo.FindByID(ctx, pid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NotFound(fmt.Sprintf("Produto %s não encontrado", item.ProdutoID))
			}
			return nil, err
		}
		if p.Estoque < item.Quantidade {
			return nil, apperror.New(http.StatusConflict, apperror.CodeEstoqueInsuficiente,
				fmt.Sprintf("Estoque insuficiente para %s: disponível %d", p.Nome, p.Estoque))
		}

		preco := ledger.Round2(item.PrecoUnit)
		linha := ledger.Round2(preco.Mul(decimal.NewFromInt(int64(item.Quantidade))))
		subtotal = subtotal.Add(linha)
		resolvidos = append(resolvidos, itemResolvido{
			produtoID: pid,
			nome:      p.Nome,
			qtd:       item.Quantidade,
			preco:     preco,
			subtotal:  linha,
		})
	}
	subtotal = ledger.Round2(subtotal)

	desconto := ledger.Round2(req.Desconto)
	if desconto.IsNegative() || desconto.GreaterThan(subtotal) {
		return nil, apperror.New(http.StatusUnprocessableEntity, apperror.CodeDescontoInvalido,
			"Desconto deve estar entre zero e o subtotal da venda")
	}
	total := subtotal.Sub(desconto)

	pagamentos, err := montarPagamentos(req.Pagamentos, total)
	if err != nil {
		return nil, err
	}

	venda := model.Venda{
		CaixaID:        caixa.ID,
		OperadorID:     operadorID,
		Subtotal:       subtotal,
		Desconto:       desconto,
		Total:          total,
		FormaPagamento: formaAgregada(pagamentos),
		Cliente:        req.Cliente,
		CPF:            req.CPF,
		Observacao:     req.Observacao,
		Status:         model.VendaConcluida,
	}
	for _, r := range resolvidos {
		venda.Itens = append(venda.Itens, model.VendaItem{
			ProdutoID:  r.produtoID,
			Quantidade: r.qtd,
			PrecoUnit:  r.preco,
			Subtotal:   r.subtotal,
		})
	}
	venda.Pagamentos = pagamentos

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, &venda); err != nil {
			return err
		}

		// Decremento condicional: o banco avalia estoque >= qtd no mesmo
		// statement. false significa que outro caixa consumiu o estoque
		// entre a pré-checagem e o commit — aborta a venda inteira.
		for _, r := range resolvidos {
			ok, err := s.produtoRepo.DescontarEstoqueTx(tx, r.produtoID, r.qtd)
			if err != nil {
				return err
			}
			if !ok {
				return apperror.New(http.StatusConflict, apperror.CodeEstoqueInsuficiente,
					fmt.Sprintf("Estoque insuficiente para %s", r.nome))
			}
		}

		// Um movimento VENDA por linha de pagamento, com a forma simplificada.
		for i := range venda.Pagamentos {
			p := &venda.Pagamentos[i]
			forma := formaDoMovimento(p.Tipo)
			mov := &model.CaixaMovimento{
				CaixaID:         caixa.ID,
				OperadorID:      operadorID,
				Tipo:            model.MovVenda,
				FormaPagamento:  &forma,
				Valor:           p.Valor,
				Descricao:       fmt.Sprintf("Venda %s", venda.ID),
				ReferenciaVenda: &venda.ID,
			}
			if err := s.caixaRepo.CreateMovimentoTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.audit != nil {
		s.audit.Registrar(ctx, operadorID, fmt.Sprintf("VENDA_REGISTRADA %s", total.StringFixed(2)))
	}

	resp := vendaToResponse(&venda)
	for i, r := range resolvidos {
		resp.Itens[i].Produto = r.nome
	}
	return resp, nil
}

// montarPagamentos valida cada linha e o fechamento da soma contra o total.
func montarPagamentos(reqs []dto.PagamentoRequest, total decimal.Decimal) ([]model.VendaPagamento, error) {
	var pagamentos []model.VendaPagamento
	soma := decimal.Zero

	for _, p := range reqs {
		valor := ledger.Round2(p.Valor)
		soma = soma.Add(valor)

		pagamento := model.VendaPagamento{
			Tipo:  p.Tipo,
			Valor: valor,
			Troco: decimal.Zero,
		}

		switch p.Tipo {
		case model.PagamentoDinheiro:
			// Valor recebido é opcional: ausente significa pagamento exato,
			// sem troco. Quando informado, precisa cobrir a linha.
			if p.ValorRecebido != nil {
				recebido := ledger.Round2(*p.ValorRecebido)
				if recebido.LessThan(valor) {
					return nil, apperror.New(http.StatusUnprocessableEntity, apperror.CodeValorDinheiroInvalido,
						"Valor recebido menor que o valor do pagamento")
				}
				pagamento.ValorRecebido = &recebido
				pagamento.Troco = recebido.Sub(valor)
			}

		case model.PagamentoPix:
			if p.Confirmado == nil || !*p.Confirmado {
				return nil, apperror.New(http.StatusUnprocessableEntity, apperror.CodePixNaoConfirmado,
					"Pagamento PIX exige confirmação")
			}

		case model.PagamentoCartaoCredito:
			if p.Parcelas == nil || *p.Parcelas < 1 || *p.Parcelas > 12 {
				return nil, apperror.New(http.StatusUnprocessableEntity, apperror.CodeParcelasInvalidas,
					"Cartão de crédito exige parcelas entre 1 e 12")
			}
			parcelas := *p.Parcelas
			pagamento.Parcelas = &parcelas
		}

		pagamentos = append(pagamentos, pagamento)
	}

	// A soma precisa fechar com o total: qualquer divergência de um centavo
	// ou mais é rejeitada.
	if soma.Sub(total).Abs().GreaterThanOrEqual(umCentavo) {
		return nil, apperror.New(http.StatusUnprocessableEntity, apperror.CodePagamentoDivergente,
			fmt.Sprintf("Soma dos pagamentos (%s) não fecha com o total (%s)", soma.StringFixed(2), total.StringFixed(2)))
	}
	return pagamentos, nil
}

func formaAgregada(pagamentos []model.VendaPagamento) string {
	if len(pagamentos) == 1 {
		return pagamentos[0].Tipo
	}
	return model.FormaMisto
}

// formaDoMovimento reduz o tipo de pagamento à forma simplificada do
// livro-caixa: crédito e débito viram CARTAO.
func formaDoMovimento(tipo string) string {
	switch tipo {
	case model.PagamentoCartaoCredito, model.PagamentoCartaoDebito:
		return model.FormaCartao
	default:
		return tipo
	}
}

// ── Consulta ──────────────────────────────────────────────────────────────────

func (s *vendaService) Listar(ctx context.Context, filter dto.VendaFilter) (*dto.Paginado[dto.VendaResponse], error) {
	vendas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	itens := make([]dto.VendaResponse, 0, len(vendas))
	for i := range vendas {
		itens = append(itens, *vendaToResponse(&vendas[i]))
	}
	return dto.NewPaginado(itens, total, filter.Page, filter.Limit), nil
}

func (s *vendaService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error) {
	venda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Venda não encontrada")
		}
		return nil, err
	}
	return vendaToResponse(venda), nil
}

func vendaToResponse(v *model.Venda) *dto.VendaResponse {
	resp := &dto.VendaResponse{
		ID:             v.ID.String(),
		CaixaID:        v.CaixaID.String(),
		OperadorID:     v.OperadorID.String(),
		Subtotal:       v.Subtotal,
		Desconto:       v.Desconto,
		Total:          v.Total,
		FormaPagamento: v.FormaPagamento,
		Cliente:        v.Cliente,
		CPF:            v.CPF,
		Observacao:     v.Observacao,
		Status:         v.Status,
		CreatedAt:      fmtTime(v.CreatedAt),
	}
	if v.Operador != nil {
		resp.Operador = v.Operador.Nome
	}
	for _, item := range v.Itens {
		ir := dto.ItemVendaResponse{
			ProdutoID:  item.ProdutoID.String(),
			Quantidade: item.Quantidade,
			PrecoUnit:  item.PrecoUnit,
			Subtotal:   item.Subtotal,
		}
		if item.Produto != nil {
			ir.Produto = item.Produto.Nome
		}
		resp.Itens = append(resp.Itens, ir)
	}
	for _, p := range v.Pagamentos {
		resp.Pagamentos = append(resp.Pagamentos, dto.PagamentoResponse{
			Tipo:     p.Tipo,
			Valor:    p.Valor,
			Parcelas: p.Parcelas,
			Troco:    p.Troco,
		})
	}
	return resp
}
