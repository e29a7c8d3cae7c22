package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/apperror"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/dto"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/ledger"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/repository"
)

// umCentavo é o limiar de divergência de fechamento que exige justificativa.
var umCentavo = decimal.New(1, -2)

type CaixaService interface {
	Abrir(ctx context.Context, operadorID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error)
	CaixaAtivo(ctx context.Context, operadorID uuid.UUID) (*dto.CaixaAtivoResponse, error)
	Indicadores(ctx context.Context, operadorID uuid.UUID) (*dto.IndicadoresResponse, error)
	RegistrarSuprimento(ctx context.Context, operadorID uuid.UUID, req dto.MovimentoCaixaRequest) (*dto.MovimentoResponse, error)
	RegistrarSangria(ctx context.Context, operadorID uuid.UUID, req dto.MovimentoCaixaRequest) (*dto.MovimentoResponse, error)
	PreverFechamento(ctx context.Context, operadorID uuid.UUID, req dto.PreverFechamentoRequest) (*dto.FechamentoPreviewResponse, error)
	Fechar(ctx context.Context, operadorID uuid.UUID, req dto.FecharCaixaRequest) (*dto.FechamentoResponse, error)
	Historico(ctx context.Context, filter dto.HistoricoFilter) (*dto.Paginado[dto.MovimentoResponse], error)
	LimparHistorico(ctx context.Context, adminID uuid.UUID) (*dto.LimpezaResponse, error)

	// CaixaAbertoDoOperador é usado pelo VendaService para amarrar a venda
	// à sessão aberta do operador.
	CaixaAbertoDoOperador(ctx context.Context, operadorID uuid.UUID) (*model.Caixa, error)
}

type caixaService struct {
	repo  repository.CaixaRepository
	audit AuditSink
	now   func() time.Time
}

func NewCaixaService(repo repository.CaixaRepository, audit AuditSink) CaixaService {
	return &caixaService{repo: repo, audit: audit, now: time.Now}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *caixaService) Abrir(ctx context.Context, operadorID uuid.UUID, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error) {
	// Pré-checagem do invariante de sessão única. A corrida entre duas
	// aberturas simultâneas é resolvida pelo índice único parcial no banco.
	existente, err := s.repo.FindAbertoPorOperador(ctx, operadorID)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, apperror.New(http.StatusConflict, apperror.CodeCaixaJaAberto, "Operador já possui um caixa aberto")
	}

	caixa := &model.Caixa{
		OperadorID:   operadorID,
		Status:       model.CaixaAberto,
		ValorInicial: ledger.Round2(req.ValorInicial),
		AberturaEm:   s.now(),
	}
	descricao := "Abertura de caixa"
	if req.Descricao != nil && *req.Descricao != "" {
		descricao = *req.Descricao
	}
	forma := model.FormaDinheiro

	// Sessão e movimento ABERTURA nascem juntos: nunca existe caixa ABERTO
	// sem o lançamento inicial no livro.
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateCaixaTx(tx, caixa); err != nil {
			return err
		}
		mov := &model.CaixaMovimento{
			CaixaID:        caixa.ID,
			OperadorID:     operadorID,
			Tipo:           model.MovAbertura,
			FormaPagamento: &forma,
			Valor:          caixa.ValorInicial,
			Descricao:      descricao,
		}
		return s.repo.CreateMovimentoTx(tx, mov)
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(http.StatusConflict, apperror.CodeCaixaJaAberto, "Operador já possui um caixa aberto")
		}
		return nil, txErr
	}

	if s.audit != nil {
		s.audit.Registrar(ctx, operadorID, "CAIXA_ABERTO")
	}
	return caixaToResponse(caixa), nil
}

// ── Consulta ──────────────────────────────────────────────────────────────────

func (s *caixaService) CaixaAtivo(ctx context.Context, operadorID uuid.UUID) (*dto.CaixaAtivoResponse, error) {
	caixa, err := s.repo.FindAbertoPorOperador(ctx, operadorID)
	if err != nil {
		return nil, err
	}
	if caixa == nil {
		return &dto.CaixaAtivoResponse{CaixaAberto: false, Indicadores: ledger.CalcularIndicadores(nil, nil)}, nil
	}

	ind, err := s.indicadoresDoCaixa(ctx, caixa.ID)
	if err != nil {
		return nil, err
	}
	return &dto.CaixaAtivoResponse{
		CaixaAberto: true,
		Caixa:       caixaToResponse(caixa),
		Indicadores: ind,
	}, nil
}

func (s *caixaService) Indicadores(ctx context.Context, operadorID uuid.UUID) (*dto.IndicadoresResponse, error) {
	caixa, err := s.repo.FindAbertoPorOperador(ctx, operadorID)
	if err != nil {
		return nil, err
	}
	if caixa == nil {
		return &dto.IndicadoresResponse{CaixaAberto: false, Indicadores: ledger.CalcularIndicadores(nil, nil)}, nil
	}
	ind, err := s.indicadoresDoCaixa(ctx, caixa.ID)
	if err != nil {
		return nil, err
	}
	return &dto.IndicadoresResponse{CaixaAberto: true, Indicadores: ind}, nil
}

// ── Suprimento / Sangria ──────────────────────────────────────────────────────

func (s *caixaService) RegistrarSuprimento(ctx context.Context, operadorID uuid.UUID, req dto.MovimentoCaixaRequest) (*dto.MovimentoResponse, error) {
	caixa, err := s.caixaAbertoOuErro(ctx, operadorID)
	if err != nil {
		return nil, err
	}

	mov := &model.CaixaMovimento{
		CaixaID:    caixa.ID,
		OperadorID: operadorID,
		Tipo:       model.MovSuprimento,
		Valor:      ledger.Round2(req.Valor),
		Descricao:  req.Motivo,
	}
	if err := s.repo.CreateMovimento(ctx, mov); err != nil {
		return nil, err
	}
	if s.audit != nil {
		s.audit.Registrar(ctx, operadorID, fmt.Sprintf("SUPRIMENTO %s", mov.Valor.StringFixed(2)))
	}
	return movimentoToResponse(mov), nil
}

func (s *caixaService) RegistrarSangria(ctx context.Context, operadorID uuid.UUID, req dto.MovimentoCaixaRequest) (*dto.MovimentoResponse, error) {
	caixa, err := s.caixaAbertoOuErro(ctx, operadorID)
	if err != nil {
		return nil, err
	}

	ind, err := s.indicadoresDoCaixa(ctx, caixa.ID)
	if err != nil {
		return nil, err
	}
	valor := ledger.Round2(req.Valor)
	saldo := ledger.SaldoDinheiro(caixa.ValorInicial, ind)
	if valor.GreaterThan(saldo) {
		return nil, apperror.New(http.StatusUnprocessableEntity, apperror.CodeSaldoInsuficiente,
			fmt.Sprintf("Saldo em dinheiro insuficiente: disponível %s", saldo.StringFixed(2)))
	}

	mov := &model.CaixaMovimento{
		CaixaID:    caixa.ID,
		OperadorID: operadorID,
		Tipo:       model.MovSangria,
		Valor:      valor,
		Descricao:  req.Motivo,
	}
	if err := s.repo.CreateMovimento(ctx, mov); err != nil {
		return nil, err
	}
	if s.audit != nil {
		s.audit.Registrar(ctx, operadorID, fmt.Sprintf("SANGRIA %s", valor.StringFixed(2)))
	}
	return movimentoToResponse(mov), nil
}

// ── Fechamento ────────────────────────────────────────────────────────────────

func (s *caixaService) PreverFechamento(ctx context.Context, operadorID uuid.UUID, req dto.PreverFechamentoRequest) (*dto.FechamentoPreviewResponse, error) {
	caixa, err := s.caixaAbertoOuErro(ctx, operadorID)
	if err != nil {
		return nil, err
	}
	ind, err := s.indicadoresDoCaixa(ctx, caixa.ID)
	if err != nil {
		return nil, err
	}

	esperado := ledger.Round2(ledger.SaldoDinheiro(caixa.ValorInicial, ind))
	contado := ledger.Round2(req.ValorContadoDinheiro)
	return &dto.FechamentoPreviewResponse{
		CaixaID:       caixa.ID.String(),
		TotalEsperado: esperado,
		TotalContado:  contado,
		Diferenca:     contado.Sub(esperado),
		Indicadores:   ind,
	}, nil
}

func (s *caixaService) Fechar(ctx context.Context, operadorID uuid.UUID, req dto.FecharCaixaRequest) (*dto.FechamentoResponse, error) {
	caixa, err := s.caixaAbertoOuErro(ctx, operadorID)
	if err != nil {
		return nil, err
	}
	ind, err := s.indicadoresDoCaixa(ctx, caixa.ID)
	if err != nil {
		return nil, err
	}

	esperado := ledger.Round2(ledger.SaldoDinheiro(caixa.ValorInicial, ind))
	contado := ledger.Round2(req.ValorContadoDinheiro)
	diferenca := contado.Sub(esperado)

	// Divergência de um centavo ou mais exige justificativa com conteúdo.
	var justificativa *string
	if req.Justificativa != nil {
		j := strings.TrimSpace(*req.Justificativa)
		if j != "" {
			justificativa = &j
		}
	}
	if diferenca.Abs().GreaterThanOrEqual(umCentavo) {
		if justificativa == nil || len(*justificativa) < 5 {
			return nil, apperror.New(http.StatusUnprocessableEntity, apperror.CodeJustificativaObrigatoria,
				"Divergência de fechamento exige justificativa de ao menos 5 caracteres")
		}
	}

	fechamentoEm := s.now()
	caixa.Status = model.CaixaFechado
	caixa.FechamentoEm = &fechamentoEm
	caixa.ValorEsperadoFechamento = &esperado
	caixa.ValorContadoFechamento = &contado
	caixa.DiferencaFechamento = &diferenca
	caixa.JustificativaDivergencia = justificativa

	forma := model.FormaDinheiro
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.FecharTx(tx, caixa); err != nil {
			return err
		}
		mov := &model.CaixaMovimento{
			CaixaID:        caixa.ID,
			OperadorID:     operadorID,
			Tipo:           model.MovFechamento,
			FormaPagamento: &forma,
			Valor:          contado,
			Descricao:      "Fechamento de caixa",
		}
		return s.repo.CreateMovimentoTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.audit != nil {
		s.audit.Registrar(ctx, operadorID, "CAIXA_FECHADO")
	}
	return &dto.FechamentoResponse{
		CaixaID:       caixa.ID.String(),
		FechamentoEm:  fmtTime(fechamentoEm),
		TotalEsperado: esperado,
		TotalContado:  contado,
		Diferenca:     diferenca,
		Justificativa: justificativa,
		Indicadores:   ind,
	}, nil
}

// ── Histórico ─────────────────────────────────────────────────────────────────

func (s *caixaService) Historico(ctx context.Context, filter dto.HistoricoFilter) (*dto.Paginado[dto.MovimentoResponse], error) {
	movs, total, err := s.repo.ListMovimentos(ctx, filter)
	if err != nil {
		return nil, err
	}
	itens := make([]dto.MovimentoResponse, 0, len(movs))
	for i := range movs {
		itens = append(itens, *movimentoToResponse(&movs[i]))
	}
	return dto.NewPaginado(itens, total, filter.Page, filter.Limit), nil
}

func (s *caixaService) LimparHistorico(ctx context.Context, adminID uuid.UUID) (*dto.LimpezaResponse, error) {
	contagem, err := s.repo.LimparHistorico(ctx)
	if err != nil {
		return nil, err
	}
	if s.audit != nil {
		s.audit.Registrar(ctx, adminID, "HISTORICO_LIMPO")
	}
	return &dto.LimpezaResponse{
		PagamentosRemovidos: contagem.Pagamentos,
		ItensRemovidos:      contagem.Itens,
		MovimentosRemovidos: contagem.Movimentos,
		VendasRemovidas:     contagem.Vendas,
		CaixasRemovidos:     contagem.Caixas,
	}, nil
}

// ── Apoio ─────────────────────────────────────────────────────────────────────

func (s *caixaService) CaixaAbertoDoOperador(ctx context.Context, operadorID uuid.UUID) (*model.Caixa, error) {
	return s.caixaAbertoOuErro(ctx, operadorID)
}

func (s *caixaService) caixaAbertoOuErro(ctx context.Context, operadorID uuid.UUID) (*model.Caixa, error) {
	caixa, err := s.repo.FindAbertoPorOperador(ctx, operadorID)
	if err != nil {
		return nil, err
	}
	if caixa == nil {
		return nil, apperror.New(http.StatusConflict, apperror.CodeCaixaFechado, "Operador não possui caixa aberto")
	}
	return caixa, nil
}

func (s *caixaService) indicadoresDoCaixa(ctx context.Context, caixaID uuid.UUID) (ledger.Indicadores, error) {
	movs, err := s.repo.ListMovimentosPorCaixa(ctx, caixaID)
	if err != nil {
		return ledger.Indicadores{}, err
	}
	vendas, err := s.repo.VendasConcluidas(ctx, caixaID)
	if err != nil {
		return ledger.Indicadores{}, err
	}
	return ledger.CalcularIndicadores(vendas, movs), nil
}

func caixaToResponse(c *model.Caixa) *dto.CaixaResponse {
	return &dto.CaixaResponse{
		ID:           c.ID.String(),
		OperadorID:   c.OperadorID.String(),
		Status:       c.Status,
		ValorInicial: c.ValorInicial,
		AberturaEm:   fmtTime(c.AberturaEm),
		FechamentoEm: fmtTimePtr(c.FechamentoEm),
	}
}

func movimentoToResponse(m *model.CaixaMovimento) *dto.MovimentoResponse {
	return &dto.MovimentoResponse{
		ID:             m.ID.String(),
		CaixaID:        m.CaixaID.String(),
		Tipo:           m.Tipo,
		FormaPagamento: m.FormaPagamento,
		Valor:          m.Valor,
		Descricao:      m.Descricao,
		CriadoEm:       fmtTime(m.CreatedAt),
	}
}
