package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/dto"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/middleware"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/service"
)

type CaixaHandler struct{ svc service.CaixaService }

func NewCaixaHandler(svc service.CaixaService) *CaixaHandler { return &CaixaHandler{svc: svc} }

// Abrir godoc
// @Summary Abre uma sessão de caixa para o operador autenticado
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCaixaRequest true "Dados de abertura"
// @Success 201 {object} dto.CaixaResponse
// @Failure 409 {object} apperror.Response
// @Router /v1/caixa/abrir [post]
func (h *CaixaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(reqCtx(c), usuarioID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Ativo godoc
// @Summary Retorna a sessão ativa do operador, com indicadores
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CaixaAtivoResponse
// @Router /v1/caixa/ativo [get]
func (h *CaixaHandler) Ativo(c *gin.Context) {
	resp, err := h.svc.CaixaAtivo(c.Request.Context(), usuarioID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Indicadores godoc
// @Summary Indicadores da sessão ativa do operador
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.IndicadoresResponse
// @Router /v1/caixa/indicadores [get]
func (h *CaixaHandler) Indicadores(c *gin.Context) {
	resp, err := h.svc.Indicadores(c.Request.Context(), usuarioID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Suprimento godoc
// @Summary Registra entrada manual de dinheiro no caixa
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimentoCaixaRequest true "Valor e motivo"
// @Success 201 {object} dto.MovimentoResponse
// @Failure 409 {object} apperror.Response
// @Router /v1/caixa/suprimento [post]
func (h *CaixaHandler) Suprimento(c *gin.Context) {
	var req dto.MovimentoCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarSuprimento(reqCtx(c), usuarioID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Sangria godoc
// @Summary Registra retirada de dinheiro do caixa
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimentoCaixaRequest true "Valor e motivo"
// @Success 201 {object} dto.MovimentoResponse
// @Failure 422 {object} apperror.Response
// @Router /v1/caixa/sangria [post]
func (h *CaixaHandler) Sangria(c *gin.Context) {
	var req dto.MovimentoCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarSangria(reqCtx(c), usuarioID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// PreverFechamento godoc
// @Summary Calcula o fechamento sem fechar a sessão
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.PreverFechamentoRequest true "Valor contado"
// @Success 200 {object} dto.FechamentoPreviewResponse
// @Router /v1/caixa/fechamento/preview [post]
func (h *CaixaHandler) PreverFechamento(c *gin.Context) {
	var req dto.PreverFechamentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.PreverFechamento(c.Request.Context(), usuarioID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Fechar godoc
// @Summary Fecha a sessão ativa do operador
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.FecharCaixaRequest true "Valor contado e justificativa"
// @Success 200 {object} dto.FechamentoResponse
// @Failure 422 {object} apperror.Response
// @Router /v1/caixa/fechar [post]
func (h *CaixaHandler) Fechar(c *gin.Context) {
	var req dto.FecharCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Fechar(reqCtx(c), usuarioID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historico godoc
// @Summary Lista movimentos de caixa, paginado
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Param operador_id query string false "Filtra por operador (ADMIN)"
// @Param data_inicio query string false "YYYY-MM-DD"
// @Param data_fim query string false "YYYY-MM-DD"
// @Param page query int false "Página"
// @Param limit query int false "Itens por página"
// @Success 200 {object} dto.Paginado[dto.MovimentoResponse]
// @Router /v1/caixa/historico [get]
func (h *CaixaHandler) Historico(c *gin.Context) {
	var filter dto.HistoricoFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	// Operador só enxerga o próprio histórico; os filtros livres são de ADMIN.
	claims := middleware.GetClaims(c)
	if claims.Role != model.RoleAdmin {
		filter.OperadorID = claims.UserID
	}
	resp, err := h.svc.Historico(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LimparHistorico godoc
// @Summary Apaga todo o histórico de caixas e vendas (irreversível)
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.LimpezaResponse
// @Router /v1/caixa/historico [delete]
func (h *CaixaHandler) LimparHistorico(c *gin.Context) {
	resp, err := h.svc.LimparHistorico(reqCtx(c), usuarioID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
