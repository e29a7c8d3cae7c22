package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/apperror"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/dto"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/infra"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/repository"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/service"
)

type VendaHandler struct {
	svc  service.VendaService
	repo repository.VendaRepository
}

func NewVendaHandler(svc service.VendaService, repo repository.VendaRepository) *VendaHandler {
	return &VendaHandler{svc: svc, repo: repo}
}

// Registrar godoc
// @Summary Registra uma venda no caixa aberto do operador
// @Tags vendas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarVendaRequest true "Itens, desconto e pagamentos"
// @Success 201 {object} dto.VendaResponse
// @Failure 409 {object} apperror.Response
// @Failure 422 {object} apperror.Response
// @Router /v1/vendas [post]
func (h *VendaHandler) Registrar(c *gin.Context) {
	var req dto.CriarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarVenda(reqCtx(c), usuarioID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista vendas, paginado
// @Tags vendas
// @Produce json
// @Security BearerAuth
// @Param data query string false "YYYY-MM-DD"
// @Param page query int false "Página"
// @Param limit query int false "Itens por página"
// @Success 200 {object} dto.Paginado[dto.VendaResponse]
// @Router /v1/vendas [get]
func (h *VendaHandler) Listar(c *gin.Context) {
	var filter dto.VendaFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obter godoc
// @Summary Detalha uma venda
// @Tags vendas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.VendaResponse
// @Failure 404 {object} apperror.Response
// @Router /v1/vendas/{id} [get]
func (h *VendaHandler) Obter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObterPorID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cupom godoc
// @Summary Gera o cupom não fiscal de uma venda em PDF
// @Tags vendas
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Success 200 {file} binary
// @Failure 404 {object} apperror.Response
// @Router /v1/vendas/{id}/cupom [get]
func (h *VendaHandler) Cupom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	venda, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, apperror.NotFound("Venda não encontrada"))
			return
		}
		fail(c, err)
		return
	}

	pdfBytes, err := infra.GerarCupomPDF(venda)
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="cupom_%s.pdf"`, venda.ID))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
