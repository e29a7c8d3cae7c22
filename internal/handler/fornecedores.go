package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/dto"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/service"
)

type FornecedorHandler struct{ svc service.FornecedorService }

func NewFornecedorHandler(svc service.FornecedorService) *FornecedorHandler {
	return &FornecedorHandler{svc: svc}
}

// Criar godoc
// @Summary Cadastra um fornecedor (ADMIN)
// @Tags fornecedores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.FornecedorRequest true "Dados do fornecedor"
// @Success 201 {object} dto.FornecedorResponse
// @Failure 409 {object} apperror.Response
// @Router /v1/fornecedores [post]
func (h *FornecedorHandler) Criar(c *gin.Context) {
	var req dto.FornecedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(reqCtx(c), usuarioID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista fornecedores (ADMIN)
// @Tags fornecedores
// @Produce json
// @Security BearerAuth
// @Param incluir_inativos query bool false "Inclui desativados"
// @Success 200 {array} dto.FornecedorResponse
// @Router /v1/fornecedores [get]
func (h *FornecedorHandler) Listar(c *gin.Context) {
	incluirInativos := c.Query("incluir_inativos") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), incluirInativos)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obter godoc
// @Summary Detalha um fornecedor (ADMIN)
// @Tags fornecedores
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do fornecedor"
// @Success 200 {object} dto.FornecedorResponse
// @Failure 404 {object} apperror.Response
// @Router /v1/fornecedores/{id} [get]
func (h *FornecedorHandler) Obter(c *gin.Context) {
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

// Atualizar godoc
// @Summary Atualiza um fornecedor (ADMIN)
// @Tags fornecedores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do fornecedor"
// @Param body body dto.FornecedorRequest true "Dados do fornecedor"
// @Success 200 {object} dto.FornecedorResponse
// @Failure 404 {object} apperror.Response
// @Router /v1/fornecedores/{id} [put]
func (h *FornecedorHandler) Atualizar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.FornecedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(reqCtx(c), usuarioID(c), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desativar godoc
// @Summary Desativa um fornecedor (ADMIN)
// @Tags fornecedores
// @Security BearerAuth
// @Param id path string true "ID do fornecedor"
// @Success 204
// @Failure 404 {object} apperror.Response
// @Router /v1/fornecedores/{id} [delete]
func (h *FornecedorHandler) Desativar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Desativar(reqCtx(c), usuarioID(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
