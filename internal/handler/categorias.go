package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/dto"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/service"
)

type CategoriaHandler struct{ svc service.CategoriaService }

func NewCategoriaHandler(svc service.CategoriaService) *CategoriaHandler {
	return &CategoriaHandler{svc: svc}
}

// Criar godoc
// @Summary Cadastra uma categoria (ADMIN)
// @Tags categorias
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CategoriaRequest true "Nome da categoria"
// @Success 201 {object} dto.CategoriaResponse
// @Failure 409 {object} apperror.Response
// @Router /v1/categorias [post]
func (h *CategoriaHandler) Criar(c *gin.Context) {
	var req dto.CategoriaRequest
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
// @Summary Lista categorias
// @Tags categorias
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.CategoriaResponse
// @Router /v1/categorias [get]
func (h *CategoriaHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Atualizar godoc
// @Summary Renomeia uma categoria (ADMIN)
// @Tags categorias
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da categoria"
// @Param body body dto.CategoriaRequest true "Novo nome"
// @Success 200 {object} dto.CategoriaResponse
// @Failure 404 {object} apperror.Response
// @Router /v1/categorias/{id} [put]
func (h *CategoriaHandler) Atualizar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.CategoriaRequest
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

// Remover godoc
// @Summary Remove uma categoria sem produtos (ADMIN)
// @Tags categorias
// @Security BearerAuth
// @Param id path string true "ID da categoria"
// @Success 204
// @Failure 409 {object} apperror.Response
// @Router /v1/categorias/{id} [delete]
func (h *CategoriaHandler) Remover(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Remover(reqCtx(c), usuarioID(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
