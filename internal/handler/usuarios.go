package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/dto"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/service"
)

type UsuarioHandler struct{ svc service.AuthService }

func NewUsuarioHandler(svc service.AuthService) *UsuarioHandler { return &UsuarioHandler{svc: svc} }

// Criar godoc
// @Summary Cadastra um usuário (ADMIN)
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarUsuarioRequest true "Dados do usuário"
// @Success 201 {object} dto.UsuarioResponse
// @Failure 409 {object} apperror.Response
// @Router /v1/usuarios [post]
func (h *UsuarioHandler) Criar(c *gin.Context) {
	var req dto.CriarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarUsuario(reqCtx(c), usuarioID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista usuários (ADMIN)
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Param incluir_inativos query bool false "Inclui desativados"
// @Success 200 {array} dto.UsuarioResponse
// @Router /v1/usuarios [get]
func (h *UsuarioHandler) Listar(c *gin.Context) {
	incluirInativos := c.Query("incluir_inativos") == "true"
	resp, err := h.svc.ListarUsuarios(c.Request.Context(), incluirInativos)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Atualizar godoc
// @Summary Atualiza nome, senha ou role de um usuário (ADMIN)
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Param body body dto.AtualizarUsuarioRequest true "Campos a alterar"
// @Success 200 {object} dto.UsuarioResponse
// @Failure 404 {object} apperror.Response
// @Router /v1/usuarios/{id} [put]
func (h *UsuarioHandler) Atualizar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AtualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarUsuario(reqCtx(c), usuarioID(c), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desativar godoc
// @Summary Desativa um usuário (ADMIN)
// @Tags usuarios
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Success 204
// @Failure 404 {object} apperror.Response
// @Router /v1/usuarios/{id} [delete]
func (h *UsuarioHandler) Desativar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DesativarUsuario(reqCtx(c), usuarioID(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reativar godoc
// @Summary Reativa um usuário desativado (ADMIN)
// @Tags usuarios
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Success 204
// @Failure 404 {object} apperror.Response
// @Router /v1/usuarios/{id}/reativar [post]
func (h *UsuarioHandler) Reativar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.ReativarUsuario(reqCtx(c), usuarioID(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
