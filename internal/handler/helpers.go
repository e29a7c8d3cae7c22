package handler

import (
	"context"
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/apperror"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/middleware"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/worker"
)

var validate = validator.New()

func init() {
	// Registra decimal.Decimal como tipo numérico: tags min=0, gt=0, required
	// funcionam sem panic ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate faz o bind do corpo JSON e roda as tags do validator.
// Retorna false e escreve a resposta de erro quando a validação falha —
// o chamador deve retornar sem escrever outra resposta.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apperror.Response{Detail: "JSON inválido: " + err.Error()})
		return false
	}
	return validateStruct(c, req)
}

// bindQueryAndValidate é o equivalente para filtros vindos da query string.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apperror.Response{Detail: "Query inválida: " + err.Error()})
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apperror.NewValidation(fields))
		return false
	}
	return true
}

// fail traduz erros de service para a resposta HTTP. *apperror.AppError
// carrega o status e o código; qualquer outro erro vira 500 genérico via
// middleware de erro, sem vazar detalhe interno.
func fail(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, apperror.Response{Detail: appErr.Message, Code: appErr.Code})
		return
	}
	_ = c.Error(err)
}

// reqCtx devolve o contexto da requisição enriquecido com IP e user-agent,
// para a trilha de auditoria dos services.
func reqCtx(c *gin.Context) context.Context {
	return worker.WithRequestMeta(c.Request.Context(), c.ClientIP(), c.Request.UserAgent())
}

// usuarioID extrai o ID do operador autenticado das claims do JWT.
func usuarioID(c *gin.Context) uuid.UUID {
	claims := middleware.GetClaims(c)
	id, _ := uuid.Parse(claims.UserID)
	return id
}

// pathID faz o parse do parâmetro :id, respondendo 400 quando malformado.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apperror.Response{Detail: "ID inválido"})
		return uuid.Nil, false
	}
	return id, true
}
