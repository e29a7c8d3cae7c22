// Package apperror define o erro tipado usado em toda a aplicação.
// Cada falha de regra de negócio carrega um status HTTP e um código de máquina
// estável, de modo que handlers nunca precisem inspecionar mensagens e o
// cliente nunca receba detalhes internos (stack traces, erros de driver).
package apperror

import "net/http"

// Códigos de erro expostos ao cliente. São contratos de API — não renomear.
const (
	CodeCaixaJaAberto            = "CAIXA_JA_ABERTO"
	CodeCaixaFechado             = "CAIXA_FECHADO"
	CodeJustificativaObrigatoria = "JUSTIFICATIVA_OBRIGATORIA"
	CodeSaldoInsuficiente        = "SALDO_INSUFICIENTE"
	CodeEstoqueInsuficiente      = "INSUFFICIENT_STOCK"
	CodeDescontoInvalido         = "INVALID_DISCOUNT"
	CodePagamentoDivergente      = "PAYMENT_MISMATCH"
	CodeValorDinheiroInvalido    = "INVALID_CASH_AMOUNT"
	CodePixNaoConfirmado         = "PIX_NOT_CONFIRMED"
	CodeParcelasInvalidas        = "INVALID_INSTALLMENTS"
	CodeNaoEncontrado            = "NOT_FOUND"
	CodeConflito                 = "CONFLICT"
	CodeNaoAutorizado            = "UNAUTHORIZED"
	CodeUsuarioBloqueado         = "USER_BLOCKED"
)

// AppError é o erro canônico retornado pelos services.
type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

func New(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func BadRequest(code, message string) *AppError {
	return New(http.StatusBadRequest, code, message)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, CodeNaoEncontrado, message)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, CodeConflito, message)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, CodeNaoAutorizado, message)
}

// Response é o envelope JSON de todas as respostas 4xx/5xx.
type Response struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

// ValidationResponse agrupa erros de validação campo a campo.
type ValidationResponse struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationResponse {
	return &ValidationResponse{Detail: "Erro de validacao", Fields: fields}
}
