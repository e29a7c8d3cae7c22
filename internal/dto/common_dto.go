package dto

// Paginado é o envelope padrão de listagens paginadas.
type Paginado[T any] struct {
	Dados      []T   `json:"dados"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginado calcula total_pages a partir do total e do limit.
func NewPaginado[T any](dados []T, total int64, page, limit int) *Paginado[T] {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &Paginado[T]{Dados: dados, Total: total, Page: page, TotalPages: totalPages}
}
