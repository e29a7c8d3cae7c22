package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/apperror"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/dto"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/ledger"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/repository"
)

const cacheListaProdutos = "cache:produtos:"

type ProdutoService interface {
	Criar(ctx context.Context, usuarioID uuid.UUID, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error)
	ObterPorCodigo(ctx context.Context, codigo string) (*dto.ProdutoResponse, error)
	Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.Paginado[dto.ProdutoResponse], error)
	Atualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	Remover(ctx context.Context, usuarioID, id uuid.UUID) error
}

type produtoService struct {
	repo     repository.ProdutoRepository
	rdb      *redis.Client
	audit    AuditSink
	cacheTTL time.Duration
}

func NewProdutoService(repo repository.ProdutoRepository, rdb *redis.Client, audit AuditSink, cacheTTL time.Duration) ProdutoService {
	return &produtoService{repo: repo, rdb: rdb, audit: audit, cacheTTL: cacheTTL}
}

func (s *produtoService) Criar(ctx context.Context, usuarioID uuid.UUID, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	if req.Codigo != nil && *req.Codigo != "" {
		if _, err := s.repo.FindByCodigo(ctx, *req.Codigo); err == nil {
			return nil, apperror.Conflict(fmt.Sprintf("Já existe produto com o código %s", *req.Codigo))
		}
	}

	p := &model.Produto{
		Nome:    req.Nome,
		Codigo:  req.Codigo,
		Preco:   ledger.Round2(req.Preco),
		Estoque: req.Estoque,
	}
	if req.CategoriaID != nil {
		cid, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, apperror.BadRequest(apperror.CodeNaoEncontrado, "categoria_id inválido")
		}
		p.CategoriaID = &cid
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("Código de produto já cadastrado")
		}
		return nil, err
	}

	s.invalidarCache(ctx)
	if s.audit != nil {
		s.audit.Registrar(ctx, usuarioID, fmt.Sprintf("PRODUTO_CRIADO %s", p.ID))
	}
	return produtoToResponse(p), nil
}

func (s *produtoService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Produto não encontrado")
		}
		return nil, err
	}
	return produtoToResponse(p), nil
}

func (s *produtoService) ObterPorCodigo(ctx context.Context, codigo string) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Produto não encontrado")
		}
		return nil, err
	}
	return produtoToResponse(p), nil
}

// Listar serve da cache Redis quando possível. A chave codifica o filtro
// inteiro; qualquer escrita no catálogo invalida o prefixo.
func (s *produtoService) Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.Paginado[dto.ProdutoResponse], error) {
	key := fmt.Sprintf("%sb=%s:c=%s:p=%d:l=%d", cacheListaProdutos, filter.Busca, filter.CategoriaID, filter.Page, filter.Limit)

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var cached dto.Paginado[dto.ProdutoResponse]
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	produtos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	itens := make([]dto.ProdutoResponse, 0, len(produtos))
	for i := range produtos {
		itens = append(itens, *produtoToResponse(&produtos[i]))
	}
	page := dto.NewPaginado(itens, total, filter.Page, filter.Limit)

	if s.rdb != nil {
		if data, err := json.Marshal(page); err == nil {
			if err := s.rdb.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("cache de produtos: falha ao gravar")
			}
		}
	}
	return page, nil
}

func (s *produtoService) Atualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Produto não encontrado")
		}
		return nil, err
	}

	if req.Nome != "" {
		p.Nome = req.Nome
	}
	if req.Codigo != nil {
		if *req.Codigo != "" {
			if outro, err := s.repo.FindByCodigo(ctx, *req.Codigo); err == nil && outro.ID != p.ID {
				return nil, apperror.Conflict(fmt.Sprintf("Já existe produto com o código %s", *req.Codigo))
			}
		}
		p.Codigo = req.Codigo
	}
	if req.Preco != nil {
		if req.Preco.LessThanOrEqual(decimal.Zero) {
			return nil, apperror.BadRequest(apperror.CodeDescontoInvalido, "Preço deve ser maior que zero")
		}
		preco := ledger.Round2(*req.Preco)
		p.Preco = preco
	}
	if req.Estoque != nil {
		p.Estoque = *req.Estoque
	}
	if req.CategoriaID != nil {
		if *req.CategoriaID == "" {
			p.CategoriaID = nil
		} else {
			cid, err := uuid.Parse(*req.CategoriaID)
			if err != nil {
				return nil, apperror.BadRequest(apperror.CodeNaoEncontrado, "categoria_id inválido")
			}
			p.CategoriaID = &cid
		}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("Código de produto já cadastrado")
		}
		return nil, err
	}

	s.invalidarCache(ctx)
	if s.audit != nil {
		s.audit.Registrar(ctx, usuarioID, fmt.Sprintf("PRODUTO_ATUALIZADO %s", p.ID))
	}
	return produtoToResponse(p), nil
}

// Remover recusa a exclusão de produtos já vendidos: itens de venda congelam
// preço e referência, e perder a referência corromperia o histórico.
func (s *produtoService) Remover(ctx context.Context, usuarioID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Produto não encontrado")
		}
		return err
	}

	n, err := s.repo.CountVendaItens(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.Conflict("Produto possui vendas registradas e não pode ser removido")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidarCache(ctx)
	if s.audit != nil {
		s.audit.Registrar(ctx, usuarioID, fmt.Sprintf("PRODUTO_REMOVIDO %s", id))
	}
	return nil
}

// invalidarCache varre e remove todas as chaves de listagem. SCAN em vez de
// KEYS para não bloquear o Redis.
func (s *produtoService) invalidarCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	iter := s.rdb.Scan(ctx, 0, cacheListaProdutos+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warn().Err(err).Str("key", iter.Val()).Msg("cache de produtos: falha ao invalidar")
		}
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Msg("cache de produtos: falha no scan de invalidação")
	}
}

func produtoToResponse(p *model.Produto) *dto.ProdutoResponse {
	resp := &dto.ProdutoResponse{
		ID:        p.ID.String(),
		Nome:      p.Nome,
		Codigo:    p.Codigo,
		Preco:     p.Preco,
		Estoque:   p.Estoque,
		CreatedAt: fmtTime(p.CreatedAt),
	}
	if p.Categoria != nil {
		resp.Categoria = &dto.CategoriaResponse{ID: p.Categoria.ID.String(), Nome: p.Categoria.Nome}
	}
	return resp
}
