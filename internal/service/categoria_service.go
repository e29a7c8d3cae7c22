package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/apperror"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/dto"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/repository"
)

type CategoriaService interface {
	Criar(ctx context.Context, usuarioID uuid.UUID, req dto.CategoriaRequest) (*dto.CategoriaResponse, error)
	Listar(ctx context.Context) ([]dto.CategoriaResponse, error)
	Atualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.CategoriaRequest) (*dto.CategoriaResponse, error)
	Remover(ctx context.Context, usuarioID, id uuid.UUID) error
}

type categoriaService struct {
	repo  repository.CategoriaRepository
	audit AuditSink
}

func NewCategoriaService(repo repository.CategoriaRepository, audit AuditSink) CategoriaService {
	return &categoriaService{repo: repo, audit: audit}
}

func (s *categoriaService) Criar(ctx context.Context, usuarioID uuid.UUID, req dto.CategoriaRequest) (*dto.CategoriaResponse, error) {
	if _, err := s.repo.FindByNome(ctx, req.Nome); err == nil {
		return nil, apperror.Conflict(fmt.Sprintf("Categoria %q já existe", req.Nome))
	}

	c := &model.Categoria{Nome: req.Nome}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict(fmt.Sprintf("Categoria %q já existe", req.Nome))
		}
		return nil, err
	}
	if s.audit != nil {
		s.audit.Registrar(ctx, usuarioID, fmt.Sprintf("CATEGORIA_CRIADA %s", c.ID))
	}
	return &dto.CategoriaResponse{ID: c.ID.String(), Nome: c.Nome}, nil
}

func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaResponse, error) {
	categorias, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoriaResponse, 0, len(categorias))
	for _, c := range categorias {
		resp = append(resp, dto.CategoriaResponse{ID: c.ID.String(), Nome: c.Nome})
	}
	return resp, nil
}

func (s *categoriaService) Atualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.CategoriaRequest) (*dto.CategoriaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Categoria não encontrada")
		}
		return nil, err
	}
	if outra, err := s.repo.FindByNome(ctx, req.Nome); err == nil && outra.ID != c.ID {
		return nil, apperror.Conflict(fmt.Sprintf("Categoria %q já existe", req.Nome))
	}

	c.Nome = req.Nome
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	if s.audit != nil {
		s.audit.Registrar(ctx, usuarioID, fmt.Sprintf("CATEGORIA_ATUALIZADA %s", c.ID))
	}
	return &dto.CategoriaResponse{ID: c.ID.String(), Nome: c.Nome}, nil
}

// Remover recusa categorias com produtos vinculados; o chamador deve mover os
// produtos antes.
func (s *categoriaService) Remover(ctx context.Context, usuarioID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Categoria não encontrada")
		}
		return err
	}

	n, err := s.repo.CountProdutos(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.Conflict("Categoria possui produtos vinculados e não pode ser removida")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		s.audit.Registrar(ctx, usuarioID, fmt.Sprintf("CATEGORIA_REMOVIDA %s", id))
	}
	return nil
}
