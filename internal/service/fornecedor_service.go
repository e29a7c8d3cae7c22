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

type FornecedorService interface {
	Criar(ctx context.Context, usuarioID uuid.UUID, req dto.FornecedorRequest) (*dto.FornecedorResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.FornecedorResponse, error)
	Listar(ctx context.Context, incluirInativos bool) ([]dto.FornecedorResponse, error)
	Atualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.FornecedorRequest) (*dto.FornecedorResponse, error)
	Desativar(ctx context.Context, usuarioID, id uuid.UUID) error
}

type fornecedorService struct {
	repo  repository.FornecedorRepository
	audit AuditSink
}

func NewFornecedorService(repo repository.FornecedorRepository, audit AuditSink) FornecedorService {
	return &fornecedorService{repo: repo, audit: audit}
}

func (s *fornecedorService) Criar(ctx context.Context, usuarioID uuid.UUID, req dto.FornecedorRequest) (*dto.FornecedorResponse, error) {
	if req.CNPJ != nil && *req.CNPJ != "" {
		if _, err := s.repo.FindByCNPJ(ctx, *req.CNPJ); err == nil {
			return nil, apperror.Conflict(fmt.Sprintf("Já existe fornecedor com o CNPJ %s", *req.CNPJ))
		}
	}

	f := &model.Fornecedor{
		Nome:     req.Nome,
		CNPJ:     req.CNPJ,
		Telefone: req.Telefone,
		Email:    req.Email,
		Endereco: req.Endereco,
		Ativo:    true,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("CNPJ já cadastrado")
		}
		return nil, err
	}
	if s.audit != nil {
		s.audit.Registrar(ctx, usuarioID, fmt.Sprintf("FORNECEDOR_CRIADO %s", f.ID))
	}
	return fornecedorToResponse(f), nil
}

func (s *fornecedorService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.FornecedorResponse, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Fornecedor não encontrado")
		}
		return nil, err
	}
	return fornecedorToResponse(f), nil
}

func (s *fornecedorService) Listar(ctx context.Context, incluirInativos bool) ([]dto.FornecedorResponse, error) {
	fornecedores, err := s.repo.List(ctx, incluirInativos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.FornecedorResponse, 0, len(fornecedores))
	for i := range fornecedores {
		resp = append(resp, *fornecedorToResponse(&fornecedores[i]))
	}
	return resp, nil
}

func (s *fornecedorService) Atualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.FornecedorRequest) (*dto.FornecedorResponse, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Fornecedor não encontrado")
		}
		return nil, err
	}
	if req.CNPJ != nil && *req.CNPJ != "" {
		if outro, err := s.repo.FindByCNPJ(ctx, *req.CNPJ); err == nil && outro.ID != f.ID {
			return nil, apperror.Conflict(fmt.Sprintf("Já existe fornecedor com o CNPJ %s", *req.CNPJ))
		}
	}

	f.Nome = req.Nome
	f.CNPJ = req.CNPJ
	f.Telefone = req.Telefone
	f.Email = req.Email
	f.Endereco = req.Endereco
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	if s.audit != nil {
		s.audit.Registrar(ctx, usuarioID, fmt.Sprintf("FORNECEDOR_ATUALIZADO %s", f.ID))
	}
	return fornecedorToResponse(f), nil
}

func (s *fornecedorService) Desativar(ctx context.Context, usuarioID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Fornecedor não encontrado")
		}
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		s.audit.Registrar(ctx, usuarioID, fmt.Sprintf("FORNECEDOR_DESATIVADO %s", id))
	}
	return nil
}

func fornecedorToResponse(f *model.Fornecedor) *dto.FornecedorResponse {
	return &dto.FornecedorResponse{
		ID:       f.ID.String(),
		Nome:     f.Nome,
		CNPJ:     f.CNPJ,
		Telefone: f.Telefone,
		Email:    f.Email,
		Endereco: f.Endereco,
		Ativo:    f.Ativo,
	}
}
