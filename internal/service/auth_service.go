package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/apperror"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/config"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/dto"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	Me(ctx context.Context, usuarioID uuid.UUID) (*dto.UsuarioResponse, error)
	CriarUsuario(ctx context.Context, adminID uuid.UUID, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, incluirInativos bool) ([]dto.UsuarioResponse, error)
	AtualizarUsuario(ctx context.Context, adminID, id uuid.UUID, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	DesativarUsuario(ctx context.Context, adminID, id uuid.UUID) error
	ReativarUsuario(ctx context.Context, adminID, id uuid.UUID) error
}

type authService struct {
	repo  repository.UsuarioRepository
	cfg   *config.Config
	audit AuditSink
	now   func() time.Time
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config, audit AuditSink) AuthService {
	return &authService{repo: repo, cfg: cfg, audit: audit, now: time.Now}
}

var errCredenciais = apperror.Unauthorized("Credenciais inválidas")

// Login autentica por e-mail e senha, com bloqueio temporário após
// tentativas consecutivas falhas.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Mesma resposta para e-mail inexistente e senha errada.
		return nil, errCredenciais
	}
	if !user.Ativo {
		return nil, errCredenciais
	}

	agora := s.now()
	if user.BloqueadoAte != nil && user.BloqueadoAte.After(agora) {
		return nil, apperror.New(http.StatusTooManyRequests, apperror.CodeUsuarioBloqueado,
			fmt.Sprintf("Usuário bloqueado até %s", user.BloqueadoAte.UTC().Format(time.RFC3339)))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(req.Senha)); err != nil {
		user.TentativasLogin++
		if user.TentativasLogin >= s.cfg.LoginMaxAttempts {
			ate := agora.Add(time.Duration(s.cfg.LoginBlockMinutes) * time.Minute)
			user.BloqueadoAte = &ate
			user.TentativasLogin = 0
		}
		_ = s.repo.Update(ctx, user)
		return nil, errCredenciais
	}

	// Sucesso zera o contador e qualquer bloqueio expirado.
	if user.TentativasLogin != 0 || user.BloqueadoAte != nil {
		user.TentativasLogin = 0
		user.BloqueadoAte = nil
		_ = s.repo.Update(ctx, user)
	}

	if s.audit != nil {
		s.audit.Registrar(ctx, user.ID, "LOGIN")
	}
	return s.buildLoginResponse(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, apperror.Unauthorized("Refresh token inválido ou expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.Unauthorized("Token malformado")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, apperror.Unauthorized("Token malformado")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, apperror.Unauthorized("Token malformado")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Ativo {
		return nil, apperror.Unauthorized("Usuário não encontrado ou inativo")
	}
	return s.buildLoginResponse(user)
}

func (s *authService) Me(ctx context.Context, usuarioID uuid.UUID) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Usuário não encontrado")
		}
		return nil, err
	}
	return usuarioToResponse(user), nil
}

func (s *authService) CriarUsuario(ctx context.Context, adminID uuid.UUID, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Conflict(fmt.Sprintf("Já existe usuário com o e-mail %s", req.Email))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Senha), 12)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Email:     req.Email,
		Nome:      req.Nome,
		SenhaHash: string(hash),
		Role:      req.Role,
		Ativo:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("E-mail já cadastrado")
		}
		return nil, err
	}
	if s.audit != nil {
		s.audit.Registrar(ctx, adminID, fmt.Sprintf("USUARIO_CRIADO %s", user.ID))
	}
	return usuarioToResponse(user), nil
}

func (s *authService) ListarUsuarios(ctx context.Context, incluirInativos bool) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx, incluirInativos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, 0, len(users))
	for i := range users {
		resp = append(resp, *usuarioToResponse(&users[i]))
	}
	return resp, nil
}

func (s *authService) AtualizarUsuario(ctx context.Context, adminID, id uuid.UUID, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Usuário não encontrado")
		}
		return nil, err
	}

	if req.Nome != "" {
		user.Nome = req.Nome
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Senha != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Senha), 12)
		if err != nil {
			return nil, err
		}
		user.SenhaHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	if s.audit != nil {
		s.audit.Registrar(ctx, adminID, fmt.Sprintf("USUARIO_ATUALIZADO %s", user.ID))
	}
	return usuarioToResponse(user), nil
}

func (s *authService) DesativarUsuario(ctx context.Context, adminID, id uuid.UUID) error {
	if adminID == id {
		return apperror.Conflict("Usuário não pode desativar a si mesmo")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Usuário não encontrado")
		}
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		s.audit.Registrar(ctx, adminID, fmt.Sprintf("USUARIO_DESATIVADO %s", id))
	}
	return nil
}

func (s *authService) ReativarUsuario(ctx context.Context, adminID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Usuário não encontrado")
		}
		return err
	}
	if err := s.repo.Reativar(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		s.audit.Registrar(ctx, adminID, fmt.Sprintf("USUARIO_REATIVADO %s", id))
	}
	return nil
}

func (s *authService) buildLoginResponse(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		Usuario:      *usuarioToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, ttl time.Duration) (string, error) {
	agora := s.now()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role,
		"iat":     agora.Unix(),
		"exp":     agora.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) *dto.UsuarioResponse {
	return &dto.UsuarioResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Nome:  u.Nome,
		Role:  u.Role,
		Ativo: u.Ativo,
	}
}
