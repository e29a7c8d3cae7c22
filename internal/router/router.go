package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/config"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/handler"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/middleware"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/model"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/repository"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/service"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/worker"
)

// New monta o grafo de dependências e devolve o engine Gin configurado.
// Grafo: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Cadeia global de middleware (ordem importa)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Repositórios ──────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	fornecedorRepo := repository.NewFornecedorRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)
	vendaRepo := repository.NewVendaRepository(db)

	// ── Services ──────────────────────────────────────────────────────────
	dispatcher := worker.NewDispatcher(rdb)
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second

	authSvc := service.NewAuthService(usuarioRepo, cfg, dispatcher)
	categoriaSvc := service.NewCategoriaService(categoriaRepo, dispatcher)
	produtoSvc := service.NewProdutoService(produtoRepo, rdb, dispatcher, cacheTTL)
	fornecedorSvc := service.NewFornecedorService(fornecedorRepo, dispatcher)
	caixaSvc := service.NewCaixaService(caixaRepo, dispatcher)
	vendaSvc := service.NewVendaService(vendaRepo, produtoRepo, caixaRepo, caixaSvc, dispatcher)

	// ── Handlers ──────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuarioHandler(authSvc)
	categoriasH := handler.NewCategoriaHandler(categoriaSvc)
	produtosH := handler.NewProdutoHandler(produtoSvc)
	fornecedoresH := handler.NewFornecedorHandler(fornecedorSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc)
	vendasH := handler.NewVendaHandler(vendaSvc, vendaRepo)

	// ── Rotas ─────────────────────────────────────────────────────────────

	// Públicas
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protegidas
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	operacao := middleware.RequireRole(model.RoleOperador, model.RoleAdmin)
	admin := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", authH.Me)

		caixa := v1.Group("/caixa", operacao)
		{
			caixa.POST("/abrir", caixaH.Abrir)
			caixa.GET("/ativo", caixaH.Ativo)
			caixa.GET("/indicadores", caixaH.Indicadores)
			caixa.POST("/suprimento", caixaH.Suprimento)
			caixa.POST("/sangria", caixaH.Sangria)
			caixa.POST("/fechamento/preview", caixaH.PreverFechamento)
			caixa.POST("/fechar", caixaH.Fechar)
			caixa.GET("/historico", caixaH.Historico)
		}
		// Limpeza de histórico é destrutiva — só ADMIN.
		v1.DELETE("/caixa/historico", admin, caixaH.LimparHistorico)

		vendas := v1.Group("/vendas", operacao)
		{
			vendas.POST("", vendasH.Registrar)
			vendas.GET("", vendasH.Listar)
			vendas.GET("/:id", vendasH.Obter)
			vendas.GET("/:id/cupom", vendasH.Cupom)
		}

		// Catálogo: leitura para operação, escrita só ADMIN.
		v1.GET("/produtos", operacao, produtosH.Listar)
		v1.GET("/produtos/:id", operacao, produtosH.Obter)
		v1.GET("/produtos/codigo/:codigo", operacao, produtosH.ObterPorCodigo)
		produtos := v1.Group("/produtos", admin)
		{
			produtos.POST("", produtosH.Criar)
			produtos.PUT("/:id", produtosH.Atualizar)
			produtos.DELETE("/:id", produtosH.Remover)
		}

		v1.GET("/categorias", operacao, categoriasH.Listar)
		categorias := v1.Group("/categorias", admin)
		{
			categorias.POST("", categoriasH.Criar)
			categorias.PUT("/:id", categoriasH.Atualizar)
			categorias.DELETE("/:id", categoriasH.Remover)
		}

		fornecedores := v1.Group("/fornecedores", admin)
		{
			fornecedores.POST("", fornecedoresH.Criar)
			fornecedores.GET("", fornecedoresH.Listar)
			fornecedores.GET("/:id", fornecedoresH.Obter)
			fornecedores.PUT("/:id", fornecedoresH.Atualizar)
			fornecedores.DELETE("/:id", fornecedoresH.Desativar)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Criar)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Atualizar)
			usuarios.DELETE("/:id", usuariosH.Desativar)
			usuarios.POST("/:id/reativar", usuariosH.Reativar)
		}
	}

	// Swagger fora de produção
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
