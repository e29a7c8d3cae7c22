package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/JoaoGabrielll7/pdvconveniencia/internal/config"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/infra"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/repository"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/router"
	"github.com/JoaoGabrielll7/pdvconveniencia/internal/worker"
)

// @title PDV Conveniência API
// @version 1.0
// @description Backend de ponto de venda para loja de conveniência.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("falha ao carregar configuração")
	}
	if cfg.Env == "production" {
		// JSON puro em produção
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("falha ao conectar no postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("falha ao conectar no redis")
	}

	// Pool de workers da trilha de auditoria: consome a fila Redis e
	// persiste os eventos sem atrasar as requisições.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	auditRepo := repository.NewAuditRepository(db)
	worker.StartWorkerPool(ctx, rdb, auditRepo, cfg.WorkerPoolSize)

	r := router.New(cfg, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Desligamento gracioso em SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("PDV Conveniência escutando em :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("erro do servidor")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("encerrando servidor…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("desligamento forçado")
	}
	log.Info().Msg("servidor finalizado")
}
