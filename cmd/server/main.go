package main

import (
	"context"
	"fmt"

	"github.com/avolkhin/go-sync-vault/internal/config"
	handlerhttp "github.com/avolkhin/go-sync-vault/internal/handler/http"
	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/internal/server"
	"github.com/avolkhin/go-sync-vault/internal/service"
	"github.com/avolkhin/go-sync-vault/internal/store"
	"github.com/avolkhin/go-sync-vault/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("sync-vault-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = migrations.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	chunks, err := newChunkStore(ctx, cfg.Storage.Chunks)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating chunk store")
	}

	storages := store.NewStorages(db, chunks, log)
	services := service.NewServices(storages, cfg.Auth, log)
	handler := handlerhttp.NewHandler(services, log)

	srv := server.NewServer(handler.Init(), cfg.Server, log)
	if err = srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func newChunkStore(ctx context.Context, cfg config.Chunks) (store.ChunkStore, error) {
	if cfg.Backend == config.ChunkBackendS3 {
		return store.NewS3ChunkStore(ctx, cfg)
	}
	return store.NewFSChunkStore(cfg.Dir)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
