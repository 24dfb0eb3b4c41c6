package app

import (
	"log"

	"gatortrader/internal/config"
	"gatortrader/internal/database"
	"gatortrader/internal/repository"
	"gatortrader/internal/service"
	"gatortrader/internal/storage"
)

// App builds the dependency graph: database, repositories, services and the
// image store collaborator.
func App(cfg *config.Config) (*database.DB, *repository.Repository, *service.Service, storage.ImageStore) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	imageStore, err := storage.NewMinIOClient(cfg)
	if err != nil {
		log.Fatalf("failed to initialize MinIO: %v", err)
	}

	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg)

	return db, repo, services, imageStore
}
