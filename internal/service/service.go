package service

import (
	"gatortrader/internal/config"
	"gatortrader/internal/repository"
)

type Service struct {
	Post    PostService
	Message MessageService
}

func NewService(repo *repository.Repository, cfg *config.Config) *Service {
	return &Service{
		Post:    NewPostService(repo.Post, repo.Category, cfg),
		Message: NewMessageService(repo.Message, cfg),
	}
}
