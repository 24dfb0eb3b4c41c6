package service

import (
	"context"

	"gatortrader/internal/config"
	"gatortrader/internal/models"
	"gatortrader/internal/repository"
)

type SendMessageRequest struct {
	SenderID    int64
	RecipientID int64
	PostID      int64
	Body        string
}

type MessageService interface {
	SendMessage(ctx context.Context, req SendMessageRequest) (*models.Message, error)
	GetMessage(ctx context.Context, id int64) (*models.Message, error)
	GetPostMessages(ctx context.Context, postID int64) ([]*models.Message, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	cfg         *config.Config
}

func NewMessageService(messageRepo repository.MessageRepository, cfg *config.Config) MessageService {
	return &messageService{messageRepo: messageRepo, cfg: cfg}
}

func (s *messageService) SendMessage(ctx context.Context, req SendMessageRequest) (*models.Message, error) {
	message := &models.Message{
		SenderID:    req.SenderID,
		RecipientID: req.RecipientID,
		PostID:      req.PostID,
		MessageBody: req.Body,
	}

	return s.messageRepo.Insert(ctx, message)
}

func (s *messageService) GetMessage(ctx context.Context, id int64) (*models.Message, error) {
	return s.messageRepo.GetByID(ctx, id)
}

func (s *messageService) GetPostMessages(ctx context.Context, postID int64) ([]*models.Message, error) {
	return s.messageRepo.GetByPostID(ctx, postID)
}
