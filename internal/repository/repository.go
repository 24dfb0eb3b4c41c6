package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gatortrader/internal/models"
)

type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	GetMultiple(ctx context.Context, filters FilterSet) ([]*models.Post, error)
	Insert(ctx context.Context, post *models.Post) (*models.Post, error)
	ChangeStatus(ctx context.Context, id int64, fromStatus, toStatus string) (bool, error)
	SetNumberOfImages(ctx context.Context, id int64, numberOfImages int) error
}

type MessageRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	GetByPostID(ctx context.Context, postID int64) ([]*models.Message, error)
	Insert(ctx context.Context, message *models.Message) (*models.Message, error)
}

type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetAll(ctx context.Context) ([]*models.Category, error)
}

// Repository bundles the concrete repositories behind one constructor, the
// way the services consume them.
type Repository struct {
	Post     PostRepository
	Message  MessageRepository
	Category CategoryRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	gateway := NewGateway(db)

	return &Repository{
		Post:     NewPostRepository(gateway),
		Message:  NewMessageRepository(gateway),
		Category: NewCategoryRepository(gateway),
	}
}
