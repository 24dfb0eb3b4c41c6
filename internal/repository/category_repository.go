package repository

import (
	"context"
	"strings"
	"time"

	"gatortrader/internal/models"
)

// categoryDescriptor: categories are reference data; nothing in this layer
// ever inserts one, but the descriptor keeps the capability complete.
type categoryDescriptor struct{}

func (categoryDescriptor) Table() string { return "category" }

func (categoryDescriptor) MapRow(row map[string]interface{}) (*models.Category, error) {
	return models.MapCategoryRow(row)
}

func (categoryDescriptor) Validate(category *models.Category) error {
	if strings.TrimSpace(category.CategoryName) == "" {
		return &ValidationError{Field: "category_name", Reason: "must not be empty"}
	}
	return nil
}

func (categoryDescriptor) StampNew(category *models.Category, now time.Time) {}

func (categoryDescriptor) InsertValues(category *models.Category) map[string]interface{} {
	return map[string]interface{}{
		"category_name": category.CategoryName,
	}
}

func (categoryDescriptor) AssignID(category *models.Category, id int64) { category.ID = id }

type CategoryRepositoryImpl struct {
	gateway    *Gateway
	descriptor EntityDescriptor[*models.Category]
}

func NewCategoryRepository(gateway *Gateway) *CategoryRepositoryImpl {
	return &CategoryRepositoryImpl{gateway: gateway, descriptor: categoryDescriptor{}}
}

func (r *CategoryRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	return GetSingleRowByID(ctx, r.gateway, r.descriptor, id)
}

func (r *CategoryRepositoryImpl) GetAll(ctx context.Context) ([]*models.Category, error) {
	filters := FilterSet{Sort: "id", Direction: DirectionAsc}
	return GetMultipleByFilters(ctx, r.gateway, r.descriptor, filters)
}
