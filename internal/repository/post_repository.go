package repository

import (
	"context"
	"strings"
	"time"

	"gatortrader/internal/models"
)

// postDescriptor supplies the Post entity's capabilities to the generic
// gateway: table name, row mapper and the required-field contract.
type postDescriptor struct{}

func (postDescriptor) Table() string { return "post" }

func (postDescriptor) MapRow(row map[string]interface{}) (*models.Post, error) {
	return models.MapPostRow(row)
}

func (postDescriptor) Validate(post *models.Post) error {
	if strings.TrimSpace(post.PostTitle) == "" {
		return &ValidationError{Field: "post_title", Reason: "must not be empty"}
	}
	if post.Price == nil {
		return &ValidationError{Field: "price", Reason: "is required"}
	}
	if *post.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if post.UserID <= 0 {
		return &ValidationError{Field: "user_id", Reason: "must reference the owner"}
	}
	if post.CategoryID <= 0 {
		return &ValidationError{Field: "category_id", Reason: "must reference a category"}
	}
	if post.NumberOfImages < 0 {
		return &ValidationError{Field: "number_of_images", Reason: "must not be negative"}
	}
	switch post.PostStatus {
	case models.StatusPending, models.StatusAccepted, models.StatusRejected:
	default:
		return &ValidationError{Field: "post_status", Reason: "must be pending, accepted or rejected"}
	}
	return nil
}

func (postDescriptor) StampNew(post *models.Post, now time.Time) {
	post.CreateDate = now
	post.LastRevised = now
}

func (postDescriptor) InsertValues(post *models.Post) map[string]interface{} {
	return map[string]interface{}{
		"user_id":             post.UserID,
		"category_id":         post.CategoryID,
		"create_date":         post.CreateDate,
		"last_revised":        post.LastRevised,
		"post_title":          post.PostTitle,
		"post_description":    post.PostDescription,
		"post_status":         post.PostStatus,
		"price":               *post.Price,
		"is_price_negotiable": post.IsPriceNegotiable,
		"number_of_images":    post.NumberOfImages,
	}
}

func (postDescriptor) AssignID(post *models.Post, id int64) { post.ID = id }

type PostRepositoryImpl struct {
	gateway    *Gateway
	descriptor EntityDescriptor[*models.Post]
}

func NewPostRepository(gateway *Gateway) *PostRepositoryImpl {
	return &PostRepositoryImpl{gateway: gateway, descriptor: postDescriptor{}}
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return GetSingleRowByID(ctx, r.gateway, r.descriptor, id)
}

func (r *PostRepositoryImpl) GetMultiple(ctx context.Context, filters FilterSet) ([]*models.Post, error) {
	return GetMultipleByFilters(ctx, r.gateway, r.descriptor, filters)
}

func (r *PostRepositoryImpl) Insert(ctx context.Context, post *models.Post) (*models.Post, error) {
	return InsertNewRecord(ctx, r.gateway, r.descriptor, post)
}

// ChangeStatus moves a post from one status to another in a single
// conditional update, so a post that already left fromStatus is never
// touched. Reports whether the transition happened.
func (r *PostRepositoryImpl) ChangeStatus(ctx context.Context, id int64, fromStatus, toStatus string) (bool, error) {
	updates := map[string]interface{}{
		"post_status":  toStatus,
		"last_revised": time.Now().UTC(),
	}
	filters := FilterSet{Filters: []Filter{
		{Column: "id", Op: "=", Value: id},
		{Column: "post_status", Op: "=", Value: fromStatus},
	}}

	affected, err := UpdateWhere(ctx, r.gateway, r.descriptor, updates, filters)
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// SetNumberOfImages records how many image files are physically associated
// with the post. The upload subsystem calls this after storing a file so
// the count stays authoritative.
func (r *PostRepositoryImpl) SetNumberOfImages(ctx context.Context, id int64, numberOfImages int) error {
	updates := map[string]interface{}{
		"number_of_images": numberOfImages,
		"last_revised":     time.Now().UTC(),
	}
	filters := FilterSet{Filters: []Filter{
		{Column: "id", Op: "=", Value: id},
	}}

	affected, err := UpdateWhere(ctx, r.gateway, r.descriptor, updates, filters)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &NotFoundError{Entity: "post", ID: id}
	}

	return nil
}
