package service

import (
	"context"
	"errors"

	"gatortrader/internal/config"
	"gatortrader/internal/models"
	"gatortrader/internal/repository"
)

// ErrModerationConflict means the status transition was not applied: the
// post does not exist or already left the pending state.
var ErrModerationConflict = errors.New("post does not exist or was already moderated")

// ErrModeratorRequired means a moderation operation was called without a
// moderator capability.
var ErrModeratorRequired = errors.New("moderator capability required")

// Moderator is the capability required to change a post's status. How a
// caller obtains one is the integrator's concern; the transport layer mints
// it from an authenticated moderator role.
type Moderator interface {
	ModeratorID() int64
}

// CreatePostRequest carries the attributes of a new listing. Price is a
// pointer so an absent price stays distinguishable from an explicit zero;
// an unset price fails validation instead of silently creating a free
// listing.
type CreatePostRequest struct {
	UserID            int64
	CategoryID        int64
	Title             string
	Description       string
	Price             *float64
	IsPriceNegotiable bool
}

type PostService interface {
	GetLatestApprovedPost(ctx context.Context) (*models.Post, error)
	SearchPosts(ctx context.Context, query repository.SearchQuery) ([]*models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error)
	GetPendingPosts(ctx context.Context, page int) ([]*models.Post, error)
	ChangePostStatus(ctx context.Context, moderator Moderator, postID int64, newStatus string) error
	RecordImageUpload(ctx context.Context, postID int64, imageNumber int) error
}

type postService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	cfg          *config.Config
}

func NewPostService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository, cfg *config.Config) PostService {
	return &postService{postRepo: postRepo, categoryRepo: categoryRepo, cfg: cfg}
}

// GetLatestApprovedPost returns the most recently created accepted post.
// No accepted posts is not an error; the result is simply nil.
func (s *postService) GetLatestApprovedPost(ctx context.Context) (*models.Post, error) {
	filters := repository.FilterSet{
		Filters:   []repository.Filter{{Column: "post_status", Op: "=", Value: models.StatusAccepted}},
		Sort:      "create_date",
		Direction: repository.DirectionDesc,
		Limit:     1,
	}

	posts, err := s.postRepo.GetMultiple(ctx, filters)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}

	return posts[0], nil
}

// SearchPosts normalizes the query, fetches the page window and then drops
// everything that is not accepted. Unapproved listings never reach public
// search results, whatever the gateway returned.
func (s *postService) SearchPosts(ctx context.Context, query repository.SearchQuery) ([]*models.Post, error) {
	normalized, err := query.Normalize()
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.GetMultiple(ctx, normalized.FilterSet(s.cfg.PageSize))
	if err != nil {
		return nil, err
	}

	approved := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if post.PostStatus == models.StatusAccepted {
			approved = append(approved, post)
		}
	}

	return approved, nil
}

func (s *postService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// GetCategory treats a missing category as an empty one rather than a
// failure.
func (s *postService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return &models.Category{}, nil
		}
		return nil, err
	}

	return category, nil
}

// CreatePost builds a pending candidate and delegates to the gateway
// insert. A candidate that fails validation is never written.
func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	post := &models.Post{
		UserID:            req.UserID,
		CategoryID:        req.CategoryID,
		PostTitle:         req.Title,
		PostDescription:   req.Description,
		Price:             req.Price,
		IsPriceNegotiable: req.IsPriceNegotiable,
		PostStatus:        models.StatusPending,
	}

	return s.postRepo.Insert(ctx, post)
}

// GetPendingPosts lists the moderation queue, oldest first.
func (s *postService) GetPendingPosts(ctx context.Context, page int) ([]*models.Post, error) {
	if page < 1 {
		page = 1
	}

	filters := repository.FilterSet{
		Filters:   []repository.Filter{{Column: "post_status", Op: "=", Value: models.StatusPending}},
		Sort:      "create_date",
		Direction: repository.DirectionAsc,
		Limit:     s.cfg.PageSize,
		Offset:    (page - 1) * s.cfg.PageSize,
	}

	return s.postRepo.GetMultiple(ctx, filters)
}

// ChangePostStatus applies the one allowed transition, pending to accepted
// or rejected, on behalf of a moderator. The transition never reverses and
// is refused for any other target status.
func (s *postService) ChangePostStatus(ctx context.Context, moderator Moderator, postID int64, newStatus string) error {
	if moderator == nil {
		return ErrModeratorRequired
	}
	if newStatus != models.StatusAccepted && newStatus != models.StatusRejected {
		return &repository.ValidationError{Field: "post_status", Reason: "transition target must be accepted or rejected"}
	}

	changed, err := s.postRepo.ChangeStatus(ctx, postID, models.StatusPending, newStatus)
	if err != nil {
		return err
	}
	if !changed {
		return ErrModerationConflict
	}

	return nil
}

// RecordImageUpload keeps number_of_images in step with the files the
// upload subsystem has stored. Image numbers are 1-indexed and contiguous,
// so the latest number is the count.
func (s *postService) RecordImageUpload(ctx context.Context, postID int64, imageNumber int) error {
	if imageNumber < 1 {
		return &repository.ValidationError{Field: "image_number", Reason: "must be at least 1"}
	}

	return s.postRepo.SetNumberOfImages(ctx, postID, imageNumber)
}
