package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gatortrader/internal/repository"
	"gatortrader/internal/service"
)

type CreatePostPayload struct {
	UserID            int64    `json:"user_id" validate:"required,gt=0"`
	CategoryID        int64    `json:"category_id" validate:"required,gt=0"`
	Title             string   `json:"post_title" validate:"required"`
	Description       string   `json:"post_description"`
	Price             *float64 `json:"price" validate:"required,gte=0"`
	IsPriceNegotiable bool     `json:"is_price_negotiable"`
}

// RecentPost returns the most recently created accepted post, or null when
// none exists.
func (h *Handlers) RecentPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.GetLatestApprovedPost(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

// SearchPosts handles /api/post/search. The query parameters are "name",
// "category", "page", "sort" and "direction"; all optional.
func (h *Handlers) SearchPosts(w http.ResponseWriter, r *http.Request) {
	query := repository.SearchQuery{
		Name:      r.URL.Query().Get("name"),
		Category:  r.URL.Query().Get("category"),
		Page:      r.URL.Query().Get("page"),
		Sort:      r.URL.Query().Get("sort"),
		Direction: r.URL.Query().Get("direction"),
	}

	posts, err := h.PostService.SearchPosts(r.Context(), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		WriteError(w, "post id must be numeric", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.GetPost(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["category_id"], 10, 64)
	if err != nil {
		WriteError(w, "category id must be numeric", http.StatusBadRequest)
		return
	}

	category, err := h.PostService.GetCategory(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, category, http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var payload CreatePostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(payload); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), service.CreatePostRequest{
		UserID:            payload.UserID,
		CategoryID:        payload.CategoryID,
		Title:             payload.Title,
		Description:       payload.Description,
		Price:             payload.Price,
		IsPriceNegotiable: payload.IsPriceNegotiable,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, post, http.StatusCreated)
}

// PendingPosts lists the moderation queue. Moderators only.
func (h *Handlers) PendingPosts(w http.ResponseWriter, r *http.Request) {
	if moderatorFrom(r) == nil {
		WriteError(w, "moderator role required", http.StatusForbidden)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	posts, err := h.PostService.GetPendingPosts(r.Context(), page)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, posts, http.StatusOK)
}

// ChangePostStatus handles /api/post/statusChange?post_id=N&status=accepted.
// Posts start pending and are moved to accepted or rejected by a moderator.
func (h *Handlers) ChangePostStatus(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(r.URL.Query().Get("post_id"), 10, 64)
	if err != nil {
		WriteError(w, "post_id must be numeric", http.StatusBadRequest)
		return
	}
	status := r.URL.Query().Get("status")

	if err := h.PostService.ChangePostStatus(r.Context(), moderatorFrom(r), postID, status); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]string{"post_status": status}, http.StatusOK)
}

// UploadPostImage handles /api/post/fileUpload?post_id=N&image_number=M with
// the image bytes as the request body. It stores the file under the
// posts/{id}-{n}.jpg convention and records the new count on the post.
func (h *Handlers) UploadPostImage(w http.ResponseWriter, r *http.Request) {
	if moderatorFrom(r) == nil {
		userID, _ := r.Context().Value(ContextKeyUserID).(int64)
		if userID == 0 {
			WriteError(w, "authentication required", http.StatusUnauthorized)
			return
		}
	}

	postID, err := strconv.ParseInt(r.URL.Query().Get("post_id"), 10, 64)
	if err != nil {
		WriteError(w, "post_id must be numeric", http.StatusBadRequest)
		return
	}
	imageNumber, err := strconv.Atoi(r.URL.Query().Get("image_number"))
	if err != nil || imageNumber < 1 {
		WriteError(w, "image_number must be a positive integer", http.StatusBadRequest)
		return
	}

	objectName, err := h.ImageStore.UploadPostImage(r.Context(), postID, imageNumber, r.Body, r.ContentLength)
	if err != nil {
		WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.PostService.RecordImageUpload(r.Context(), postID, imageNumber); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]string{"image_location": objectName}, http.StatusCreated)
}
