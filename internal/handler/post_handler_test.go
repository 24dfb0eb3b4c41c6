package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gatortrader/internal/config"
	"gatortrader/internal/models"
	"gatortrader/internal/repository"
	"gatortrader/internal/service"
)

func floatPtr(v float64) *float64 { return &v }

func newTestHandlers(postService *MockPostService, messageService *MockMessageService) *Handlers {
	return &Handlers{
		PostService:    postService,
		MessageService: messageService,
		Cfg:            &config.Config{PageSize: 20},
		Validate:       validator.New(),
	}
}

func asModerator(req *http.Request) *http.Request {
	ctx := context.WithValue(req.Context(), ContextKeyUserID, int64(1))
	ctx = context.WithValue(ctx, ContextKeyRole, RoleModerator)
	return req.WithContext(ctx)
}

func TestRecentPostHandler(t *testing.T) {
	t.Run("no accepted posts serializes as null", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newTestHandlers(postService, new(MockMessageService))

		postService.On("GetLatestApprovedPost", mock.Anything).Return(nil, nil)

		rr := httptest.NewRecorder()
		handler.RecentPost(rr, httptest.NewRequest(http.MethodGet, "/api/post/recent", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "null\n", rr.Body.String())
	})
}

func TestSearchPostsHandler(t *testing.T) {
	t.Run("passes every query parameter through", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newTestHandlers(postService, new(MockMessageService))

		postService.On("SearchPosts", mock.Anything, repository.SearchQuery{
			Name:      "bike",
			Category:  "3",
			Page:      "2",
			Sort:      "price",
			Direction: "desc",
		}).Return([]*models.Post{{ID: 1, PostStatus: models.StatusAccepted}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/post/search?name=bike&category=3&page=2&sort=price&direction=desc", nil)
		rr := httptest.NewRecorder()
		handler.SearchPosts(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var posts []map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &posts))
		require.Len(t, posts, 1)
		assert.Equal(t, float64(1), posts[0]["id"])
		postService.AssertExpectations(t)
	})

	t.Run("non-numeric category is a bad request", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newTestHandlers(postService, new(MockMessageService))

		postService.On("SearchPosts", mock.Anything, mock.Anything).
			Return(nil, &repository.InvalidQueryError{Param: "category", Value: "bikes"})

		rr := httptest.NewRecorder()
		handler.SearchPosts(rr, httptest.NewRequest(http.MethodGet, "/api/post/search?category=bikes", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetPostHandler(t *testing.T) {
	t.Run("unknown post is a 404", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newTestHandlers(postService, new(MockMessageService))

		postService.On("GetPost", mock.Anything, int64(99)).
			Return(nil, &repository.NotFoundError{Entity: "post", ID: 99})

		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/post/99", nil), map[string]string{"id": "99"})
		rr := httptest.NewRecorder()
		handler.GetPost(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("non-numeric id is rejected before the service", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newTestHandlers(postService, new(MockMessageService))

		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/post/abc", nil), map[string]string{"id": "abc"})
		rr := httptest.NewRecorder()
		handler.GetPost(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		postService.AssertNotCalled(t, "GetPost", mock.Anything, mock.Anything)
	})
}

func TestCreatePostHandler(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		mockSetup      func(*MockPostService)
		expectedStatus int
		shouldCallMock bool
	}{
		{
			name: "valid payload creates a pending post",
			requestBody: map[string]interface{}{
				"user_id":     7,
				"category_id": 3,
				"post_title":  "Used bicycle",
				"price":       125.50,
			},
			mockSetup: func(postService *MockPostService) {
				postService.On("CreatePost", mock.Anything, service.CreatePostRequest{
					UserID:     7,
					CategoryID: 3,
					Title:      "Used bicycle",
					Price:      floatPtr(125.50),
				}).Return(&models.Post{ID: 11, PostTitle: "Used bicycle", PostStatus: models.StatusPending, Price: floatPtr(125.50)}, nil)
			},
			expectedStatus: http.StatusCreated,
			shouldCallMock: true,
		},
		{
			name: "missing price is rejected before the service",
			requestBody: map[string]interface{}{
				"user_id":     7,
				"category_id": 3,
				"post_title":  "Used bicycle",
			},
			mockSetup:      func(postService *MockPostService) {},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
		{
			name: "explicit zero price is accepted",
			requestBody: map[string]interface{}{
				"user_id":     7,
				"category_id": 3,
				"post_title":  "Free mattress",
				"price":       0,
			},
			mockSetup: func(postService *MockPostService) {
				postService.On("CreatePost", mock.Anything, service.CreatePostRequest{
					UserID:     7,
					CategoryID: 3,
					Title:      "Free mattress",
					Price:      floatPtr(0),
				}).Return(&models.Post{ID: 12, PostTitle: "Free mattress", PostStatus: models.StatusPending, Price: floatPtr(0)}, nil)
			},
			expectedStatus: http.StatusCreated,
			shouldCallMock: true,
		},
		{
			name: "missing title is rejected before the service",
			requestBody: map[string]interface{}{
				"user_id":     7,
				"category_id": 3,
				"price":       125.50,
			},
			mockSetup:      func(postService *MockPostService) {},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postService := new(MockPostService)
			handler := newTestHandlers(postService, new(MockMessageService))
			tt.mockSetup(postService)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/post/create", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			rr := httptest.NewRecorder()
			handler.CreatePost(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)

			if tt.shouldCallMock {
				postService.AssertExpectations(t)
			} else {
				postService.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestPendingPostsHandler(t *testing.T) {
	t.Run("without the moderator role", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newTestHandlers(postService, new(MockMessageService))

		rr := httptest.NewRecorder()
		handler.PendingPosts(rr, httptest.NewRequest(http.MethodGet, "/api/post/pending", nil))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		postService.AssertNotCalled(t, "GetPendingPosts", mock.Anything, mock.Anything)
	})

	t.Run("moderator sees the queue", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newTestHandlers(postService, new(MockMessageService))

		postService.On("GetPendingPosts", mock.Anything, 1).
			Return([]*models.Post{{ID: 2, PostStatus: models.StatusPending}}, nil)

		req := asModerator(httptest.NewRequest(http.MethodGet, "/api/post/pending", nil))
		rr := httptest.NewRecorder()
		handler.PendingPosts(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		postService.AssertExpectations(t)
	})
}

func TestChangePostStatusHandler(t *testing.T) {
	t.Run("missing capability is forbidden", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newTestHandlers(postService, new(MockMessageService))

		postService.On("ChangePostStatus", mock.Anything, mock.Anything, int64(42), models.StatusAccepted).
			Return(service.ErrModeratorRequired)

		req := httptest.NewRequest(http.MethodPost, "/api/post/statusChange?post_id=42&status=accepted", nil)
		rr := httptest.NewRecorder()
		handler.ChangePostStatus(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("already moderated post is a conflict", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newTestHandlers(postService, new(MockMessageService))

		postService.On("ChangePostStatus", mock.Anything, mock.Anything, int64(42), models.StatusRejected).
			Return(service.ErrModerationConflict)

		req := asModerator(httptest.NewRequest(http.MethodPost, "/api/post/statusChange?post_id=42&status=rejected", nil))
		rr := httptest.NewRecorder()
		handler.ChangePostStatus(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("moderator transitions a pending post", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newTestHandlers(postService, new(MockMessageService))

		postService.On("ChangePostStatus", mock.Anything, mock.Anything, int64(42), models.StatusAccepted).
			Return(nil)

		req := asModerator(httptest.NewRequest(http.MethodPost, "/api/post/statusChange?post_id=42&status=accepted", nil))
		rr := httptest.NewRecorder()
		handler.ChangePostStatus(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var response map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Equal(t, models.StatusAccepted, response["post_status"])
		postService.AssertExpectations(t)
	})
}

type stubHealth struct{ err error }

func (s stubHealth) HealthCheck() error { return s.err }

func TestHealthHandler(t *testing.T) {
	t.Run("healthy database", func(t *testing.T) {
		handler := newTestHandlers(new(MockPostService), new(MockMessageService))
		handler.Health = stubHealth{}

		rr := httptest.NewRecorder()
		handler.HealthHandler(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unreachable database", func(t *testing.T) {
		handler := newTestHandlers(new(MockPostService), new(MockMessageService))
		handler.Health = stubHealth{err: errors.New("connection refused")}

		rr := httptest.NewRecorder()
		handler.HealthHandler(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}
