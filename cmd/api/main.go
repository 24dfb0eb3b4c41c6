package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"gatortrader/cmd/app"
	"gatortrader/internal/config"
	handlers "gatortrader/internal/handler"
	"gatortrader/internal/middleware"
)

func main() {
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Println("Warning: JWT_SECRET_KEY is not set, moderation endpoints will reject all tokens")
	}

	db, _, services, imageStore := app.App(cfg)
	defer db.CloseDB()

	handler := handlers.NewHandlers(services, imageStore, db, cfg)

	router := mux.NewRouter()

	router.HandleFunc("/health", handler.HealthHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/post/recent", handler.RecentPost).Methods(http.MethodGet)
	router.HandleFunc("/api/post/search", handler.SearchPosts).Methods(http.MethodGet)
	router.HandleFunc("/api/post/create", handler.CreatePost).Methods(http.MethodPost)
	router.HandleFunc("/api/post/pending", handler.PendingPosts).Methods(http.MethodGet)
	router.HandleFunc("/api/post/statusChange", handler.ChangePostStatus).Methods(http.MethodPost)
	router.HandleFunc("/api/post/fileUpload", handler.UploadPostImage).Methods(http.MethodPost)
	router.HandleFunc("/api/post/{id:[0-9]+}", handler.GetPost).Methods(http.MethodGet)

	router.HandleFunc("/api/category/{category_id:[0-9]+}", handler.GetCategory).Methods(http.MethodGet)

	router.HandleFunc("/api/message", handler.GetMessage).Methods(http.MethodGet)
	router.HandleFunc("/api/message/all", handler.PostMessages).Methods(http.MethodGet)
	router.HandleFunc("/api/message/send", handler.SendMessage).Methods(http.MethodPost)

	handlerChain := middleware.Chain(
		router,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware,
		middleware.AuthMiddleware(cfg),
	)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Printf("Server listening on %s", addr)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
