package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"moviesrev/internal/router"
	"moviesrev/internal/store"
	"moviesrev/pkg/catalog"
	"moviesrev/pkg/global"
	"moviesrev/pkg/mongo"
	"moviesrev/pkg/redis"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	mongo.InitMongoDB()
	mongo.EnsureIndexesOnStartup()

	reviewStore := store.NewMongoReviewStore(mongo.GetCollection("reviews"), logger)
	reviewHandler := router.NewReviewHandler(reviewStore, logger)

	catalogClient := catalog.New(global.GetTMDBBaseURL(), global.GetTMDBAPIKey())
	catalogHandler := router.NewCatalogHandler(catalogClient, redis.NewCatalogCache(), logger)

	router.InitEngine(logger)
	router.InitializeRoutes(reviewHandler, catalogHandler)

	port := global.GetEnvOrDefault("PORT", "5000")
	log.Printf("Server is running on port %s", port)

	if err := router.Router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
