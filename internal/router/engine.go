package router

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var Router *gin.Engine

func InitEngine(logger *slog.Logger) {
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	Router = gin.New()
	Router.Use(gin.Recovery())
	Router.Use(RequestID())
	Router.Use(RequestLogger(logger))

	// Known client origins: local development plus the deployed site.
	Router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"http://localhost:3000", "https://manlike-ecb0c.web.app"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
}
