// Package server exposes the diagnosis engine over HTTP.
package server

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// NewRouter wires middleware and routes. staticDir must contain index.html
// and a static/ directory; missing files simply 404.
func NewRouter(h *Handler, staticDir string, log logrus.FieldLogger) *gin.Engine {
	router := gin.New()
	router.Use(
		requestID(),
		requestLogger(log),
		recovery(log),
		limitBodySize(maxBodyBytes),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.StaticFile("/", filepath.Join(staticDir, "index.html"))
	router.Static("/static", filepath.Join(staticDir, "static"))

	router.GET("/readyz", h.Ready)

	api := router.Group("/api")
	api.GET("/health", h.Health)
	api.POST("/diagnose", h.Diagnose)

	return router
}

// DetectStaticDir looks for web/index.html in the working directory and up
// to two parents.
func DetectStaticDir() string {
	startDir, err := os.Getwd()
	if err != nil {
		return "web"
	}

	candidates := []string{
		startDir,
		filepath.Dir(startDir),
		filepath.Dir(filepath.Dir(startDir)),
	}

	for _, dir := range candidates {
		web := filepath.Join(dir, "web")
		if fileExists(filepath.Join(web, "index.html")) {
			return web
		}
	}

	return filepath.Join(startDir, "web")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
