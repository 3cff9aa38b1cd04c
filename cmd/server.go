package cmd

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"tubeclip/config"
	"tubeclip/handlers"
	"tubeclip/middleware"
	"tubeclip/services"
)

// StartWebServer starts the web server
func StartWebServer(port int) {
	// Set production mode if not specified
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Leftover workspaces from a crashed run are nobody's property anymore.
	services.SweepTempRoot(config.GetTempRoot())

	// Initialize services
	pipeline := services.NewPipeline(
		services.NewResolver(),
		services.NewTranscoder(),
		services.NewTagWriter(),
		config.GetTempRoot(),
	)

	// Initialize handlers
	convertHandler := handlers.NewConvertHandler(pipeline)
	healthHandler := handlers.NewHealthHandler()

	// Setup router
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply middleware
	r.Use(middleware.CORS())
	r.Use(middleware.Logging())

	// Setup routes
	setupRoutes(r, convertHandler, healthHandler)

	// Start server
	portStr := strconv.Itoa(port)
	if serverPort := os.Getenv("SERVER_PORT"); serverPort != "" {
		portStr = serverPort
	}

	log.Printf("tubeclip web server starting on port %s", portStr)
	log.Printf("Temp root: %s", config.GetTempRoot())
	if err := r.Run(":" + portStr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRoutes configures all the HTTP routes
func setupRoutes(r *gin.Engine, convertHandler *handlers.ConvertHandler, healthHandler *handlers.HealthHandler) {
	// Health check endpoint
	r.GET("/health", healthHandler.HealthCheck)

	// API routes group
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/status", healthHandler.APIStatus)

		// Conversion endpoint
		apiGroup.POST("/convert", convertHandler.Convert)
	}
}
