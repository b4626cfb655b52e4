package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "ndisfraud/docs"
	"ndisfraud/internal/handler"
	"ndisfraud/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	logger *zap.Logger,
	allowedOrigins []string,
	healthH *handler.HealthHandler,
	analysisH *handler.AnalysisHandler,
	itemH *handler.ItemHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	r.GET("/", healthH.Root)
	r.GET("/health", healthH.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	v1.GET("/agents", analysisH.ListAgents)

	analyses := v1.Group("/analyses")
	analyses.POST("", analysisH.Upload)
	analyses.POST("/text", analysisH.AnalyzeText)

	items := v1.Group("/items")
	items.GET("/:code", itemH.Exists)
	items.GET("/:code/pricing", itemH.Pricing)
	items.GET("/:code/old-pricing", itemH.OldPricing)

	return r
}
