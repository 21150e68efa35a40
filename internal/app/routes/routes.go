package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/coursewish/internal/app/controllers"
	"github.com/yigit/coursewish/internal/middleware"
)

// SetupRouter registers the operational endpoints. The service exposes no
// domain API; data access goes through the repositories.
func SetupRouter(router *gin.Engine, healthController *controllers.HealthController) {
	router.GET("/ping", healthController.Ping)
	router.GET("/health", healthController.Health)

	router.NoRoute(middleware.NotFound())
}
