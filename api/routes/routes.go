package routes

import (
	"net/http"

	"github.com/ArowuTest/toolsau-entries-backend/internal/config"
	"github.com/ArowuTest/toolsau-entries-backend/internal/handlers"
	"github.com/ArowuTest/toolsau-entries-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandlerDependencies holds the handlers mounted by SetupRouter
type HandlerDependencies struct {
	AdminUserHandler      *handlers.AdminUserHandler
	BenefitsHandler       *handlers.BenefitsHandler
	MiniDrawHandler       *handlers.MiniDrawHandler
	SystemSettingsHandler *handlers.SystemSettingsHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedHosts))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(zap.L()))

	public := router.Group("/api")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		public.GET("/packages/mini-draw", deps.SystemSettingsHandler.GetMiniDrawPackages)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWT.Secret), middleware.RequireAdmin())
	{
		users := admin.Group("/users")
		{
			users.GET("/:id", deps.AdminUserHandler.GetUser)
			users.PATCH("/:id", deps.AdminUserHandler.UpdateUser)
			users.POST("/:id/grants/one-time", deps.BenefitsHandler.GrantOneTimePackage)
			users.POST("/:id/grants/mini-draw", deps.BenefitsHandler.GrantMiniDrawPackage)
		}

		admin.POST("/referrals/:id/convert", deps.BenefitsHandler.ConvertReferral)

		miniDraws := admin.Group("/mini-draws")
		{
			miniDraws.POST("/:id/winner", deps.MiniDrawHandler.SelectWinner)
			miniDraws.POST("/:id/cancel", deps.MiniDrawHandler.Cancel)
		}

		admin.GET("/settings", deps.SystemSettingsHandler.GetSettings)
		admin.PUT("/settings", deps.SystemSettingsHandler.UpdateSettings)
	}

	return router
}
