package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"shortly/config"
	"shortly/internal/handler"
	"shortly/internal/middleware"
)

func Router(cfg *config.Config, urlHandler *handler.URLHandler, analyticsHandler *handler.AnalyticsHandler, authHandler *handler.AuthHandler) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{cfg.CORS.Origin}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/:shortCode", urlHandler.Redirect)

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.JWTAuth(&cfg.JWT), authHandler.Me)
		}

		urls := v1.Group("/urls")
		{
			urls.POST("", middleware.OptionalJWTAuth(&cfg.JWT), urlHandler.Create)
			urls.GET("", middleware.JWTAuth(&cfg.JWT), urlHandler.List)
			urls.GET("/:shortCode", urlHandler.Get)
			urls.PUT("/:shortCode", middleware.JWTAuth(&cfg.JWT), urlHandler.Update)
			urls.DELETE("/:shortCode", middleware.JWTAuth(&cfg.JWT), urlHandler.Delete)

			urls.GET("/:shortCode/stats", analyticsHandler.Stats)
			urls.GET("/:shortCode/clicks", analyticsHandler.Clicks)
		}

		v1.GET("/analytics/recent", analyticsHandler.Recent)
	}

	return r
}
