package router

import (
	"fmt"
	"strings"

	"github.com/mangli-store/internal/cache"
	"github.com/mangli-store/internal/config"
	adminhandlers "github.com/mangli-store/internal/http/handlers/admin"
	publichandlers "github.com/mangli-store/internal/http/handlers/public"
	"github.com/mangli-store/internal/logger"
	"github.com/mangli-store/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "mangli"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many login attempts",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 店面公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/categories", publicHandler.GetCategories)
		}

		// 购物车与结算
		cart := apiV1.Group("/cart")
		{
			cart.GET("", publicHandler.GetCart)
			cart.DELETE("", publicHandler.ClearCart)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.PUT("/items/:product_id", publicHandler.UpdateCartItem)
			cart.DELETE("/items/:product_id", publicHandler.DeleteCartItem)
			cart.GET("/last-order", publicHandler.GetLastOrder)
			cart.POST("/repeat", publicHandler.RepeatLastOrder)
		}
		apiV1.POST("/checkout", publicHandler.Checkout)

		// 后台管理接口
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIP), adminHandler.Login)

			authed := admin.Group("")
			authed.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, cfg.Admin.Username))
			{
				authed.GET("/products", adminHandler.GetProducts)
				authed.POST("/products", adminHandler.CreateProduct)
				authed.PUT("/products/:id", adminHandler.UpdateProduct)
				authed.POST("/products/:id/toggle", adminHandler.ToggleProduct)
				authed.DELETE("/products/:id", adminHandler.DeleteProduct)

				authed.GET("/categories", adminHandler.GetCategories)
				authed.POST("/categories", adminHandler.CreateCategory)
				authed.POST("/categories/:id/toggle", adminHandler.ToggleCategory)

				authed.POST("/image-checks", adminHandler.TriggerImageCheck)
				authed.GET("/image-checks", adminHandler.GetImageCheckReport)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
