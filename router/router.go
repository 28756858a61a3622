package router

import (
	"budgeting/api"
	"budgeting/config"
	_ "budgeting/docs"
	"budgeting/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers 路由依赖的处理器集合
type Handlers struct {
	Auth     *api.AuthHandler
	Category *api.CategoryHandler
	Budget   *api.BudgetHandler
	Export   *api.ExportHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers, jwtManager *middleware.JWTManager) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 认证相关路由（无需登录，按 IP 限流）
	r.POST("/register", middleware.LoginRateLimit(cfg.RateLimit.Attempts, cfg.RateLimit.Window), h.Auth.Register)
	r.POST("/login", middleware.LoginRateLimit(cfg.RateLimit.Attempts, cfg.RateLimit.Window), h.Auth.Login)

	// 需要登录的路由
	authed := r.Group("")
	authed.Use(jwtManager.JWTAuth())
	{
		categories := authed.Group("/categories")
		{
			categories.POST("", h.Category.Create)
			categories.GET("", h.Category.List)
			categories.DELETE("/:name", h.Category.Delete)
		}

		budget := authed.Group("/budget")
		{
			budget.POST("", h.Budget.Create)
			budget.GET("", h.Budget.List)
			budget.GET("/export", h.Export.Export)
			budget.GET("/summary", h.Budget.Summary)
			budget.GET("/:id", h.Budget.Get)
			budget.PUT("/:id", h.Budget.Update)
			budget.DELETE("/:id", h.Budget.Delete)
			budget.POST("/:id/add", h.Budget.Add)
			budget.POST("/:id/subtract", h.Budget.Subtract)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
