package api

import (
	"regexp"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/cakeshop/config"
	"github.com/d60-Lab/cakeshop/internal/api/handler"
	"github.com/d60-Lab/cakeshop/internal/middleware"
)

// 菲律宾手机号：09xxxxxxxxx 或 +639xxxxxxxxx
var phonePattern = regexp.MustCompile(`^(09|\+639)\d{9}$`)

// RegisterValidations 在 gin 的 binding 引擎上挂自定义校验
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
	}
}

// NewRouter 组装路由与中间件
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	RegisterValidations()

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Trace.Enabled {
		r.Use(otelgin.Middleware("cakeshop"))
	}
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst))

	// 公开路由
	v1.POST("/auth/register", h.Register)
	v1.POST("/auth/login", h.Login)
	v1.GET("/menu/:id", h.GetMenuItem)

	// 登录后可用
	authed := v1.Group("")
	authed.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		authed.POST("/cart/add", h.AddToCart)
		authed.GET("/cart", h.GetCart)
		authed.DELETE("/cart", h.ClearCart)

		authed.POST("/orders", h.PlaceOrder)
		authed.GET("/orders", h.ListOrders)
		authed.GET("/orders/:id", h.GetOrder)
		authed.POST("/orders/:id/cancel", h.CancelOrder)
	}

	// 员工专用
	staff := authed.Group("")
	staff.Use(middleware.RequireStaff())
	{
		staff.PATCH("/orders/:id/status", h.UpdateOrderStatus)
		staff.PATCH("/orders/:id/payment", h.ConfirmPayment)
	}

	return r
}
