package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"chaletbook/internal/infra/config"
	"chaletbook/internal/infra/obs"
)

type SessionHTTP interface {
	Create(c *gin.Context)
	Destroy(c *gin.Context)
}

type StayHTTP interface {
	Calendar(c *gin.Context)
	OpenSlot(c *gin.Context)
	Pick(c *gin.Context)
	Quote(c *gin.Context)
	ApplyCoupon(c *gin.Context)
	RemoveCoupon(c *gin.Context)
	CreateDraft(c *gin.Context)
	GetDraft(c *gin.Context)
	ClearDraft(c *gin.Context)
}

type SearchHTTP interface {
	Update(c *gin.Context)
	Restore(c *gin.Context)
	Reset(c *gin.Context)
}

type CheckoutHTTP interface {
	Submit(c *gin.Context)
}

type Handlers struct {
	Session  SessionHTTP
	Stay     StayHTTP
	Search   SearchHTTP
	Checkout CheckoutHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Session != nil {
		api.POST("/sessions", h.Session.Create)
		api.DELETE("/sessions/:sid", h.Session.Destroy)
	}
	if h.Stay != nil {
		sessionGroup := api.Group("/sessions/:sid")
		sessionGroup.GET("/chalets/:id/calendar", h.Stay.Calendar)
		sessionGroup.POST("/selection/open", h.Stay.OpenSlot)
		sessionGroup.POST("/selection/pick", h.Stay.Pick)
		sessionGroup.GET("/quote", h.Stay.Quote)
		sessionGroup.POST("/coupon", h.Stay.ApplyCoupon)
		sessionGroup.DELETE("/coupon", h.Stay.RemoveCoupon)
		sessionGroup.POST("/draft", h.Stay.CreateDraft)
		sessionGroup.GET("/draft", h.Stay.GetDraft)
		sessionGroup.DELETE("/draft", h.Stay.ClearDraft)
	}
	if h.Search != nil {
		sessionGroup := api.Group("/sessions/:sid")
		sessionGroup.PUT("/filters", h.Search.Update)
		sessionGroup.GET("/filters", h.Search.Restore)
		sessionGroup.DELETE("/filters", h.Search.Reset)
	}
	if h.Checkout != nil {
		api.POST("/sessions/:sid/checkout", h.Checkout.Submit)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
