package controllers

import (
	"time"

	"github.com/fsdevblog/linkshort/internal/controllers/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	qrCodesRoute    = "/qrcodes"
	qrCodeAPIRoute  = "/qrcode"
	rateLimitWindow = time.Minute
)

// RouterParams зависимости HTTP слоя.
type RouterParams struct {
	Links      LinkManager
	Resolver   Resolver
	Dispatcher VisitDispatcher
	Ping       ConnectionChecker
	QRCodes    QRCodeMaker // nil отключает маршруты /qrcode

	JWTSecret  []byte // Ключ подписи токена владельца
	QRCodesDir string // Каталог со сгенерированными QR кодами. Пустой - не раздаются

	Redis              redis.Cmdable // nil отключает ограничение частоты создания ссылок
	RateLimitPerMinute int

	Logger *zap.Logger
}

// SetupRouter настраивает маршруты приложения.
func SetupRouter(p RouterParams) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.AccessLogMiddleware(p.Logger, "/ping"))
	r.Use(gin.Recovery())
	// png уже сжаты.
	r.Use(middlewares.GzipMiddleware(qrCodesRoute + "/"))

	linksController := NewLinksController(p.Links)
	redirectController := NewRedirectController(p.Resolver, p.Dispatcher)
	pingController := NewPingController(p.Ping)

	var createHandlers []gin.HandlerFunc
	if p.Redis != nil && p.RateLimitPerMinute > 0 {
		createHandlers = append(createHandlers,
			middlewares.RateLimitMiddleware(p.Redis, p.RateLimitPerMinute, rateLimitWindow, p.Logger))
	}

	r.GET("/ping", pingController.Ping)
	if p.QRCodesDir != "" {
		r.Static(qrCodesRoute, p.QRCodesDir)
	}
	if p.QRCodes != nil {
		qrController := NewQRCodeController(p.QRCodes, p.QRCodesDir)
		qr := r.Group(qrCodeAPIRoute)
		qr.GET("/generate", qrController.Generate)
		qr.GET("/:qrCodeId", qrController.Get)
	}
	r.GET("/:shortCode", redirectController.Redirect)

	api := r.Group("/api")
	api.POST("/public/links", append(createHandlers, linksController.CreatePublic)...)
	api.POST("/links/verify/:shortCode", linksController.VerifyPassword)

	owned := api.Group("/links", middlewares.OwnerMiddleware(p.JWTSecret))
	owned.POST("", append(createHandlers, linksController.Create)...)

	required := owned.Group("", middlewares.RequireOwner())
	required.GET("", linksController.List)
	required.PATCH("/:id", linksController.Update)
	required.DELETE("/:id", linksController.Delete)

	return r
}
