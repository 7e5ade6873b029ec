package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lmendez/inventario/internal/server/handlers"
)

// NewStoreRouter wires the remote store engine: a single action endpoint
// with the permissive CORS surface the original web client relied on.
func NewStoreRouter(handler *handlers.ActionHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(corsMiddleware())

	r.POST("/", handler.Handle)
	r.GET("/", handler.Health)

	if logger != nil {
		logger.Info("store router initialized")
	}

	return r
}

// NewPosRouter wires the POS client engine: the UI-facing surface over the
// coordinator.
func NewPosRouter(handler *handlers.PosHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/products", handler.ListProducts)
	r.POST("/products", handler.CreateProduct)
	r.PUT("/products/:id", handler.UpdateProduct)
	r.DELETE("/products/:id", handler.DeleteProduct)
	r.GET("/sales", handler.ListSales)
	r.POST("/sales", handler.CreateSale)
	r.POST("/sales/:id/pay", handler.PaySale)
	r.GET("/summary", handler.Summary)
	r.POST("/sync", handler.Sync)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("pos router initialized")
	}

	return r
}

// corsMiddleware reproduces the original endpoint's open CORS policy:
// wildcard origin, the three verbs, and Content-Type. Preflight requests
// get an empty body.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
