package httpgin

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	redisrepo "github.com/kirinyoku/queuego/internal/repository/redis"
	"github.com/kirinyoku/queuego/internal/service"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter builds the HTTP API. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	jwtSecret []byte,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(logger), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	authed := AuthMiddleware(jwtSecret)

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.GET("/stores", handleListStores(svcs))
	r.GET("/stores/:id", handleGetStore(svcs))
	r.GET("/stores/:id/services", handleListServices(svcs))

	// Customer and owner API
	api := r.Group("/", authed)
	{
		api.POST("/stores", handleCreateStore(svcs))
		api.PATCH("/stores/:id", handleUpdateStore(svcs))
		api.PUT("/stores/:id/status", handleSetStoreStatus(svcs))
		api.DELETE("/stores/:id", handleDeactivateStore(svcs))
		api.POST("/stores/:id/services", handleAddService(svcs))
		api.DELETE("/services/:id", handleRemoveService(svcs))

		api.POST("/stores/:id/tickets", handleCreateTicket(svcs, idem))
		api.GET("/tickets/:id", handleGetTicket(svcs))
		api.POST("/tickets/:id/cancel", handleCancelTicket(svcs))

		api.GET("/me/stores", handleMyStores(svcs))
		api.GET("/me/tickets/active", handleActiveTickets(svcs))
		api.GET("/me/tickets/history", handleTicketHistory(svcs))
	}

	// Vendor API
	vendor := r.Group("/vendor/stores/:id", authed)
	{
		vendor.GET("/queue", handleStoreQueue(svcs))
		vendor.POST("/call-next", handleCallNext(svcs))
		vendor.POST("/tickets/:ticketId/skip", handleSkipTicket(svcs))
		vendor.POST("/complete", handleCompleteCurrent(svcs))
		vendor.GET("/history", handleServiceHistory(svcs))
	}

	return r
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
