package httpgin

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	redisrepo "github.com/kirinyoku/queuego/internal/repository/redis"
	"github.com/kirinyoku/queuego/internal/service"
)

const idemLockTTL = 60 * time.Second

// @Summary  Take a ticket (idempotent)
// @Tags     tickets
// @Security BearerAuth
// @Param    id  path  int  true  "Store ID"
// @Param    Idempotency-Key header string false "client supplied key"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} tickets.Issued
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "store closed / active ticket exists / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /stores/{id}/tickets [post]
func handleCreateTicket(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		userID := userIDFrom(c)

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemTicket(storeID, userID, idemKey)

			if replayed(c, idem, idemStorageKey, idemKey) {
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, idemLockTTL)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if replayed(c, idem, idemStorageKey, idemKey) {
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{
					Code:  CodeIdempotencyInProgress,
					Error: "idempotency key in progress",
				})
				return
			}
		}

		issued, err := svcs.Tickets.CreateTicket(c.Request.Context(), storeID, userID)
		if err != nil {
			if idemStorageKey != "" {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" {
			b, _ := json.Marshal(issued)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, issued)
	}
}

// replayed writes a stored response for key, if there is one.
func replayed(c *gin.Context, idem *redisrepo.IdempotencyStore, storageKey, key string) bool {
	payload, ok, _ := idem.GetResult(c.Request.Context(), storageKey)
	if !ok {
		return false
	}
	c.Header("Idempotency-Key", key)
	c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
	return true
}

// @Summary  Get ticket with live position
// @Tags     tickets
// @Security BearerAuth
// @Param    id  path  int  true  "Ticket ID"
// @Success  200 {object} domain.TicketView
// @Failure  404 {object} ErrorResponse
// @Router   /tickets/{id} [get]
func handleGetTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		view, err := svcs.Tickets.GetTicket(c.Request.Context(), ticketID, userIDFrom(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		// positions move with every call; clients must revalidate
		writeJSONWithCache(c, http.StatusOK, view, "no-cache", true)
	}
}

// @Summary  Cancel ticket
// @Tags     tickets
// @Security BearerAuth
// @Param    id  path  int  true  "Ticket ID"
// @Success  200 {object} domain.Ticket
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "invalid transition"
// @Router   /tickets/{id}/cancel [post]
func handleCancelTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		t, err := svcs.Tickets.CancelTicket(c.Request.Context(), ticketID, userIDFrom(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  Caller's waiting and serving tickets
// @Tags     tickets
// @Security BearerAuth
// @Success  200 {array} domain.TicketView
// @Router   /me/tickets/active [get]
func handleActiveTickets(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Tickets.ListActiveTickets(c.Request.Context(), userIDFrom(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// @Summary  Caller's finished tickets
// @Tags     tickets
// @Security BearerAuth
// @Param    limit   query  int  false  "page size (1-100, default 20)"
// @Param    offset  query  int  false  "offset"
// @Success  200 {array} domain.Ticket
// @Router   /me/tickets/history [get]
func handleTicketHistory(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Tickets.ListTicketHistory(
			c.Request.Context(),
			userIDFrom(c),
			parseIntDefault(c.Query("limit"), 0),
			parseIntDefault(c.Query("offset"), 0),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
