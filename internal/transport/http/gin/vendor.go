package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/queuego/internal/service"
)

// @Summary  Store queue snapshot
// @Tags     vendor
// @Security BearerAuth
// @Param    id  path  int  true  "Store ID"
// @Success  200 {object} domain.QueueSnapshot
// @Failure  403 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /vendor/stores/{id}/queue [get]
func handleStoreQueue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		snap, err := svcs.Tickets.GetStoreQueue(c.Request.Context(), storeID, userIDFrom(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, snap, "no-cache", true)
	}
}

// @Summary  Call next ticket
// @Description Completes the ticket being served, if any, then serves the
// @Description lowest waiting ticket number.
// @Tags     vendor
// @Security BearerAuth
// @Param    id  path  int  true  "Store ID"
// @Success  200 {object} domain.Ticket
// @Failure  403 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "queue empty"
// @Router   /vendor/stores/{id}/call-next [post]
func handleCallNext(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		t, err := svcs.Tickets.CallNextTicket(c.Request.Context(), storeID, userIDFrom(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  Mark ticket as no-show
// @Tags     vendor
// @Security BearerAuth
// @Param    id        path  int  true  "Store ID"
// @Param    ticketId  path  int  true  "Ticket ID"
// @Success  200 {object} domain.Ticket
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "invalid transition"
// @Router   /vendor/stores/{id}/tickets/{ticketId}/skip [post]
func handleSkipTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		ticketID, ok := parseInt64Param(c, "ticketId")
		if !ok {
			return
		}
		t, err := svcs.Tickets.SkipTicket(c.Request.Context(), storeID, ticketID, userIDFrom(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  Complete the ticket being served
// @Tags     vendor
// @Security BearerAuth
// @Param    id  path  int  true  "Store ID"
// @Success  200 {object} tickets.Completion
// @Failure  409 {object} ErrorResponse "no ticket serving"
// @Router   /vendor/stores/{id}/complete [post]
func handleCompleteCurrent(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		done, err := svcs.Tickets.CompleteCurrentTicket(c.Request.Context(), storeID, userIDFrom(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, done)
	}
}

// @Summary  Service history of a store
// @Tags     vendor
// @Security BearerAuth
// @Param    id     path   int  true   "Store ID"
// @Param    limit  query  int  false  "page size (1-100, default 20)"
// @Success  200 {array} domain.ServiceHistoryRecord
// @Failure  403 {object} ErrorResponse
// @Router   /vendor/stores/{id}/history [get]
func handleServiceHistory(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		list, err := svcs.History.ListForStore(
			c.Request.Context(),
			storeID,
			userIDFrom(c),
			parseIntDefault(c.Query("limit"), 0),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
