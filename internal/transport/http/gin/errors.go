package httpgin

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/queuego/internal/service/catalog"
	"github.com/kirinyoku/queuego/internal/service/history"
	"github.com/kirinyoku/queuego/internal/service/stores"
	"github.com/kirinyoku/queuego/internal/service/tickets"
)

const (
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeInvalidInput          = "INVALID_INPUT"
	CodeStoreNotFound         = "STORE_NOT_FOUND"
	CodeTicketNotFound        = "TICKET_NOT_FOUND"
	CodeServiceNotFound       = "SERVICE_NOT_FOUND"
	CodeNotStoreOwner         = "NOT_STORE_OWNER"
	CodeStoreClosed           = "STORE_CLOSED"
	CodeActiveTicketExists    = "ACTIVE_TICKET_EXISTS"
	CodeInvalidTransition     = "INVALID_TRANSITION"
	CodeQueueEmpty            = "QUEUE_EMPTY"
	CodeNoTicketServing       = "NO_TICKET_SERVING"
	CodeConflict              = "CONFLICT"
	CodeIdempotencyInProgress = "IDEMPOTENCY_IN_PROGRESS"
	CodeRateLimited           = "RATE_LIMITED"
	CodeInternal              = "INTERNAL"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorTable is checked in order with errors.Is.
var errorTable = []errorMapping{
	{stores.ErrStoreNotFound, http.StatusNotFound, CodeStoreNotFound},
	{catalog.ErrStoreNotFound, http.StatusNotFound, CodeStoreNotFound},
	{tickets.ErrStoreNotFound, http.StatusNotFound, CodeStoreNotFound},
	{history.ErrStoreNotFound, http.StatusNotFound, CodeStoreNotFound},

	{tickets.ErrTicketNotFound, http.StatusNotFound, CodeTicketNotFound},
	{catalog.ErrServiceNotFound, http.StatusNotFound, CodeServiceNotFound},

	{stores.ErrNotStoreOwner, http.StatusForbidden, CodeNotStoreOwner},
	{catalog.ErrNotStoreOwner, http.StatusForbidden, CodeNotStoreOwner},
	{tickets.ErrNotStoreOwner, http.StatusForbidden, CodeNotStoreOwner},
	{history.ErrNotStoreOwner, http.StatusForbidden, CodeNotStoreOwner},

	{stores.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput},
	{catalog.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput},
	{tickets.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput},

	{tickets.ErrStoreClosed, http.StatusConflict, CodeStoreClosed},
	{tickets.ErrActiveTicketExists, http.StatusConflict, CodeActiveTicketExists},
	{tickets.ErrInvalidTransition, http.StatusConflict, CodeInvalidTransition},
	{tickets.ErrQueueEmpty, http.StatusConflict, CodeQueueEmpty},
	{tickets.ErrNoTicketServing, http.StatusConflict, CodeNoTicketServing},
	{tickets.ErrConcurrentUpdate, http.StatusConflict, CodeConflict},
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var rl *tickets.RateLimitedError
	if errors.As(err, &rl) {
		secs := int(math.Ceil(rl.RetryAfter.Seconds()))
		if secs < 1 {
			secs = 1
		}
		c.Header("Retry-After", strconv.Itoa(secs))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Code:  CodeRateLimited,
			Error: tickets.ErrRateLimited.Error(),
		})
		return
	}

	var ve stores.ValidationError
	if errors.As(err, &ve) {
		badRequest(c, ve.Error())
		return
	}

	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			c.JSON(m.status, ErrorResponse{Code: m.code, Error: m.target.Error()})
			return
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:  CodeInternal,
		Error: "internal error",
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Code: CodeInvalidInput, Error: msg})
}
