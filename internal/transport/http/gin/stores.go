package httpgin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/kirinyoku/queuego/internal/service"
)

// @Summary  List stores
// @Tags     stores
// @Param    search    query  string  false  "substring of name, category or description"
// @Param    category  query  string  false  "Doctor | Saloon | Car Wash"
// @Param    is_open   query  bool    false  "only open or closed stores"
// @Param    limit     query  int     false  "page size (1-100, default 50)"
// @Param    offset    query  int     false  "offset"
// @Success  200  {array}   domain.StoreSummary
// @Failure  400  {object}  ErrorResponse
// @Router   /stores [get]
func handleListStores(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := domain.StoreFilter{
			Search:   c.Query("search"),
			Category: domain.Category(c.Query("category")),
			Limit:    parseIntDefault(c.Query("limit"), 0),
			Offset:   parseIntDefault(c.Query("offset"), 0),
		}

		if v := c.Query("is_open"); v != "" {
			open, err := strconv.ParseBool(v)
			if err != nil {
				badRequest(c, "invalid is_open")
				return
			}
			f.IsOpen = &open
		}

		list, err := svcs.Stores.ListStores(c.Request.Context(), f)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, list, "public, max-age=15", true)
	}
}

// @Summary  Get store with services and live queue figures
// @Tags     stores
// @Param    id  path  int  true  "Store ID"
// @Success  200  {object}  domain.StoreDetails
// @Failure  404  {object}  ErrorResponse
// @Router   /stores/{id} [get]
func handleGetStore(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		details, err := svcs.Stores.GetStore(c.Request.Context(), storeID)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, details, "public, max-age=15", true)
	}
}

// @Summary  Create store
// @Tags     stores
// @Security BearerAuth
// @Param    req body  CreateStoreRequest true "payload"
// @Success  201 {object} domain.Store
// @Failure  400 {object} ErrorResponse
// @Failure  401 {object} ErrorResponse
// @Router   /stores [post]
func handleCreateStore(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateStoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		st, err := svcs.Stores.CreateStore(c.Request.Context(), userIDFrom(c), req.input())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, st)
	}
}

// @Summary  Update store
// @Tags     stores
// @Security BearerAuth
// @Param    id  path  int  true  "Store ID"
// @Param    req body  UpdateStoreRequest true "fields to change"
// @Success  200 {object} domain.Store
// @Failure  400 {object} ErrorResponse
// @Failure  403 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /stores/{id} [patch]
func handleUpdateStore(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req UpdateStoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		st, err := svcs.Stores.UpdateStore(c.Request.Context(), userIDFrom(c), storeID, req.patch())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

// @Summary  Open or close store
// @Tags     stores
// @Security BearerAuth
// @Param    id  path  int  true  "Store ID"
// @Param    req body  SetStatusRequest true "payload"
// @Success  200 {object} SetStatusResponse
// @Failure  403 {object} ErrorResponse
// @Router   /stores/{id}/status [put]
func handleSetStoreStatus(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req SetStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Stores.SetOpen(c.Request.Context(), userIDFrom(c), storeID, *req.IsOpen); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, SetStatusResponse{StoreID: storeID, IsOpen: *req.IsOpen})
	}
}

// @Summary  Deactivate store
// @Tags     stores
// @Security BearerAuth
// @Param    id  path  int  true  "Store ID"
// @Success  204
// @Failure  403 {object} ErrorResponse
// @Router   /stores/{id} [delete]
func handleDeactivateStore(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Stores.DeactivateStore(c.Request.Context(), userIDFrom(c), storeID); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Stores owned by the caller
// @Tags     stores
// @Security BearerAuth
// @Success  200 {array} domain.Store
// @Router   /me/stores [get]
func handleMyStores(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Stores.MyStores(c.Request.Context(), userIDFrom(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// @Summary  List store services
// @Tags     catalog
// @Param    id  path  int  true  "Store ID"
// @Success  200 {array} domain.StoreService
// @Failure  404 {object} ErrorResponse
// @Router   /stores/{id}/services [get]
func handleListServices(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		list, err := svcs.Catalog.ListServices(c.Request.Context(), storeID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, list, "public, max-age=60", true)
	}
}

// @Summary  Add store service
// @Tags     catalog
// @Security BearerAuth
// @Param    id  path  int  true  "Store ID"
// @Param    req body  AddServiceRequest true "payload"
// @Success  201 {object} domain.StoreService
// @Failure  403 {object} ErrorResponse
// @Router   /stores/{id}/services [post]
func handleAddService(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req AddServiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		svc, err := svcs.Catalog.AddService(
			c.Request.Context(),
			userIDFrom(c),
			storeID,
			req.Name,
			req.Description,
			req.Price,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, svc)
	}
}

// @Summary  Remove store service
// @Tags     catalog
// @Security BearerAuth
// @Param    id  path  int  true  "Service ID"
// @Success  204
// @Failure  404 {object} ErrorResponse
// @Router   /services/{id} [delete]
func handleRemoveService(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		serviceID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Catalog.RemoveService(c.Request.Context(), userIDFrom(c), serviceID); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
