package handler

import (
	"net/http"

	"l2lsales/internal/dto"
	"l2lsales/internal/service"

	"github.com/gin-gonic/gin"
)

type StocksHandler struct{ svc service.StockService }

func NewStocksHandler(svc service.StockService) *StocksHandler { return &StocksHandler{svc: svc} }

// Create godoc
// @Summary      Hold a unit
// @Description  Creates a stock for a free unit and moves the unit to hold in the same transaction.
// @Tags         stocks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CreateStockRequest true "Stock"
// @Success      201  {object} dto.StockResponse
// @Failure      409  {object} apierror.APIError "unit is not free"
// @Failure      422  {object} apierror.APIError
// @Router       /v1/stocks [post]
func (h *StocksHandler) Create(c *gin.Context) {
	var req dto.CreateStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

// List godoc
// @Summary      List stocks
// @Description  Case-insensitive search over unit, project and broker names, newest first.
// @Tags         stocks
// @Produce      json
// @Security     BearerAuth
// @Param        search     query string false "Substring of unit/project/broker name"
// @Param        project_id query string false "Project UUID"
// @Param        status     query string false "free | hold | booked | allotted"
// @Param        page       query int    false "Page (default 1)"
// @Param        limit      query int    false "Page size (default 50, max 200)"
// @Success      200 {object} dto.StockListResponse
// @Router       /v1/stocks [get]
func (h *StocksHandler) List(c *gin.Context) {
	var filter dto.StockFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Get godoc
// @Summary  Get a stock
// @Tags     stocks
// @Produce  json
// @Security BearerAuth
// @Param    id  path     string true "Stock UUID"
// @Success  200 {object} dto.StockResponse
// @Failure  404 {object} apierror.APIError
// @Router   /v1/stocks/{id} [get]
func (h *StocksHandler) Get(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a stock
// @Description  Changes broker, hold date or remarks. The unit status is not touched.
// @Tags         stocks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                 true "Stock UUID"
// @Param        body body     dto.UpdateStockRequest true "Patch"
// @Success      200  {object} dto.StockResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/stocks/{id} [put]
func (h *StocksHandler) Update(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.UpdateStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Delete godoc
// @Summary      Release a unit
// @Description  Deletes the stock and returns its unit to free in the same transaction.
// @Tags         stocks
// @Security     BearerAuth
// @Param        id  path string true "Stock UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/stocks/{id} [delete]
func (h *StocksHandler) Delete(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetUnit godoc
// @Summary  Get a unit with its current stock
// @Tags     units
// @Produce  json
// @Security BearerAuth
// @Param    id  path     string true "Unit UUID"
// @Success  200 {object} dto.UnitResponse
// @Failure  404 {object} apierror.APIError
// @Router   /v1/units/{id} [get]
func (h *StocksHandler) GetUnit(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	resp, err := h.svc.GetUnit(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}
