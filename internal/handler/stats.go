package handler

import (
	"net/http"

	"l2lsales/internal/dto"
	"l2lsales/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct{ svc service.StatsService }

func NewStatsHandler(svc service.StatsService) *StatsHandler { return &StatsHandler{svc: svc} }

// Units godoc
// @Summary  Unit counts per status
// @Tags     stats
// @Produce  json
// @Security BearerAuth
// @Param    project_id query    string false "Project UUID"
// @Success  200        {object} dto.UnitStatsResponse
// @Router   /v1/stats/units [get]
func (h *StatsHandler) Units(c *gin.Context) {
	var filter dto.UnitStatsFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Units(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Cheques godoc
// @Summary  Cheque counts and amounts
// @Tags     stats
// @Produce  json
// @Security BearerAuth
// @Param    date_from query    string false "YYYY-MM-DD"
// @Param    date_to   query    string false "YYYY-MM-DD"
// @Success  200       {object} dto.ChequeStatsResponse
// @Router   /v1/stats/cheques [get]
func (h *StatsHandler) Cheques(c *gin.Context) {
	var filter dto.ChequeStatsFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Cheques(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}
