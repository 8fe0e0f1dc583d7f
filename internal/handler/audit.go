package handler

import (
	"net/http"

	"l2lsales/internal/service"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct{ svc service.AuditService }

func NewAuditHandler(svc service.AuditService) *AuditHandler { return &AuditHandler{svc: svc} }

// History godoc
// @Summary      Change history of an entity
// @Description  Entries are written asynchronously after each committed change, oldest first.
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        entity_type path     string true "stock | cheque | payment_plan | installment"
// @Param        entity_id   path     string true "Entity UUID"
// @Success      200         {array}  dto.AuditEntryResponse
// @Router       /v1/audit/{entity_type}/{entity_id} [get]
func (h *AuditHandler) History(c *gin.Context) {
	id, valid := pathID(c, "entity_id")
	if !valid {
		return
	}
	resp, err := h.svc.History(c.Request.Context(), c.Param("entity_type"), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}
