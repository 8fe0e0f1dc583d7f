package handler

import (
	"net/http"
	"time"

	"l2lsales/internal/dto"
	"l2lsales/internal/service"

	"github.com/gin-gonic/gin"
)

type PlansHandler struct{ svc service.PlanService }

func NewPlansHandler(svc service.PlanService) *PlansHandler { return &PlansHandler{svc: svc} }

// CreatePlan godoc
// @Summary  Create a payment plan
// @Tags     plans
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body     dto.CreatePlanRequest true "Plan"
// @Success  201  {object} dto.PlanResponse
// @Failure  409  {object} apierror.APIError "name already taken"
// @Router   /v1/plans [post]
func (h *PlansHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePlan(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

func (h *PlansHandler) ListPlans(c *gin.Context) {
	resp, err := h.svc.ListPlans(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// GetPlan godoc
// @Summary      Get a payment plan
// @Description  Includes installments in position order and the completion status. With booking_date each installment carries its projected due date.
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        id           path     string true  "Plan UUID"
// @Param        booking_date query    string false "YYYY-MM-DD"
// @Success      200          {object} dto.PlanResponse
// @Failure      404          {object} apierror.APIError
// @Router       /v1/plans/{id} [get]
func (h *PlansHandler) GetPlan(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var q dto.PlanQuery
	if !bindQuery(c, &q) {
		return
	}
	var booking *time.Time
	if q.BookingDate != "" {
		// Already checked by the datetime tag.
		t, _ := time.Parse(dto.DateLayout, q.BookingDate)
		booking = &t
	}
	resp, err := h.svc.GetPlan(c.Request.Context(), id, booking)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Completion godoc
// @Summary      Payment plan completion
// @Description  Percentage total, fixed total and whether the percentages add up to exactly 100. Advisory only.
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "Plan UUID"
// @Success      200 {object} dto.PlanCompletionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/plans/{id}/completion [get]
func (h *PlansHandler) Completion(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	resp, err := h.svc.Completion(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *PlansHandler) DeletePlan(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.svc.DeletePlan(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddInstallment godoc
// @Summary      Add an installment to a plan
// @Description  value > 0; percentages must not exceed 100; due_days >= 0.
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                 true "Plan UUID"
// @Param        body body     dto.InstallmentRequest true "Installment"
// @Success      201  {object} dto.InstallmentResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/plans/{id}/installments [post]
func (h *PlansHandler) AddInstallment(c *gin.Context) {
	planID, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.InstallmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddInstallment(c.Request.Context(), planID, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

func (h *PlansHandler) UpdateInstallment(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.UpdateInstallmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateInstallment(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *PlansHandler) RemoveInstallment(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.svc.RemoveInstallment(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ValidateInstallment godoc
// @Summary      Check an installment without saving it
// @Description  Always 200; an empty errors map means the installment is valid.
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        body body     dto.ValidateInstallmentRequest true "Installment"
// @Success      200  {object} dto.ValidateInstallmentResponse
// @Router       /v1/installments/validate [post]
func (h *PlansHandler) ValidateInstallment(c *gin.Context) {
	var req dto.ValidateInstallmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	errs := service.ValidateInstallment(req.Value, req.IsPercentage, req.DueDays)
	ok(c, http.StatusOK, dto.ValidateInstallmentResponse{Valid: len(errs) == 0, Errors: errs})
}
