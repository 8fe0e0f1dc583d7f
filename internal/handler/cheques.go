package handler

import (
	"net/http"

	"l2lsales/internal/dto"
	"l2lsales/internal/service"

	"github.com/gin-gonic/gin"
)

type ChequesHandler struct{ svc service.ChequeService }

func NewChequesHandler(svc service.ChequeService) *ChequesHandler { return &ChequesHandler{svc: svc} }

// Create godoc
// @Summary      Record a cheque
// @Description  New cheques always start in pending.
// @Tags         cheques
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CreateChequeRequest true "Cheque"
// @Success      201  {object} dto.ChequeResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/cheques [post]
func (h *ChequesHandler) Create(c *gin.Context) {
	var req dto.CreateChequeRequest
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
// @Summary      List cheques
// @Tags         cheques
// @Produce      json
// @Security     BearerAuth
// @Param        status      query string false "pending | submitted | cleared | bounced | cancelled"
// @Param        bank_id     query string false "Bank UUID"
// @Param        customer_id query string false "Customer UUID"
// @Param        date_from   query string false "Cheque date from, YYYY-MM-DD inclusive"
// @Param        date_to     query string false "Cheque date to, YYYY-MM-DD inclusive"
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Page size (default 50, max 200)"
// @Success      200 {object} dto.ChequeListResponse
// @Router       /v1/cheques [get]
func (h *ChequesHandler) List(c *gin.Context) {
	var filter dto.ChequeFilter
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

func (h *ChequesHandler) Get(c *gin.Context) {
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

// SendToBank godoc
// @Summary      Submit a pending cheque to the bank
// @Tags         cheques
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "Cheque UUID"
// @Success      200 {object} dto.ChequeResponse
// @Failure      409 {object} apierror.APIError "cheque is not pending"
// @Router       /v1/cheques/{id}/send-to-bank [put]
func (h *ChequesHandler) SendToBank(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	resp, err := h.svc.SendToBank(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// BankFeedback godoc
// @Summary      Apply the bank's outcome
// @Description  Moves a submitted cheque to cleared, bounced or cancelled. cleared requires clearance_date.
// @Tags         cheques
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                  true "Cheque UUID"
// @Param        body body     dto.BankFeedbackRequest true "Outcome"
// @Success      200  {object} dto.ChequeResponse
// @Failure      409  {object} apierror.APIError "cheque is not submitted"
// @Failure      422  {object} apierror.APIError
// @Router       /v1/cheques/{id}/bank-feedback [put]
func (h *ChequesHandler) BankFeedback(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.BankFeedbackRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ApplyBankFeedback(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}
