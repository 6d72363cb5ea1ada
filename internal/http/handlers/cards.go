// Card HTTP handlers.
//
// This file exposes the REST endpoints for card records:
//   - POST /api/airtable/add/card                  (issue)
//   - GET  /api/airtable/get/cards                 (list, cached)
//   - GET  /api/airtable/get/cards/{phone}         (filter by owner)
//   - POST /api/airtable/update/card/{cardNumber}  (status change)
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AddCardRequest is the payload for issuing a card. Accepts JSON or form
// encoding. Status defaults to Active when omitted.
type AddCardRequest struct {
	// Phone of the card owner.
	Phone string `json:"phone" form:"phone" binding:"required" example:"4165550100"`
	// Type is one of Debit, Credit, Business.
	Type string `json:"type" form:"type" binding:"required" example:"Debit"`
	// Status is one of Active, Blocked, Frozen. Defaults to Active.
	Status string `json:"status" form:"status" example:"Active"`
}

// AddCard godoc
// @ID          addCard
// @Summary     Issue a card
// @Description Creates a card with a freshly generated unique 16-digit number for the given owner. Generation retries on collisions and fails closed after the attempt ceiling.
// @Tags        Cards
// @Accept      json
// @Produce     json
// @Param       body body handlers.AddCardRequest true "Card parameters"
// @Success     201 {object} map[string]any
// @Failure     400 {object} handlers.ErrorResponse "Missing or invalid parameters"
// @Failure     500 {object} handlers.ErrorResponse "Generation exhausted or store failure"
// @Router      /api/airtable/add/card [post]
func (h *Handlers) AddCard(c *gin.Context) {
	var req AddCardRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `Missing required parameters: "phone" and "type" are required`)
		return
	}

	data, err := h.cards.Issue(c.Request.Context(), req.Phone, req.Type, req.Status)
	if failFromService(c, err) {
		return
	}
	ok(c, http.StatusCreated, data)
}

// ListCards godoc
// @ID          listCards
// @Summary     List all cards
// @Description Returns every card record, served through the response cache.
// @Tags        Cards
// @Produce     json
// @Success     200 {object} map[string]any
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/airtable/get/cards [get]
func (h *Handlers) ListCards(c *gin.Context) {
	data, err := h.cached(c.Request.Context(), cacheKeyCards, func(ctx context.Context) (any, error) {
		return h.cards.List(ctx)
	})
	if failFromService(c, err) {
		return
	}
	ok(c, http.StatusOK, data)
}

// CardsByPhone godoc
// @ID          cardsByPhone
// @Summary     List cards by owner
// @Description Returns the cards owned by the digit-normalized phone number. An empty list is a valid result.
// @Tags        Cards
// @Produce     json
// @Param       phone path string true "Owner phone" example(4165550100)
// @Success     200 {object} map[string]any
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/airtable/get/cards/{phone} [get]
func (h *Handlers) CardsByPhone(c *gin.Context) {
	data, err := h.cards.ListByPhone(c.Request.Context(), c.Param("phone"))
	if failFromService(c, err) {
		return
	}
	ok(c, http.StatusOK, data)
}

// UpdateCardStatus godoc
// @ID          updateCardStatus
// @Summary     Change a card's status
// @Description Sets the status of the card matching the path card number (spaces and dashes ignored).
// @Tags        Cards
// @Accept      x-www-form-urlencoded
// @Produce     json
// @Param       cardNumber path     string true "16-digit card number" example(4242424242424242)
// @Param       status     formData string true "Active, Blocked or Frozen"
// @Success     200 {object} map[string]any
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     404 {object} handlers.ErrorResponse "Unknown card number"
// @Router      /api/airtable/update/card/{cardNumber} [post]
func (h *Handlers) UpdateCardStatus(c *gin.Context) {
	status := c.PostForm("status")
	if status == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `Missing required parameter: "status" is required`)
		return
	}

	data, err := h.cards.UpdateStatus(c.Request.Context(), c.Param("cardNumber"), status)
	if failFromService(c, err) {
		return
	}
	ok(c, http.StatusOK, data)
}
