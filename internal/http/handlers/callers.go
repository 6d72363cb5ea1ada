// Call history HTTP handlers.
//
// This file exposes the REST endpoints for the Call History table:
//   - POST /api/airtable/add/caller            (record inbound call)
//   - GET  /api/airtable/get/caller-history    (list, cached)
//   - POST /api/airtable/update/call-type      (classify a call)
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AddCaller godoc
// @ID          addCaller
// @Summary     Record an inbound call
// @Description Creates a Call History row for the calling phone number. Query-secret authenticated; the phone system appends parameters to a preconfigured URL.
// @Tags        Callers
// @Produce     json
// @Param       phone    query string true  "Caller phone"
// @Param       name     query string false "Caller name, when known"
// @Param       username query string true  "Shared-secret user"
// @Param       password query string true  "Shared-secret password"
// @Success     200 {object} map[string]any
// @Failure     400 {object} handlers.ErrorResponse "Missing phone"
// @Failure     401 {object} handlers.ErrorResponse
// @Router      /api/airtable/add/caller [post]
func (h *Handlers) AddCaller(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `Missing required parameter: "phone" is required`)
		return
	}

	data, err := h.callers.Add(c.Request.Context(), phone, c.Query("name"))
	if failFromService(c, err) {
		return
	}
	ok(c, http.StatusOK, data)
}

// CallerHistory godoc
// @ID          callerHistory
// @Summary     List call history
// @Description Returns every call history record, served through the response cache.
// @Tags        Callers
// @Produce     json
// @Success     200 {object} map[string]any
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/airtable/get/caller-history [get]
func (h *Handlers) CallerHistory(c *gin.Context) {
	data, err := h.cached(c.Request.Context(), cacheKeyHistory, func(ctx context.Context) (any, error) {
		return h.callers.History(ctx)
	})
	if failFromService(c, err) {
		return
	}
	ok(c, http.StatusOK, data)
}

// UpdateCallType godoc
// @ID          updateCallType
// @Summary     Classify a call
// @Description Sets the Call Type of one Call History record, identified by its record id.
// @Tags        Callers
// @Accept      x-www-form-urlencoded
// @Produce     json
// @Param       id       formData string true "Call History record id"
// @Param       callType formData string true "No Action, Card Block, Card Unblock, Card Application, Inquiry or Fraud Alert"
// @Success     200 {object} map[string]any
// @Failure     400 {object} handlers.ErrorResponse
// @Router      /api/airtable/update/call-type [post]
func (h *Handlers) UpdateCallType(c *gin.Context) {
	id := c.PostForm("id")
	callType := c.PostForm("callType")
	if id == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `Missing required parameter: "id" is required to identify the call record`)
		return
	}
	if callType == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `Missing required parameter: "callType" is required for the update`)
		return
	}

	data, err := h.callers.UpdateCallType(c.Request.Context(), id, callType)
	if failFromService(c, err) {
		return
	}
	ok(c, http.StatusOK, data)
}
