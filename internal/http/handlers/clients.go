// Client HTTP handlers.
//
// This file exposes the REST endpoints for client records:
//   - POST /api/airtable/add/client           (intake find-or-create)
//   - GET  /api/airtable/get/clients          (list, cached)
//   - GET  /api/airtable/get/clients/{phone}  (phone search)
//   - GET  /api/airtable/get/{field}          (single field value)
//   - POST /api/airtable/update/{field}       (single field write)
//   - POST /api/airtable/update/client        (multi-field patch)
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AddClientRequest is the payload for the intake find-or-create endpoint.
// Accepts JSON or form encoding.
type AddClientRequest struct {
	// Phone in any common format; digits are extracted before lookup.
	Phone string `json:"phone" form:"phone" binding:"required" example:"+1-416-555-0100"`
}

// AddClient godoc
// @ID          addClient
// @Summary     Find or create a client
// @Description Looks up a client by phone and creates one when none exists. New records start the intake sequence (Status "New", first field pending).
// @Tags        Clients
// @Accept      json
// @Produce     json
// @Param       body body handlers.AddClientRequest true "Client phone"
// @Success     200 {object} map[string]any "Existing client (exists=true)"
// @Success     201 {object} map[string]any "Created client (exists=false)"
// @Failure     400 {object} handlers.ErrorResponse "Missing phone"
// @Failure     500 {object} handlers.ErrorResponse "Record store failure"
// @Router      /api/airtable/add/client [post]
func (h *Handlers) AddClient(c *gin.Context) {
	var req AddClientRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `Missing required parameter: "phone" is required`)
		return
	}

	data, existed, err := h.clients.FindOrCreate(c.Request.Context(), req.Phone)
	if failFromService(c, err) {
		return
	}

	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	okWith(c, status, gin.H{"data": data, "exists": existed})
}

// ListClients godoc
// @ID          listClients
// @Summary     List all clients
// @Description Returns every client record. Responses are served from a short-TTL cache; concurrent refreshes share one upstream read.
// @Tags        Clients
// @Produce     json
// @Success     200 {object} map[string]any
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/airtable/get/clients [get]
func (h *Handlers) ListClients(c *gin.Context) {
	data, err := h.cached(c.Request.Context(), cacheKeyClients, func(ctx context.Context) (any, error) {
		return h.clients.List(ctx)
	})
	if failFromService(c, err) {
		return
	}
	ok(c, http.StatusOK, data)
}

// SearchClients godoc
// @ID          searchClients
// @Summary     Search clients by phone
// @Description Digit-normalized substring match on the phone column. Query-secret authenticated (phone-system integration).
// @Tags        Clients
// @Produce     json
// @Param       phone    path  string true "Phone or suffix" example(4165550100)
// @Param       username query string true "Shared-secret user"
// @Param       password query string true "Shared-secret password"
// @Success     200 {object} map[string]any
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     404 {object} handlers.ErrorResponse "No match"
// @Router      /api/airtable/get/clients/{phone} [get]
func (h *Handlers) SearchClients(c *gin.Context) {
	phone := c.Param("phone")
	if phone == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `Missing required parameter: "phone" is required`)
		return
	}

	data, err := h.clients.SearchByPhone(c.Request.Context(), phone)
	if failFromService(c, err) {
		return
	}
	ok(c, http.StatusOK, data)
}

// GetClientField godoc
// @ID          getClientField
// @Summary     Read one client field
// @Description Returns the value of a single field on the client matching the phone query parameter. 404 when the client is unknown or the field is empty.
// @Tags        Clients
// @Produce     json
// @Param       field path  string true "Field name"                example(NEXT_FIELD_UPDATE)
// @Param       phone query string true "Client phone (any format)" example(+14165550100)
// @Success     200 {object} map[string]any
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     404 {object} handlers.ErrorResponse
// @Router      /api/airtable/get/{field} [get]
func (h *Handlers) GetClientField(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `Missing required parameter: "phone" is required`)
		return
	}

	value, err := h.clients.GetField(c.Request.Context(), phone, c.Param("field"))
	if failFromService(c, err) {
		return
	}
	ok(c, http.StatusOK, value)
}

// UpdateClientField godoc
// @ID          updateClientField
// @Summary     Write one client field
// @Description Writes the value query parameter into the named field of the client matching phone. next_field optionally moves the intake pointer in the same write. The response echoes the previous value.
// @Tags        Clients
// @Produce     json
// @Param       field      path  string true  "Field name"       example(Email)
// @Param       phone      query string true  "Client phone"     example(4165550100)
// @Param       value      query string true  "New field value"
// @Param       next_field query string false "New intake pointer"
// @Success     200 {object} map[string]any
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     404 {object} handlers.ErrorResponse
// @Router      /api/airtable/update/{field} [post]
func (h *Handlers) UpdateClientField(c *gin.Context) {
	phone := c.Query("phone")
	value := c.Query("value")
	if phone == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `Missing required parameter: "phone" is required`)
		return
	}
	if value == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `Missing required parameter: "value" is required`)
		return
	}

	field := c.Param("field")
	upd, err := h.clients.UpdateField(c.Request.Context(), phone, field, value, c.Query("next_field"))
	if failFromService(c, err) {
		return
	}

	okWith(c, http.StatusOK, gin.H{"data": gin.H{
		"message":       "Successfully updated " + field + " field",
		"updated":       upd.Updated,
		"originalValue": upd.OriginalValue,
		"newValue":      upd.NewValue,
		"nextField":     upd.NextField,
	}})
}

// UpdateClient godoc
// @ID          updateClient
// @Summary     Patch a client record
// @Description Multi-field update. Form data with Phone identifying the client; every submitted field is written as-is in one store call.
// @Tags        Clients
// @Accept      x-www-form-urlencoded
// @Produce     json
// @Param       Phone formData string true "Client phone"
// @Success     200 {object} map[string]any
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     404 {object} handlers.ErrorResponse
// @Router      /api/airtable/update/client [post]
func (h *Handlers) UpdateClient(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid form data")
		return
	}

	phone := c.PostForm("Phone")
	if phone == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Phone number is required to identify the client")
		return
	}

	fields := make(map[string]any, len(c.Request.PostForm))
	for k, vs := range c.Request.PostForm {
		if len(vs) > 0 {
			fields[k] = vs[0]
		}
	}
	if len(fields) == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "No fields provided for update")
		return
	}

	data, err := h.clients.UpdateFields(c.Request.Context(), phone, fields)
	if failFromService(c, err) {
		return
	}
	ok(c, http.StatusOK, data)
}
