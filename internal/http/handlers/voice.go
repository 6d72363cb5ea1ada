// Voice HTTP handlers.
//
// This file exposes the outbound voice call endpoint:
//   - GET /api/voiceflow/call  (trigger fraud-alert call)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// VoiceCall godoc
// @ID          voiceCall
// @Summary     Trigger a fraud-alert call
// @Description Starts an outbound conversational voice call to the given phone number. The optional name personalizes the agent's greeting.
// @Tags        Voice
// @Produce     json
// @Param       phone query string true  "Destination phone" example(+14165550100)
// @Param       name  query string false "Client name"
// @Success     200 {object} map[string]any
// @Failure     400 {object} handlers.ErrorResponse "Missing phone"
// @Failure     500 {object} handlers.ErrorResponse "Voice runtime failure"
// @Router      /api/voiceflow/call [get]
func (h *Handlers) VoiceCall(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `Missing required parameter: "phone" is required`)
		return
	}

	if err := h.msg.Call(c.Request.Context(), phone, c.Query("name")); failFromService(c, err) {
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Call triggered"})
}
