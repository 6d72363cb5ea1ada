// Audit HTTP handlers.
//
// This file exposes the read side of the local audit log:
//   - GET /api/audit  (recent outbound actions)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/valchyai/ops-backend/internal/utils"
)

// AuditLog godoc
// @ID          auditLog
// @Summary     List recent outbound actions
// @Description Returns the most recent audit entries (SMS sends, voice calls, webhook and card writes), newest first. Optionally filtered by target phone or card number.
// @Tags        Audit
// @Produce     json
// @Param       target query string false "Phone or card number filter"
// @Param       limit  query int    false "Max rows (default 50, cap 500)"
// @Success     200 {object} map[string]any
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/audit [get]
func (h *Handlers) AuditLog(c *gin.Context) {
	target := c.Query("target")
	if target != "" {
		target = utils.NormalizePhone(target)
	}
	limit := utils.AtoiDefault(c.Query("limit"), 50)

	rows, err := h.audits.List(c.Request.Context(), target, limit)
	if failFromService(c, err) {
		return
	}
	ok(c, http.StatusOK, rows)
}
