// SMS HTTP handlers.
//
// This file exposes the carrier-facing SMS endpoints:
//   - POST /api/twilio/sms/send   (outbound message)
//   - GET  /api/twilio/sms/{sid}  (delivery status)
//   - POST /api/twilio/webhook    (inbound SMS ingestion)
//
// The webhook is the write side of the intake sequence: the carrier posts
// form-encoded From/Body/MessageSid, and the body is written into the field
// named by the client's pending-field pointer.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SendSMSRequest is the payload for sending an outbound message.
type SendSMSRequest struct {
	// To is the destination phone number.
	To string `json:"to" form:"to" binding:"required" example:"+14165550100"`
	// Message is the SMS body.
	Message string `json:"message" form:"message" binding:"required" example:"Please reply with your first name."`
}

// SendSMS godoc
// @ID          sendSMS
// @Summary     Send an SMS
// @Description Submits one outbound message through the carrier. Single attempt; carrier errors are surfaced, not retried.
// @Tags        SMS
// @Accept      json
// @Produce     json
// @Param       body body handlers.SendSMSRequest true "Message"
// @Success     200 {object} map[string]any "Carrier message id and initial status"
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse "Carrier failure"
// @Router      /api/twilio/sms/send [post]
func (h *Handlers) SendSMS(c *gin.Context) {
	var req SendSMSRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `Missing required parameters: "to" and "message" are required`)
		return
	}

	msg, err := h.msg.SendSMS(c.Request.Context(), req.To, req.Message)
	if failFromService(c, err) {
		return
	}
	ok(c, http.StatusOK, gin.H{"messageId": msg.Sid, "status": msg.Status})
}

// GetSMS godoc
// @ID          getSMS
// @Summary     Fetch SMS status
// @Description Returns the carrier's current view of a previously sent message.
// @Tags        SMS
// @Produce     json
// @Param       sid path string true "Carrier message SID" example(SM1a2b3c)
// @Success     200 {object} map[string]any
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/twilio/sms/{sid} [get]
func (h *Handlers) GetSMS(c *gin.Context) {
	msg, err := h.msg.MessageStatus(c.Request.Context(), c.Param("sid"))
	if failFromService(c, err) {
		return
	}
	ok(c, http.StatusOK, msg)
}

// Webhook godoc
// @ID          smsWebhook
// @Summary     Ingest an inbound SMS
// @Description Carrier webhook. Writes the message body into the field named by the sender's pending-field pointer and advances the pointer. Deliveries are deduplicated by MessageSid; redeliveries answer 409. Query-secret authenticated.
// @Tags        SMS
// @Accept      x-www-form-urlencoded
// @Produce     json
// @Param       From       formData string true  "Sender phone"
// @Param       Body       formData string true  "Message text"
// @Param       MessageSid formData string false "Carrier delivery id"
// @Param       username   query    string true  "Shared-secret user"
// @Param       password   query    string true  "Shared-secret password"
// @Success     200 {object} map[string]any
// @Failure     400 {object} handlers.ErrorResponse "Missing From or Body"
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     404 {object} handlers.ErrorResponse "Unknown sender or no pending field"
// @Failure     409 {object} handlers.ErrorResponse "Duplicate delivery or completed intake"
// @Router      /api/twilio/webhook [post]
func (h *Handlers) Webhook(c *gin.Context) {
	body := c.PostForm("Body")
	from := c.PostForm("From")
	if body == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Missing required parameter: Body")
		return
	}
	if from == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Missing required parameter: From")
		return
	}

	res, err := h.webhook.Process(c.Request.Context(), c.PostForm("MessageSid"), from, body)
	if failFromService(c, err) {
		return
	}

	okWith(c, http.StatusOK, gin.H{
		"message":     "Successfully processed SMS and updated " + res.Field + " field",
		"smsText":     res.Value,
		"updatedData": res.Updated,
		"nextField":   res.NextField,
	})
}
