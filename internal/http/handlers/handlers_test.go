package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/valchyai/ops-backend/internal/cache"
	"github.com/valchyai/ops-backend/internal/domain"
	"github.com/valchyai/ops-backend/internal/services"
	"github.com/valchyai/ops-backend/internal/twilio"
)

// --- fake services driven by func fields ---

type fakeClients struct {
	list         func(ctx context.Context) ([]map[string]any, error)
	search       func(ctx context.Context, phone string) ([]map[string]any, error)
	findOrCreate func(ctx context.Context, phone string) (map[string]any, bool, error)
	getField     func(ctx context.Context, phone, field string) (any, error)
	updateField  func(ctx context.Context, phone, field, value, next string) (*services.FieldUpdate, error)
	updateFields func(ctx context.Context, phone string, fields map[string]any) (map[string]any, error)
}

func (f *fakeClients) List(ctx context.Context) ([]map[string]any, error) { return f.list(ctx) }
func (f *fakeClients) SearchByPhone(ctx context.Context, phone string) ([]map[string]any, error) {
	return f.search(ctx, phone)
}
func (f *fakeClients) FindOrCreate(ctx context.Context, phone string) (map[string]any, bool, error) {
	return f.findOrCreate(ctx, phone)
}
func (f *fakeClients) GetField(ctx context.Context, phone, field string) (any, error) {
	return f.getField(ctx, phone, field)
}
func (f *fakeClients) UpdateField(ctx context.Context, phone, field, value, next string) (*services.FieldUpdate, error) {
	return f.updateField(ctx, phone, field, value, next)
}
func (f *fakeClients) UpdateFields(ctx context.Context, phone string, fields map[string]any) (map[string]any, error) {
	return f.updateFields(ctx, phone, fields)
}

type fakeCards struct {
	list         func(ctx context.Context) ([]map[string]any, error)
	listByPhone  func(ctx context.Context, phone string) ([]map[string]any, error)
	issue        func(ctx context.Context, phone, cardType, status string) (map[string]any, error)
	updateStatus func(ctx context.Context, cardNumber, status string) (map[string]any, error)
}

func (f *fakeCards) List(ctx context.Context) ([]map[string]any, error) { return f.list(ctx) }
func (f *fakeCards) ListByPhone(ctx context.Context, phone string) ([]map[string]any, error) {
	return f.listByPhone(ctx, phone)
}
func (f *fakeCards) Issue(ctx context.Context, phone, cardType, status string) (map[string]any, error) {
	return f.issue(ctx, phone, cardType, status)
}
func (f *fakeCards) UpdateStatus(ctx context.Context, cardNumber, status string) (map[string]any, error) {
	return f.updateStatus(ctx, cardNumber, status)
}

type fakeCallers struct {
	add        func(ctx context.Context, phone, name string) (map[string]any, error)
	history    func(ctx context.Context) ([]map[string]any, error)
	updateType func(ctx context.Context, id, callType string) (map[string]any, error)
}

func (f *fakeCallers) Add(ctx context.Context, phone, name string) (map[string]any, error) {
	return f.add(ctx, phone, name)
}
func (f *fakeCallers) History(ctx context.Context) ([]map[string]any, error) {
	return f.history(ctx)
}
func (f *fakeCallers) UpdateCallType(ctx context.Context, id, callType string) (map[string]any, error) {
	return f.updateType(ctx, id, callType)
}

type fakeMessaging struct {
	send   func(ctx context.Context, to, body string) (*twilio.Message, error)
	status func(ctx context.Context, sid string) (*twilio.Message, error)
	call   func(ctx context.Context, phone, name string) error
}

func (f *fakeMessaging) SendSMS(ctx context.Context, to, body string) (*twilio.Message, error) {
	return f.send(ctx, to, body)
}
func (f *fakeMessaging) MessageStatus(ctx context.Context, sid string) (*twilio.Message, error) {
	return f.status(ctx, sid)
}
func (f *fakeMessaging) Call(ctx context.Context, phone, name string) error {
	return f.call(ctx, phone, name)
}

type fakeWebhook struct {
	process func(ctx context.Context, sid, from, body string) (*services.InboundResult, error)
}

func (f *fakeWebhook) Process(ctx context.Context, sid, from, body string) (*services.InboundResult, error) {
	return f.process(ctx, sid, from, body)
}

type fakeAudits struct {
	list func(ctx context.Context, target string, limit int) ([]domain.AuditEntry, error)
}

func (f *fakeAudits) List(ctx context.Context, target string, limit int) ([]domain.AuditEntry, error) {
	return f.list(ctx, target, limit)
}

// --- helpers ---

func serve(t *testing.T, h *Handlers, register func(*gin.Engine, *Handlers), req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r, h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func formReq(method, target, form string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// --- clients ---

func TestAddClient_CreatedAndExisting(t *testing.T) {
	for _, tc := range []struct {
		name       string
		existed    bool
		wantStatus int
	}{
		{"created", false, http.StatusCreated},
		{"existing", true, http.StatusOK},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := New(&fakeClients{
				findOrCreate: func(_ context.Context, phone string) (map[string]any, bool, error) {
					if phone != "+14165550100" {
						t.Fatalf("phone = %q", phone)
					}
					return map[string]any{"id": "rec1"}, tc.existed, nil
				},
			}, nil, nil, nil, nil, nil, nil)

			req := formReq(http.MethodPost, "/add/client", "phone=%2B14165550100")
			w := serve(t, h, func(r *gin.Engine, h *Handlers) { r.POST("/add/client", h.AddClient) }, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			body := decode(t, w)
			if body["success"] != true {
				t.Fatalf("success = %v", body["success"])
			}
			if body["exists"] != tc.existed {
				t.Fatalf("exists = %v, want %v", body["exists"], tc.existed)
			}
		})
	}
}

func TestAddClient_MissingPhone(t *testing.T) {
	h := New(&fakeClients{}, nil, nil, nil, nil, nil, nil)
	req := formReq(http.MethodPost, "/add/client", "")
	w := serve(t, h, func(r *gin.Engine, h *Handlers) { r.POST("/add/client", h.AddClient) }, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	if body["success"] != false || body["error"] == "" {
		t.Fatalf("unexpected envelope: %v", body)
	}
}

func TestGetClientField_NotFoundMapping(t *testing.T) {
	h := New(&fakeClients{
		getField: func(context.Context, string, string) (any, error) {
			return nil, services.ErrFieldEmpty
		},
	}, nil, nil, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/get/Email?phone=4165550100", nil)
	w := serve(t, h, func(r *gin.Engine, h *Handlers) { r.GET("/get/:field", h.GetClientField) }, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if body := decode(t, w); body["code"] != ErrCodeNotFound {
		t.Fatalf("code = %v", body["code"])
	}
}

func TestUpdateClientField_EchoesOriginalValue(t *testing.T) {
	h := New(&fakeClients{
		updateField: func(_ context.Context, phone, field, value, next string) (*services.FieldUpdate, error) {
			if field != "Email" || value != "a@b.c" || next != "Birthday" {
				t.Fatalf("args = %q %q %q", field, value, next)
			}
			return &services.FieldUpdate{
				Updated:       map[string]any{"Email": "a@b.c"},
				OriginalValue: "old@b.c",
				NewValue:      "a@b.c",
				NextField:     "Birthday",
			}, nil
		},
	}, nil, nil, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost,
		"/update/Email?phone=4165550100&value=a%40b.c&next_field=Birthday", nil)
	w := serve(t, h, func(r *gin.Engine, h *Handlers) { r.POST("/update/:field", h.UpdateClientField) }, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	data, _ := body["data"].(map[string]any)
	if data["originalValue"] != "old@b.c" || data["newValue"] != "a@b.c" {
		t.Fatalf("data = %v", data)
	}
}

func TestUpdateClient_RequiresPhone(t *testing.T) {
	h := New(&fakeClients{}, nil, nil, nil, nil, nil, nil)
	req := formReq(http.MethodPost, "/update/client", "FirstName=Ada")
	w := serve(t, h, func(r *gin.Engine, h *Handlers) { r.POST("/update/client", h.UpdateClient) }, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestUpdateClient_PatchesAllFields(t *testing.T) {
	var got map[string]any
	h := New(&fakeClients{
		updateFields: func(_ context.Context, phone string, fields map[string]any) (map[string]any, error) {
			got = fields
			return map[string]any{"id": "rec1"}, nil
		},
	}, nil, nil, nil, nil, nil, nil)

	req := formReq(http.MethodPost, "/update/client", "Phone=4165550100&FirstName=Ada&Status=Active")
	w := serve(t, h, func(r *gin.Engine, h *Handlers) { r.POST("/update/client", h.UpdateClient) }, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if got["FirstName"] != "Ada" || got["Status"] != "Active" {
		t.Fatalf("fields = %v", got)
	}
}

// --- cards ---

func TestAddCard_Created(t *testing.T) {
	h := New(nil, &fakeCards{
		issue: func(_ context.Context, phone, cardType, status string) (map[string]any, error) {
			if cardType != "Debit" {
				t.Fatalf("type = %q", cardType)
			}
			return map[string]any{"Card Number": "4111111111111111"}, nil
		},
	}, nil, nil, nil, nil, nil)

	req := formReq(http.MethodPost, "/add/card", "phone=4165550100&type=Debit")
	w := serve(t, h, func(r *gin.Engine, h *Handlers) { r.POST("/add/card", h.AddCard) }, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
}

func TestAddCard_ExhaustionMapsTo500(t *testing.T) {
	h := New(nil, &fakeCards{
		issue: func(context.Context, string, string, string) (map[string]any, error) {
			return nil, services.ErrCardExhausted
		},
	}, nil, nil, nil, nil, nil)

	req := formReq(http.MethodPost, "/add/card", "phone=4165550100&type=Debit")
	w := serve(t, h, func(r *gin.Engine, h *Handlers) { r.POST("/add/card", h.AddCard) }, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if body := decode(t, w); body["code"] != ErrCodeCardExhausted {
		t.Fatalf("code = %v", body["code"])
	}
}

func TestUpdateCardStatus_InvalidEnum(t *testing.T) {
	h := New(nil, &fakeCards{
		updateStatus: func(context.Context, string, string) (map[string]any, error) {
			return nil, services.ErrInvalidCardStatus
		},
	}, nil, nil, nil, nil, nil)

	req := formReq(http.MethodPost, "/update/card/4111111111111111", "status=Frozen")
	w := serve(t, h, func(r *gin.Engine, h *Handlers) { r.POST("/update/card/:cardNumber", h.UpdateCardStatus) }, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

// --- webhook ---

func TestWebhook_MissingParams(t *testing.T) {
	h := New(nil, nil, nil, nil, &fakeWebhook{}, nil, nil)
	register := func(r *gin.Engine, h *Handlers) { r.POST("/webhook", h.Webhook) }

	w := serve(t, h, register, formReq(http.MethodPost, "/webhook", "From=%2B14165550100"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing Body: status = %d", w.Code)
	}
	if body := decode(t, w); body["error"] != "Missing required parameter: Body" {
		t.Fatalf("error = %v", body["error"])
	}

	w = serve(t, h, register, formReq(http.MethodPost, "/webhook", "Body=Ada"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing From: status = %d", w.Code)
	}
	if body := decode(t, w); body["error"] != "Missing required parameter: From" {
		t.Fatalf("error = %v", body["error"])
	}
}

func TestWebhook_Success(t *testing.T) {
	h := New(nil, nil, nil, nil, &fakeWebhook{
		process: func(_ context.Context, sid, from, body string) (*services.InboundResult, error) {
			if sid != "SM123" || from != "+14165550100" || body != "Ada" {
				t.Fatalf("args = %q %q %q", sid, from, body)
			}
			return &services.InboundResult{
				Field:     "FirstName",
				Value:     "Ada",
				NextField: "LastName",
				Updated:   map[string]any{"FirstName": "Ada"},
			}, nil
		},
	}, nil, nil)

	req := formReq(http.MethodPost, "/webhook", "From=%2B14165550100&Body=Ada&MessageSid=SM123")
	w := serve(t, h, func(r *gin.Engine, h *Handlers) { r.POST("/webhook", h.Webhook) }, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["message"] != "Successfully processed SMS and updated FirstName field" {
		t.Fatalf("message = %v", body["message"])
	}
	if body["nextField"] != "LastName" {
		t.Fatalf("nextField = %v", body["nextField"])
	}
}

func TestWebhook_ErrorMapping(t *testing.T) {
	for _, tc := range []struct {
		name     string
		err      error
		wantCode int
	}{
		{"unknown sender", services.ErrClientNotFound, http.StatusNotFound},
		{"no pending field", services.ErrNoPendingField, http.StatusNotFound},
		{"intake complete", services.ErrIntakeComplete, http.StatusConflict},
		{"duplicate delivery", services.ErrDuplicateDelivery, http.StatusConflict},
		{"bad pointer", services.ErrInvalidIntakeField, http.StatusBadRequest},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := New(nil, nil, nil, nil, &fakeWebhook{
				process: func(context.Context, string, string, string) (*services.InboundResult, error) {
					return nil, tc.err
				},
			}, nil, nil)

			req := formReq(http.MethodPost, "/webhook", "From=%2B14165550100&Body=x")
			w := serve(t, h, func(r *gin.Engine, h *Handlers) { r.POST("/webhook", h.Webhook) }, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantCode)
			}
		})
	}
}

// --- messaging ---

func TestSendSMS_ReturnsCarrierIDs(t *testing.T) {
	h := New(nil, nil, nil, &fakeMessaging{
		send: func(_ context.Context, to, body string) (*twilio.Message, error) {
			return &twilio.Message{Sid: "SM9", Status: "queued"}, nil
		},
	}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/sms/send",
		strings.NewReader(`{"to":"+14165550100","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(t, h, func(r *gin.Engine, h *Handlers) { r.POST("/sms/send", h.SendSMS) }, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	data, _ := body["data"].(map[string]any)
	if data["messageId"] != "SM9" || data["status"] != "queued" {
		t.Fatalf("data = %v", data)
	}
}

func TestSendSMS_CarrierFailure(t *testing.T) {
	h := New(nil, nil, nil, &fakeMessaging{
		send: func(context.Context, string, string) (*twilio.Message, error) {
			return nil, errors.New("carrier down")
		},
	}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/sms/send",
		strings.NewReader(`{"to":"+14165550100","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(t, h, func(r *gin.Engine, h *Handlers) { r.POST("/sms/send", h.SendSMS) }, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if body := decode(t, w); body["code"] != ErrCodeUpstream {
		t.Fatalf("code = %v", body["code"])
	}
}

func TestVoiceCall_MissingPhone(t *testing.T) {
	h := New(nil, nil, nil, &fakeMessaging{}, nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/call", nil)
	w := serve(t, h, func(r *gin.Engine, h *Handlers) { r.GET("/call", h.VoiceCall) }, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

// --- callers ---

func TestUpdateCallType_MissingParams(t *testing.T) {
	h := New(nil, nil, &fakeCallers{}, nil, nil, nil, nil)
	register := func(r *gin.Engine, h *Handlers) { r.POST("/update/call-type", h.UpdateCallType) }

	w := serve(t, h, register, formReq(http.MethodPost, "/update/call-type", "callType=Inquiry"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing id: status = %d", w.Code)
	}
	w = serve(t, h, register, formReq(http.MethodPost, "/update/call-type", "id=rec1"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing callType: status = %d", w.Code)
	}
}

// --- caching ---

func TestListClients_ServedThroughCache(t *testing.T) {
	calls := 0
	h := New(&fakeClients{
		list: func(context.Context) ([]map[string]any, error) {
			calls++
			return []map[string]any{{"id": "rec1"}}, nil
		},
	}, nil, nil, nil, nil, nil, cache.New(time.Minute))

	register := func(r *gin.Engine, h *Handlers) { r.GET("/get/clients", h.ListClients) }
	for i := 0; i < 3; i++ {
		w := serve(t, h, register, httptest.NewRequest(http.MethodGet, "/get/clients", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
	if calls != 1 {
		t.Fatalf("upstream calls = %d, want 1", calls)
	}
}

func TestListClients_NilCacheHitsService(t *testing.T) {
	calls := 0
	h := New(&fakeClients{
		list: func(context.Context) ([]map[string]any, error) {
			calls++
			return nil, nil
		},
	}, nil, nil, nil, nil, nil, nil)

	register := func(r *gin.Engine, h *Handlers) { r.GET("/get/clients", h.ListClients) }
	for i := 0; i < 2; i++ {
		serve(t, h, register, httptest.NewRequest(http.MethodGet, "/get/clients", nil))
	}
	if calls != 2 {
		t.Fatalf("upstream calls = %d, want 2", calls)
	}
}

// --- audit ---

func TestAuditLog_NormalizesTargetAndLimit(t *testing.T) {
	var gotTarget string
	var gotLimit int
	h := New(nil, nil, nil, nil, nil, &fakeAudits{
		list: func(_ context.Context, target string, limit int) ([]domain.AuditEntry, error) {
			gotTarget, gotLimit = target, limit
			return nil, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/audit?target=%2B1-416-555-0100&limit=7", nil)
	w := serve(t, h, func(r *gin.Engine, h *Handlers) { r.GET("/audit", h.AuditLog) }, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if gotTarget != "4165550100" {
		t.Fatalf("target = %q", gotTarget)
	}
	if gotLimit != 7 {
		t.Fatalf("limit = %d", gotLimit)
	}
}
