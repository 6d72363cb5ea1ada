package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("ACtest", "token", "+15550001111",
		WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithPacer(0, 0))
}

func TestSendSMS(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/2010-04-01/Accounts/ACtest/Messages.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "ACtest" || pass != "token" {
			t.Errorf("basic auth = %q/%q/%v", user, pass, ok)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("To") != "+15557654321" || r.PostForm.Get("From") != "+15550001111" {
			t.Errorf("form = %+v", r.PostForm)
		}
		if r.PostForm.Get("Body") != "hello" {
			t.Errorf("body = %q", r.PostForm.Get("Body"))
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Message{Sid: "SM123", Status: "queued"})
	})

	msg, err := c.SendSMS(context.Background(), "+15557654321", "hello")
	if err != nil {
		t.Fatalf("SendSMS: %v", err)
	}
	if msg.Sid != "SM123" || msg.Status != "queued" {
		t.Fatalf("msg = %+v", msg)
	}
}

func TestGetMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2010-04-01/Accounts/ACtest/Messages/SM123.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(Message{Sid: "SM123", Status: "delivered"})
	})

	msg, err := c.GetMessage(context.Background(), "SM123")
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if msg.Status != "delivered" {
		t.Fatalf("msg = %+v", msg)
	}
}

func TestSendSMS_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"Invalid 'To' Phone Number"}`))
	})

	_, err := c.SendSMS(context.Background(), "garbage", "hi")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != 21211 {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

func TestWait_RespectsCancelledContext(t *testing.T) {
	c := NewClient("ACtest", "token", "+15550001111", WithPacer(0.0001, 1))
	// Drain the single burst token.
	_ = c.pacer.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.wait(ctx); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
