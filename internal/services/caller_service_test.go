package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/valchyai/ops-backend/internal/airtable"
	"github.com/valchyai/ops-backend/internal/domain"
)

func TestCallerAdd_OptionalName(t *testing.T) {
	var created map[string]any
	store := &fakeStore{
		create: func(ctx context.Context, table string, fields map[string]any) (*airtable.Record, error) {
			if table != "Call History" {
				t.Errorf("table = %q", table)
			}
			created = fields
			return &airtable.Record{ID: "recCall", Fields: fields}, nil
		},
	}
	svc := NewCallerService(store, "Call History", nil, zerolog.Nop())

	if _, err := svc.Add(context.Background(), "+14165550100", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, ok := created[domain.FieldName]; ok {
		t.Fatalf("name stored despite being empty: %+v", created)
	}

	if _, err := svc.Add(context.Background(), "+14165550100", "Ada"); err != nil {
		t.Fatalf("Add with name: %v", err)
	}
	if created[domain.FieldName] != "Ada" {
		t.Fatalf("created = %+v", created)
	}
}

func TestUpdateCallType(t *testing.T) {
	store := &fakeStore{
		update: func(ctx context.Context, table, id string, fields map[string]any) (*airtable.Record, error) {
			if id != "recCall" || fields[domain.FieldCallType] != domain.CallTypeFraudAlert {
				t.Errorf("id=%q fields=%+v", id, fields)
			}
			return &airtable.Record{ID: id, Fields: fields}, nil
		},
	}
	svc := NewCallerService(store, "Call History", nil, zerolog.Nop())

	if _, err := svc.UpdateCallType(context.Background(), "recCall", domain.CallTypeFraudAlert); err != nil {
		t.Fatalf("UpdateCallType: %v", err)
	}

	if _, err := svc.UpdateCallType(context.Background(), "recCall", "Prank"); !errors.Is(err, ErrInvalidCallType) {
		t.Fatalf("err = %v", err)
	}
}
