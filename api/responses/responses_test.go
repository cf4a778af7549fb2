package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	pkgerrors "github.com/carlosmendieta/modique-backend/pkg/errors"
	"github.com/carlosmendieta/modique-backend/pkg/logger"
)

func testLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "modique-test",
		Level:       zerolog.DebugLevel,
		Output:      buf,
	})
}

func TestWriteSuccessEncodesPayload(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteSuccess(rec, map[string]string{"message": "Cart retrieved successfully"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "Cart retrieved successfully" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestWriteSuccessStatusOverridesCode(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteSuccessStatus(rec, http.StatusCreated, map[string]string{"message": "created"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestWriteErrorSurfacesNotFoundMessage(t *testing.T) {
	var buf bytes.Buffer
	rec := httptest.NewRecorder()

	WriteError(context.Background(), testLogger(&buf), rec, pkgerrors.NotFoundf("Order not found"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code %q", body.Code)
	}
	if body.Message != "Order not found" {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if !strings.Contains(buf.String(), "request.error") {
		t.Fatalf("expected request.error log entry, got %s", buf.String())
	}
}

func TestWriteErrorHidesInternalMessage(t *testing.T) {
	var buf bytes.Buffer
	rec := httptest.NewRecorder()

	WriteError(context.Background(), testLogger(&buf), rec, pkgerrors.New(pkgerrors.CodeInternal, "pg connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if strings.Contains(body.Message, "pg connection refused") {
		t.Fatalf("internal detail leaked: %q", body.Message)
	}
}

func TestWriteErrorWrapsUntypedErrors(t *testing.T) {
	var buf bytes.Buffer
	rec := httptest.NewRecorder()

	WriteError(context.Background(), testLogger(&buf), rec, context.DeadlineExceeded)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected code %q", body.Code)
	}
}

func TestWriteErrorIncludesValidationDetails(t *testing.T) {
	var buf bytes.Buffer
	rec := httptest.NewRecorder()

	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"size": "required"})

	WriteError(context.Background(), testLogger(&buf), rec, err)

	var body ErrorBody
	if decodeErr := json.NewDecoder(rec.Body).Decode(&body); decodeErr != nil {
		t.Fatalf("decode body: %v", decodeErr)
	}
	if body.Details == nil {
		t.Fatalf("expected details, got nil")
	}
}
