package logging_test

import (
	"context"
	"testing"

	"biobridge/internal/logging"
	"biobridge/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewJSONLoggerToFile(t *testing.T) {
	path := t.TempDir() + "/run/biobridge.log"
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("pipeline started", logging.String(logging.FieldRunID, "test"))
}

func TestWithContextAddsRunFields(t *testing.T) {
	ctx := services.WithRunID(context.Background(), "run-123")
	ctx = services.WithStage(ctx, "gene_symbol_bridge")

	fields := logging.ContextFields(ctx)
	if len(fields) != 2 {
		t.Fatalf("expected 2 context fields, got %d", len(fields))
	}
	keys := map[string]bool{}
	for _, attr := range fields {
		keys[attr.Key] = true
	}
	if !keys[logging.FieldRunID] || !keys[logging.FieldStage] {
		t.Fatalf("missing expected keys in %v", keys)
	}
}

func TestWithContextNilLogger(t *testing.T) {
	logger := logging.WithContext(context.Background(), nil)
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	logger.Info("noop")
}
