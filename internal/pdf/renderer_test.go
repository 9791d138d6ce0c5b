package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/Umair-Web/BTOBPortal/internal/config"
)

func TestRenderQuotationStopsOnCancel(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a unix shell")
	}
	bin := filepath.Join(t.TempDir(), "wkhtmltopdf")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\nexec sleep 30\n"), 0o755); err != nil {
		t.Fatalf("write stand-in binary failed: %v", err)
	}
	renderer := NewRenderer(config.QuotationConfig{WkhtmltopdfBin: bin})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	started := time.Now()
	_, err := renderer.RenderQuotation(ctx, QuotationDocument{Title: "QUOTATION", Number: "QT-1-1"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded got %v", err)
	}
	if elapsed := time.Since(started); elapsed > 10*time.Second {
		t.Fatalf("render should stop with the request, took %s", elapsed)
	}
}

func TestRenderQuotationRejectsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRenderer(config.QuotationConfig{}).RenderQuotation(ctx, QuotationDocument{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want canceled got %v", err)
	}
}
