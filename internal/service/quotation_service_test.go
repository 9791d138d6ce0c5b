package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/Umair-Web/BTOBPortal/internal/cart"
	"github.com/Umair-Web/BTOBPortal/internal/config"
	"github.com/Umair-Web/BTOBPortal/internal/constants"
	"github.com/Umair-Web/BTOBPortal/internal/models"
	"github.com/Umair-Web/BTOBPortal/internal/pdf"
	"github.com/Umair-Web/BTOBPortal/internal/repository"
)

type fakeRenderer struct {
	err  error
	docs []pdf.QuotationDocument
}

func (r *fakeRenderer) RenderQuotation(ctx context.Context, doc pdf.QuotationDocument) ([]byte, error) {
	r.docs = append(r.docs, doc)
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

type failingQuotationRepo struct{}

func (failingQuotationRepo) Create(*models.Quotation) error {
	return errors.New("disk full")
}

func (failingQuotationRepo) List(repository.QuotationListFilter) ([]models.Quotation, int64, error) {
	return nil, 0, nil
}

var quotationNumberPattern = regexp.MustCompile(`^QT-\d{13}-\d{1,3}$`)

func sampleLines() []cart.Line {
	return []cart.Line{
		{ProductID: 1, Name: "Chair", Price: money("10.00"), Quantity: 2, ColorVariant: "Red"},
		{ProductID: 2, Name: "Desk", Price: money("25.50"), Quantity: 1, ColorVariant: "Default"},
	}
}

func TestQuotationGenerateRendersAndRecords(t *testing.T) {
	db := setupServiceTestDB(t)
	renderer := &fakeRenderer{}
	svc := NewQuotationService(repository.NewQuotationRepository(db), renderer, testGuard, config.QuotationConfig{})
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }
	_, actor := createServiceTestUser(t, db, "buyer@example.com", constants.RoleUser)

	result, err := svc.Generate(context.Background(), actor, sampleLines())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !quotationNumberPattern.MatchString(result.Number) {
		t.Fatalf("unexpected quotation number: %s", result.Number)
	}
	if string(result.Document) != "%PDF-1.4 fake" || result.Record == nil || result.Record.ID == 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Record.TotalAmount.String() != "45.50" {
		t.Fatalf("total want 45.50 got %s", result.Record.TotalAmount.String())
	}

	doc := renderer.docs[0]
	if doc.Company != "B2B Portal" || doc.Title != "QUOTATION" || doc.CustomerEmail != "buyer@example.com" || doc.Date != "2026-10-16" {
		t.Fatalf("unexpected document header: %+v", doc)
	}
	if len(doc.Rows) != 2 || doc.Rows[0].UnitPrice != "PKR 10.00" || doc.Rows[0].Total != "PKR 20.00" || doc.Rows[1].Index != 2 {
		t.Fatalf("unexpected rows: %+v", doc.Rows)
	}
	if doc.GrandTotal != "PKR 45.50" {
		t.Fatalf("unexpected grand total: %s", doc.GrandTotal)
	}

	records, total, err := svc.List(context.Background(), actor, 1, 20)
	if err != nil || total != 1 || records[0].QuotationNumber != result.Number {
		t.Fatalf("record not listed: %v %d %+v", err, total, records)
	}
}

func TestQuotationRenderFailureWritesNoRecord(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewQuotationService(repository.NewQuotationRepository(db), &fakeRenderer{err: errors.New("wkhtmltopdf missing")}, testGuard, config.QuotationConfig{})
	_, actor := createServiceTestUser(t, db, "buyer@example.com", constants.RoleUser)

	result, err := svc.Generate(context.Background(), actor, sampleLines())
	if !errors.Is(err, ErrQuotationRenderFailed) || KindOf(err) != KindDependency || result != nil {
		t.Fatalf("want render failure got %v / %+v", err, result)
	}
	var count int64
	db.Model(&models.Quotation{}).Count(&count)
	if count != 0 {
		t.Fatalf("render failure must not write a record, got %d", count)
	}
}

func TestQuotationRecordFailureStillReturnsDocument(t *testing.T) {
	svc := NewQuotationService(failingQuotationRepo{}, &fakeRenderer{}, testGuard, config.QuotationConfig{Currency: "USD"})
	actor := adminActor()

	result, err := svc.Generate(context.Background(), actor, sampleLines())
	if !errors.Is(err, ErrQuotationRecordFailed) {
		t.Fatalf("want ErrQuotationRecordFailed got %v", err)
	}
	if result == nil || len(result.Document) == 0 || result.Record != nil {
		t.Fatalf("document should still be returned without a record: %+v", result)
	}
}

func TestQuotationGenerateValidation(t *testing.T) {
	svc := NewQuotationService(failingQuotationRepo{}, &fakeRenderer{}, testGuard, config.QuotationConfig{})
	if _, err := svc.Generate(context.Background(), nil, sampleLines()); KindOf(err) != KindAuthorization {
		t.Fatalf("want authorization error got %v", err)
	}
	if _, err := svc.Generate(context.Background(), adminActor(), nil); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("want ErrCartEmpty got %v", err)
	}
}

func TestQuotationRecordClientSnapshot(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewQuotationService(repository.NewQuotationRepository(db), &fakeRenderer{}, testGuard, config.QuotationConfig{})
	_, actor := createServiceTestUser(t, db, "buyer@example.com", constants.RoleUser)
	ctx := context.Background()

	if _, err := svc.Record(ctx, actor, RecordQuotationInput{Items: sampleLines()}); !errors.Is(err, ErrQuotationNumberRequired) {
		t.Fatalf("want ErrQuotationNumberRequired got %v", err)
	}
	if _, err := svc.Record(ctx, actor, RecordQuotationInput{QuotationNumber: "QT-1-1"}); !errors.Is(err, ErrQuotationItemsRequired) {
		t.Fatalf("want ErrQuotationItemsRequired got %v", err)
	}

	record, err := svc.Record(ctx, actor, RecordQuotationInput{QuotationNumber: "QT-1-1", Items: sampleLines()})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	// 单号不要求唯一
	if _, err := svc.Record(ctx, actor, RecordQuotationInput{QuotationNumber: "QT-1-1", Items: sampleLines()}); err != nil {
		t.Fatalf("duplicate quotation numbers are allowed: %v", err)
	}

	var stored models.Quotation
	if err := db.First(&stored, record.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	items, ok := stored.Items["items"].([]interface{})
	if !ok || len(items) != 2 {
		t.Fatalf("unexpected items snapshot: %+v", stored.Items)
	}
	if stored.UserID != actor.UserID || stored.TotalAmount.String() != "45.50" {
		t.Fatalf("unexpected record: %+v", stored)
	}
}
