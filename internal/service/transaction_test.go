package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"clarifi/internal/cache"
	"clarifi/internal/config"
	"clarifi/internal/database"
	"clarifi/internal/events"
	"clarifi/internal/models"
	"clarifi/internal/util"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.TransactionEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.TransactionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newTestService(t *testing.T) (*TransactionService, *cache.TransactionCache, *recordingPublisher) {
	t.Helper()
	c := cache.NewTransactionCache(100, time.Minute)
	pub := &recordingPublisher{}
	return NewTransactionService(setupTestDB(t), c, pub, zerolog.Nop()), c, pub
}

func sampleInput(desc string, date time.Time) CreateInput {
	return CreateInput{
		Amount:      decimal.RequireFromString("12.50"),
		Description: desc,
		Category:    "Groceries",
		Type:        models.TypeExpense,
		Date:        date,
	}
}

func isNotFound(err error) bool {
	var te *util.TransactionError
	return errors.As(err, &te) && te.NotFound
}

func TestTransactionService_CRUDRoundTrip(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	created, err := svc.Create(ctx, "alice", sampleInput("  Weekly shop  ", day))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create() did not assign an id")
	}
	if created.Description != "Weekly shop" {
		t.Errorf("Description = %q, want trimmed", created.Description)
	}

	got, err := svc.Get(ctx, "alice", created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("Amount = %s, want 12.50", got.Amount)
	}

	newAmount := decimal.RequireFromString("20")
	newCategory := "Dining Out"
	updated, err := svc.Update(ctx, "alice", created.ID, UpdateInput{Amount: &newAmount, Category: &newCategory})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.Amount.Equal(newAmount) || updated.Category != newCategory {
		t.Errorf("Update() = %s/%s, want 20/Dining Out", updated.Amount, updated.Category)
	}
	if updated.Description != "Weekly shop" {
		t.Errorf("Update() touched Description: %q", updated.Description)
	}

	if err := svc.Delete(ctx, "alice", created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, "alice", created.ID); !isNotFound(err) {
		t.Errorf("Get() after delete error = %v, want not found", err)
	}

	want := []string{events.ActionCreated, events.ActionUpdated, events.ActionDeleted}
	got2 := pub.actions()
	if len(got2) != len(want) {
		t.Fatalf("published %v, want %v", got2, want)
	}
	for i := range want {
		if got2[i] != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, got2[i], want[i])
		}
	}
}

func TestTransactionService_OwnerScoping(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tx, err := svc.Create(ctx, "alice", sampleInput("Alice only", time.Now()))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Get(ctx, "bob", tx.ID); !isNotFound(err) {
		t.Errorf("Get() as other user error = %v, want not found", err)
	}
	desc := "hijacked"
	if _, err := svc.Update(ctx, "bob", tx.ID, UpdateInput{Description: &desc}); !isNotFound(err) {
		t.Errorf("Update() as other user error = %v, want not found", err)
	}
	if err := svc.Delete(ctx, "bob", tx.ID); !isNotFound(err) {
		t.Errorf("Delete() as other user error = %v, want not found", err)
	}
	if n, err := svc.DeleteAll(ctx, "bob"); err != nil || n != 0 {
		t.Errorf("DeleteAll() as other user = %d, %v; want 0, nil", n, err)
	}

	list, err := svc.List(ctx, "bob")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List() for bob = %d rows, want 0", len(list))
	}

	still, err := svc.Get(ctx, "alice", tx.ID)
	if err != nil {
		t.Fatalf("Get() as owner error = %v", err)
	}
	if still.Description != "Alice only" {
		t.Errorf("Description = %q, want untouched", still.Description)
	}
}

func TestTransactionService_ListOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	for _, in := range []CreateInput{
		sampleInput("middle", base),
		sampleInput("oldest", base.AddDate(0, 0, -3)),
		sampleInput("newest", base.AddDate(0, 0, 2)),
	} {
		if _, err := svc.Create(ctx, "alice", in); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	list, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"newest", "middle", "oldest"}
	if len(list) != len(want) {
		t.Fatalf("List() len = %d, want %d", len(list), len(want))
	}
	for i, w := range want {
		if list[i].Description != w {
			t.Errorf("list[%d] = %s, want %s", i, list[i].Description, w)
		}
	}
}

func TestTransactionService_Validation(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		mod   func(in *CreateInput)
		field string
	}{
		{"zero amount", func(in *CreateInput) { in.Amount = decimal.Zero }, "amount"},
		{"negative amount", func(in *CreateInput) { in.Amount = decimal.NewFromInt(-5) }, "amount"},
		{"blank description", func(in *CreateInput) { in.Description = "   " }, "description"},
		{"missing category", func(in *CreateInput) { in.Category = "" }, "category"},
		{"bad type", func(in *CreateInput) { in.Type = "transfer" }, "type"},
		{"missing date", func(in *CreateInput) { in.Date = time.Time{} }, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleInput("ok", time.Now())
			tt.mod(&in)
			_, err := svc.Create(ctx, "alice", in)
			var ve *util.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Create() error = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}

	if _, err := svc.Update(ctx, "alice", "any", UpdateInput{}); err == nil {
		t.Error("Update() with empty patch error = nil")
	}
	if n := len(pub.actions()); n != 0 {
		t.Errorf("published %d events for rejected input, want 0", n)
	}
}

func TestTransactionService_CacheInvalidatedOnMutation(t *testing.T) {
	svc, c, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "alice", sampleInput("first", time.Now())); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	first, err := svc.Cached(ctx, "alice")
	if err != nil {
		t.Fatalf("Cached() error = %v", err)
	}
	if len(first) != 1 || c.Size() != 1 {
		t.Fatalf("Cached() = %d rows, cache size %d; want 1, 1", len(first), c.Size())
	}

	second, err := svc.Create(ctx, "alice", sampleInput("second", time.Now()))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if c.Size() != 0 {
		t.Errorf("cache size after Create = %d, want 0", c.Size())
	}
	list, err := svc.Cached(ctx, "alice")
	if err != nil {
		t.Fatalf("Cached() error = %v", err)
	}
	if len(list) != 2 {
		t.Errorf("Cached() after Create = %d rows, want 2", len(list))
	}

	if err := svc.Delete(ctx, "alice", second.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	list, err = svc.Cached(ctx, "alice")
	if err != nil {
		t.Fatalf("Cached() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Cached() after Delete = %d rows, want 1", len(list))
	}
}

func TestTransactionService_SeedAndDeleteAll(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)

	seeded, err := svc.Seed(ctx, "alice", now)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if len(seeded) != 5 {
		t.Fatalf("Seed() = %d rows, want 5", len(seeded))
	}
	for _, tx := range seeded {
		if tx.UserID != "alice" || tx.ID == "" {
			t.Errorf("seeded row %+v missing owner or id", tx)
		}
	}

	if _, err := svc.Create(ctx, "bob", sampleInput("bob's", now)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	n, err := svc.DeleteAll(ctx, "alice")
	if err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	if n != 5 {
		t.Errorf("DeleteAll() = %d, want 5", n)
	}
	bobs, _ := svc.List(ctx, "bob")
	if len(bobs) != 1 {
		t.Errorf("bob has %d rows after alice DeleteAll, want 1", len(bobs))
	}

	acts := pub.actions()
	if len(acts) < 1 || acts[0] != events.ActionSeeded {
		t.Errorf("first event = %v, want seeded", acts)
	}
	if acts[len(acts)-1] != events.ActionDeletedAll {
		t.Errorf("last event = %s, want deleted_all", acts[len(acts)-1])
	}
}

func TestTransactionService_PublishFailureDoesNotFailWrite(t *testing.T) {
	svc, _, pub := newTestService(t)
	pub.err = errors.New("broker down")

	if _, err := svc.Create(context.Background(), "alice", sampleInput("still saved", time.Now())); err != nil {
		t.Fatalf("Create() error = %v, want nil despite publish failure", err)
	}
	list, _ := svc.List(context.Background(), "alice")
	if len(list) != 1 {
		t.Errorf("List() = %d rows, want 1", len(list))
	}
}
