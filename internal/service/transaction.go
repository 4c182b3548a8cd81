package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"clarifi/internal/cache"
	"clarifi/internal/events"
	"clarifi/internal/models"
	"clarifi/internal/util"
)

// CreateInput is a validated-on-create transaction payload.
type CreateInput struct {
	Amount      decimal.Decimal
	Description string
	Category    string
	Type        models.TransactionType
	Date        time.Time
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	Type        *models.TransactionType
	Date        *time.Time
}

// Empty reports whether the patch changes nothing.
func (in UpdateInput) Empty() bool {
	return in.Amount == nil && in.Description == nil && in.Category == nil && in.Type == nil && in.Date == nil
}

// TransactionService performs owner-scoped CRUD against the store. Every
// query is filtered by the caller's user id; other users' rows are reported
// as not found.
type TransactionService struct {
	db     *gorm.DB
	cache  *cache.TransactionCache
	events events.Publisher
	log    zerolog.Logger
}

// NewTransactionService wires the service. A nil publisher disables events.
func NewTransactionService(db *gorm.DB, c *cache.TransactionCache, pub events.Publisher, log zerolog.Logger) *TransactionService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &TransactionService{db: db, cache: c, events: pub, log: log}
}

// Create inserts a transaction owned by userID.
func (s *TransactionService) Create(ctx context.Context, userID string, in CreateInput) (*models.Transaction, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	t := models.Transaction{
		UserID:      userID,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Type:        in.Type,
		Date:        in.Date.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, util.NewTransactionError("create", err)
	}

	s.afterMutation(ctx, events.NewTransactionEvent(events.ActionCreated, userID, t.ID, 1))
	return &t, nil
}

// List returns all transactions of userID, newest first.
func (s *TransactionService) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&txs).Error; err != nil {
		return nil, util.NewTransactionError("list", err)
	}
	return txs, nil
}

// Cached returns the same list as List, served from the per-user cache.
// The result is shared and must not be modified.
func (s *TransactionService) Cached(ctx context.Context, userID string) ([]models.Transaction, error) {
	if s.cache == nil {
		return s.List(ctx, userID)
	}
	return s.cache.Load(ctx, userID, func(ctx context.Context) ([]models.Transaction, error) {
		return s.List(ctx, userID)
	})
}

// Get returns one transaction of userID.
func (s *TransactionService) Get(ctx context.Context, userID, id string) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("get")
		}
		return nil, util.NewTransactionError("get", err)
	}
	return &t, nil
}

// Update applies a partial update to a transaction of userID.
func (s *TransactionService) Update(ctx context.Context, userID, id string, in UpdateInput) (*models.Transaction, error) {
	if in.Empty() {
		return nil, util.NewValidationError("", "no fields to update")
	}
	if err := validateUpdate(in); err != nil {
		return nil, err
	}

	var t models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
			return err
		}
		if in.Amount != nil {
			t.Amount = *in.Amount
		}
		if in.Description != nil {
			t.Description = strings.TrimSpace(*in.Description)
		}
		if in.Category != nil {
			t.Category = strings.TrimSpace(*in.Category)
		}
		if in.Type != nil {
			t.Type = *in.Type
		}
		if in.Date != nil {
			t.Date = in.Date.UTC()
		}
		return tx.Save(&t).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("update")
		}
		return nil, util.NewTransactionError("update", err)
	}

	s.afterMutation(ctx, events.NewTransactionEvent(events.ActionUpdated, userID, t.ID, 1))
	return &t, nil
}

// Delete removes one transaction of userID. Zero affected rows is not found.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return util.NewTransactionError("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return util.NotFound("delete")
	}

	s.afterMutation(ctx, events.NewTransactionEvent(events.ActionDeleted, userID, id, 1))
	return nil
}

// DeleteAll removes every transaction of userID and returns how many went.
func (s *TransactionService) DeleteAll(ctx context.Context, userID string) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return 0, util.NewTransactionError("delete all", res.Error)
	}

	s.afterMutation(ctx, events.NewTransactionEvent(events.ActionDeletedAll, userID, "", int(res.RowsAffected)))
	return res.RowsAffected, nil
}

// Seed creates the fixed sample transactions for userID, dated relative to now.
func (s *TransactionService) Seed(ctx context.Context, userID string, now time.Time) ([]models.Transaction, error) {
	samples := SampleTransactions(now)
	for i := range samples {
		samples[i].UserID = userID
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&samples).Error
	}); err != nil {
		return nil, util.NewTransactionError("seed", err)
	}

	s.afterMutation(ctx, events.NewTransactionEvent(events.ActionSeeded, userID, "", len(samples)))
	return samples, nil
}

// afterMutation runs once a write has committed: the cache entry goes first
// so every later read sees the change, then the event is published.
func (s *TransactionService) afterMutation(ctx context.Context, e events.TransactionEvent) {
	if s.cache != nil {
		s.cache.Invalidate(e.UserID)
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn().Err(err).
			Str("action", e.Action).
			Str("user_id", e.UserID).
			Msg("publish transaction event")
	}
}

func validateCreate(in CreateInput) error {
	if err := util.ValidateAmount(in.Amount); err != nil {
		return err
	}
	if err := util.ValidateDescription(in.Description); err != nil {
		return err
	}
	if err := util.ValidateCategory(in.Category); err != nil {
		return err
	}
	if err := util.ValidateType(string(in.Type)); err != nil {
		return err
	}
	if in.Date.IsZero() {
		return util.NewValidationError("date", "is required")
	}
	return nil
}

func validateUpdate(in UpdateInput) error {
	if in.Amount != nil {
		if err := util.ValidateAmount(*in.Amount); err != nil {
			return err
		}
	}
	if in.Description != nil {
		if err := util.ValidateDescription(*in.Description); err != nil {
			return err
		}
	}
	if in.Category != nil {
		if err := util.ValidateCategory(*in.Category); err != nil {
			return err
		}
	}
	if in.Type != nil {
		if err := util.ValidateType(string(*in.Type)); err != nil {
			return err
		}
	}
	if in.Date != nil && in.Date.IsZero() {
		return util.NewValidationError("date", "is required")
	}
	return nil
}
