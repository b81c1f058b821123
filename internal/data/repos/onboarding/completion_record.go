package onboarding

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-onboarding/internal/domain/onboarding"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
)

type CompletionRecordRepo interface {
	Create(dbc dbctx.Context, rec *types.CompletionRecord) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.CompletionRecord, error)
	GetBySessionID(dbc dbctx.Context, sessionID string) (*types.CompletionRecord, error)
	// Record is Create outside a transaction, for the completion follow-up.
	// A session already on the ledger is left as is.
	Record(ctx context.Context, rec *types.CompletionRecord) error
}

type completionRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompletionRecordRepo(db *gorm.DB, baseLog *logger.Logger) CompletionRecordRepo {
	return &completionRecordRepo{
		db:  db,
		log: baseLog.With("repo", "CompletionRecordRepo"),
	}
}

func (r *completionRecordRepo) Create(dbc dbctx.Context, rec *types.CompletionRecord) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if rec == nil {
		return errors.New("nil completion record")
	}
	if rec.UserID == uuid.Nil || strings.TrimSpace(rec.SessionID) == "" {
		return errors.New("completion record requires user_id and session_id")
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return transaction.WithContext(dbc.Ctx).Create(rec).Error
}

func (r *completionRecordRepo) Record(ctx context.Context, rec *types.CompletionRecord) error {
	dbc := dbctx.Context{Ctx: ctx}
	if rec != nil {
		existing, err := r.GetBySessionID(dbc, rec.SessionID)
		if err != nil {
			return err
		}
		if existing != nil {
			r.log.Debug("completion already recorded", "session_id", rec.SessionID)
			return nil
		}
	}
	return r.Create(dbc, rec)
}

func (r *completionRecordRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.CompletionRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.CompletionRecord
	if userID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *completionRecordRepo) GetBySessionID(dbc dbctx.Context, sessionID string) (*types.CompletionRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, nil
	}
	var rec types.CompletionRecord
	err := transaction.WithContext(dbc.Ctx).
		Where("session_id = ?", sessionID).
		Limit(1).
		Find(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == uuid.Nil {
		return nil, nil
	}
	return &rec, nil
}
