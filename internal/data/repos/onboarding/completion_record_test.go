package onboarding

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/neurobridge-onboarding/internal/data/repos/testutil"
	types "github.com/yungbote/neurobridge-onboarding/internal/domain/onboarding"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/dbctx"
)

func TestCompletionRecordRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCompletionRecordRepo(db, testutil.Logger(t))

	userID := uuid.New()
	now := time.Now().UTC()

	older := &types.CompletionRecord{
		UserID:          userID,
		SessionID:       "sess-old",
		PrimaryTrack:    "builder",
		Recommendations: datatypes.JSON([]byte(`[{"track_key":"builder","score":70}]`)),
		SyncStatus:      types.StepStatusOK,
		Notified:        true,
		RefreshStatus:   types.StepStatusOK,
		CompletedAt:     now.Add(-time.Hour),
	}
	newer := &types.CompletionRecord{
		UserID:        userID,
		SessionID:     "abc123",
		PrimaryTrack:  "defender",
		SyncStatus:    types.StepStatusFailed,
		SyncError:     "http error: status=500",
		Notified:      true,
		RefreshStatus: types.StepStatusOK,
		CompletedAt:   now,
	}
	other := &types.CompletionRecord{
		UserID:        uuid.New(),
		SessionID:     "other",
		PrimaryTrack:  "analyst",
		SyncStatus:    types.StepStatusOK,
		Notified:      true,
		RefreshStatus: types.StepStatusOK,
		CompletedAt:   now,
	}

	for _, rec := range []*types.CompletionRecord{older, newer, other} {
		if err := repo.Create(dbctx.Context{Ctx: ctx, Tx: tx}, rec); err != nil {
			t.Fatalf("Create(%s): %v", rec.SessionID, err)
		}
	}
	if older.ID == uuid.Nil {
		t.Fatalf("Create: expected id to be assigned")
	}

	if err := repo.Create(dbctx.Context{Ctx: ctx, Tx: tx}, &types.CompletionRecord{UserID: userID}); err == nil {
		t.Fatalf("Create: expected error for missing session id")
	}

	list, err := repo.ListByUser(dbctx.Context{Ctx: ctx, Tx: tx}, userID, 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListByUser: expected 2 rows, got %d", len(list))
	}
	if list[0].SessionID != "abc123" || list[1].SessionID != "sess-old" {
		t.Fatalf("ListByUser: unexpected order %q, %q", list[0].SessionID, list[1].SessionID)
	}
	if !list[0].Degraded() || list[1].Degraded() {
		t.Fatalf("Degraded: expected only the failed sync to be degraded")
	}

	got, err := repo.GetBySessionID(dbctx.Context{Ctx: ctx, Tx: tx}, "abc123")
	if err != nil {
		t.Fatalf("GetBySessionID: %v", err)
	}
	if got == nil || got.PrimaryTrack != "defender" || got.SyncError == "" {
		t.Fatalf("GetBySessionID: unexpected row %+v", got)
	}

	missing, err := repo.GetBySessionID(dbctx.Context{Ctx: ctx, Tx: tx}, "nope")
	if err != nil {
		t.Fatalf("GetBySessionID(missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetBySessionID(missing): expected nil")
	}
}

func TestCompletionRecordRepoRecordIsIdempotentPerSession(t *testing.T) {
	db := testutil.DB(t)
	repo := NewCompletionRecordRepo(db, testutil.Logger(t))
	ctx := context.Background()

	userID := uuid.New()
	rec := func(track string) *types.CompletionRecord {
		return &types.CompletionRecord{
			UserID:        userID,
			SessionID:     "dup",
			PrimaryTrack:  track,
			SyncStatus:    types.StepStatusOK,
			RefreshStatus: types.StepStatusOK,
			CompletedAt:   time.Now().UTC(),
		}
	}
	if err := repo.Record(ctx, rec("defender")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := repo.Record(ctx, rec("builder")); err != nil {
		t.Fatalf("Record(again): %v", err)
	}

	list, err := repo.ListByUser(dbctx.Context{Ctx: ctx}, userID, 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 1 || list[0].PrimaryTrack != "defender" {
		t.Fatalf("Record: expected the first row to be kept, got %+v", list)
	}

	if err := repo.Create(dbctx.Context{Ctx: ctx}, rec("builder")); err == nil {
		t.Fatalf("Create: expected unique violation on session_id")
	}
}
