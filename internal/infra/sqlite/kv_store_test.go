package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"trivia-scoring/internal/app"
	"trivia-scoring/internal/domain"
)

func openTestStore(t *testing.T, path string) *KVStore {
	t.Helper()
	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestKVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, filepath.Join(t.TempDir(), "score.db"))

	if _, ok, err := store.Get(ctx, "dailyScore"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := store.SetMany(ctx, map[string]string{"dailyScore": "10", "currentStreak": "2"}); err != nil {
		t.Fatalf("set many: %v", err)
	}
	if err := store.SetMany(ctx, map[string]string{"dailyScore": "20"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	value, ok, err := store.Get(ctx, "dailyScore")
	if err != nil || !ok || value != "20" {
		t.Fatalf("expected 20, got %q ok=%v err=%v", value, ok, err)
	}
	value, _, _ = store.Get(ctx, "currentStreak")
	if value != "2" {
		t.Fatalf("expected untouched field kept, got %q", value)
	}
}

func TestKVStoreClosedIsUnavailable(t *testing.T) {
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "score.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	store.Close()

	if _, _, err := store.Get(context.Background(), "dailyScore"); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestEngineSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "score.db")
	now := func() time.Time { return time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC) }

	store := openTestStore(t, path)
	engine := app.NewScoreEngine(store, app.WithClock(now), app.WithLocation(time.UTC))
	engine.Load(ctx)
	for i := 0; i < 5; i++ {
		engine.ProcessAnswer(ctx, domain.AnswerEvent{IsCorrect: true, Difficulty: domain.DifficultyHard, Category: "Science"})
	}
	want := engine.ScoreInfo(ctx)
	store.Close()

	reopened := openTestStore(t, path)
	restarted := app.NewScoreEngine(reopened, app.WithClock(now), app.WithLocation(time.UTC))
	restarted.Load(ctx)
	if got := restarted.ScoreInfo(ctx); got != want {
		t.Fatalf("info mismatch after reopen: got %+v want %+v", got, want)
	}
	if today := restarted.TodayStats(ctx); today.CategoryCounts["science"] != 5 {
		t.Fatalf("expected category counts restored, got %+v", today.CategoryCounts)
	}
}
