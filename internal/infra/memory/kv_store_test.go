package memory

import (
	"context"
	"testing"
)

func TestKVStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore()

	if _, ok, err := store.Get(ctx, "dailyScore"); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := store.SetMany(ctx, map[string]string{"dailyScore": "370", "currentStreak": "1"}); err != nil {
		t.Fatalf("set many: %v", err)
	}
	value, ok, err := store.Get(ctx, "dailyScore")
	if err != nil || !ok || value != "370" {
		t.Fatalf("expected 370, got %q ok=%v err=%v", value, ok, err)
	}

	if err := store.SetMany(ctx, map[string]string{"dailyScore": "0"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	dump := store.Dump()
	if dump["dailyScore"] != "0" || dump["currentStreak"] != "1" {
		t.Fatalf("unexpected contents %+v", dump)
	}
}

func TestKVStoreDumpIsCopy(t *testing.T) {
	store := NewKVStoreWith(map[string]string{"lastResetDay": "2024-01-01"})
	dump := store.Dump()
	dump["lastResetDay"] = "tampered"

	value, _, _ := store.Get(context.Background(), "lastResetDay")
	if value != "2024-01-01" {
		t.Fatalf("expected store untouched, got %q", value)
	}
}
