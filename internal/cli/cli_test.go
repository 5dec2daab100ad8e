package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"trivia-scoring/internal/app"
	"trivia-scoring/internal/config"
	"trivia-scoring/internal/domain"
	"trivia-scoring/internal/infra/sqlite"
)

func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "score.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	body := "store:\n  driver: sqlite\nsqlite:\n  path: " + dbPath + "\nclock:\n  timezone: UTC\nlog:\n  level: error\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath, dbPath
}

func seed(t *testing.T, dbPath string, values map[string]string) {
	t.Helper()
	store, err := sqlite.Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	if err := store.SetMany(context.Background(), values); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStatsCommandPrintsSnapshot(t *testing.T) {
	cfgPath, dbPath := writeConfig(t)
	seed(t, dbPath, map[string]string{
		app.KeyCurrentStreak:  "7",
		app.KeyHighestStreak:  "11",
		app.KeyTotalQuestions: "20",
		app.KeyCorrectAnswers: "13",
	})

	out, err := run(t, "--config", cfgPath, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"Current streak:   7 (level 2)", "Highest streak:   11", "13 correct of 20 (65%)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestResetCommandRequiresConfirmation(t *testing.T) {
	cfgPath, dbPath := writeConfig(t)
	seed(t, dbPath, map[string]string{app.KeyHighestStreak: "11"})

	if _, err := run(t, "--config", cfgPath, "reset"); err == nil {
		t.Fatalf("expected refusal without --yes")
	}
	if _, err := run(t, "--config", cfgPath, "reset", "--yes"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	store, err := sqlite.Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	value, _, _ := store.Get(context.Background(), app.KeyHighestStreak)
	if value != "0" {
		t.Fatalf("expected highest streak cleared, got %q", value)
	}
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = "etcd"
	if _, _, err := openStore(context.Background(), cfg); !errors.Is(err, domain.ErrUnknownStoreDriver) {
		t.Fatalf("expected unknown driver error, got %v", err)
	}

	cfg.Store.Driver = config.DriverPostgres
	if _, _, err := openStore(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for postgres without url")
	}
}

func TestBootEngineMigratesBeforeOpeningStore(t *testing.T) {
	errSchema := errors.New("schema")
	cfg := config.Default()
	cfg.Store.Driver = config.DriverPostgres
	logger, _ := logtest.NewNullLogger()

	var calls int
	migrate := func(context.Context, config.Config) error {
		calls++
		return errSchema
	}
	// an empty postgres url fails in openStore, so the migrate error proves it ran first
	if _, _, err := bootEngine(context.Background(), cfg, logger, migrate); !errors.Is(err, errSchema) {
		t.Fatalf("expected migrate error before store open, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one migrate call, got %d", calls)
	}

	cfg.Store.Driver = config.DriverMemory
	engine, closeStore, err := bootEngine(context.Background(), cfg, logger, migrate)
	if err != nil || engine == nil {
		t.Fatalf("expected memory engine, got %v", err)
	}
	defer closeStore()
	if calls != 1 {
		t.Fatalf("expected no migration for memory store, got %d calls", calls)
	}
}

func TestPrintStatsSortsCounts(t *testing.T) {
	var out bytes.Buffer
	today := domain.NewDailyStats("2024-01-01")
	today.CategoryCounts["music"] = 1
	today.CategoryCounts["art"] = 2
	printStats(&out, domain.ScoreInfo{}, today)

	text := out.String()
	if strings.Index(text, "art") > strings.Index(text, "music") {
		t.Fatalf("expected categories sorted:\n%s", text)
	}
	if strings.Contains(text, "Difficulties") {
		t.Fatalf("empty counts must be omitted:\n%s", text)
	}
}
