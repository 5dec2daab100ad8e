package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"trivia-scoring/internal/domain"
)

// Persisted snapshot keys.
const (
	KeyDailyScore     = "dailyScore"
	KeyCurrentStreak  = "currentStreak"
	KeyHighestStreak  = "highestStreak"
	KeyTotalQuestions = "totalQuestions"
	KeyCorrectAnswers = "correctAnswers"
	KeyDailyStats     = "dailyStatsBlob"
	KeyLastResetDay   = "lastResetDay"
)

// SnapshotKeys lists every key written by a snapshot.
var SnapshotKeys = []string{
	KeyDailyScore,
	KeyCurrentStreak,
	KeyHighestStreak,
	KeyTotalQuestions,
	KeyCorrectAnswers,
	KeyDailyStats,
	KeyLastResetDay,
}

type snapshot struct {
	state        domain.ScoreState
	stats        domain.DailyStats
	lastResetDay string
}

func encodeSnapshot(s snapshot) (map[string]string, error) {
	blob, err := json.Marshal(s.stats)
	if err != nil {
		return nil, fmt.Errorf("encode daily stats: %w", err)
	}
	return map[string]string{
		KeyDailyScore:     strconv.Itoa(s.state.DailyScore),
		KeyCurrentStreak:  strconv.Itoa(s.state.CurrentStreak),
		KeyHighestStreak:  strconv.Itoa(s.state.HighestStreak),
		KeyTotalQuestions: strconv.Itoa(s.state.TotalQuestionsAnswered),
		KeyCorrectAnswers: strconv.Itoa(s.state.CorrectAnswers),
		KeyDailyStats:     string(blob),
		KeyLastResetDay:   s.lastResetDay,
	}, nil
}

// loadSnapshot reads every key independently; a field that is unparseable
// falls back to its zero value without touching the others. The returned bool
// is false when any read failed, in which case the snapshot is incomplete and
// must not be written back.
func loadSnapshot(ctx context.Context, store KVStore, log logrus.FieldLogger) (snapshot, bool) {
	r := &snapshotReader{ctx: ctx, store: store, log: log}
	var s snapshot
	s.state.DailyScore = r.count(KeyDailyScore)
	s.state.CurrentStreak = r.count(KeyCurrentStreak)
	s.state.HighestStreak = r.count(KeyHighestStreak)
	s.state.TotalQuestionsAnswered = r.count(KeyTotalQuestions)
	s.state.CorrectAnswers = r.count(KeyCorrectAnswers)

	if s.state.HighestStreak < s.state.CurrentStreak {
		s.state.HighestStreak = s.state.CurrentStreak
	}

	if raw, ok := r.raw(KeyLastResetDay); ok {
		s.lastResetDay = raw
	}

	s.stats = domain.NewDailyStats(s.lastResetDay)
	if raw, ok := r.raw(KeyDailyStats); ok {
		var stats domain.DailyStats
		if err := json.Unmarshal([]byte(raw), &stats); err != nil || !validStats(stats) {
			log.WithField("key", KeyDailyStats).WithError(domain.ErrCorruptSnapshot).Warn("resetting daily stats")
		} else {
			s.stats = stats
		}
	}
	return s, !r.failed
}

type snapshotReader struct {
	ctx    context.Context
	store  KVStore
	log    logrus.FieldLogger
	failed bool
}

func (r *snapshotReader) raw(key string) (string, bool) {
	raw, ok, err := r.store.Get(r.ctx, key)
	if err != nil {
		r.failed = true
		r.log.WithField("key", key).WithError(err).Warn("score store read failed")
		return "", false
	}
	return raw, ok
}

func (r *snapshotReader) count(key string) int {
	raw, ok := r.raw(key)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		r.log.WithField("key", key).WithField("value", raw).WithError(domain.ErrCorruptSnapshot).Warn("resetting field to default")
		return 0
	}
	return n
}

func validStats(s domain.DailyStats) bool {
	if s.TotalQuestions < 0 || s.CorrectAnswers < 0 || s.CorrectAnswers > s.TotalQuestions {
		return false
	}
	for _, v := range s.CategoryCounts {
		if v < 0 {
			return false
		}
	}
	for _, v := range s.DifficultyCounts {
		if v < 0 {
			return false
		}
	}
	return true
}
