package app

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"trivia-scoring/internal/domain"
	"trivia-scoring/internal/scoring"
)

// DayLayout formats calendar-day identifiers.
const DayLayout = "2006-01-02"

// KVStore abstracts where score snapshots are kept (in-memory, Redis, SQL, etc).
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	// SetMany writes all values atomically.
	SetMany(ctx context.Context, values map[string]string) error
}

// DebtSource supplies the point deduction applied once per answer.
type DebtSource interface {
	DebtPenalty() int
}

// NoDebt never deducts points.
type NoDebt struct{}

func (NoDebt) DebtPenalty() int { return 0 }

// DebtFunc adapts a function to DebtSource.
type DebtFunc func() int

func (f DebtFunc) DebtPenalty() int { return f() }

// Option configures a ScoreEngine.
type Option func(*ScoreEngine)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *ScoreEngine) { e.now = now }
}

// WithLocation sets the zone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(e *ScoreEngine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithDebtSource sets the debt collaborator.
func WithDebtSource(d DebtSource) Option {
	return func(e *ScoreEngine) {
		if d != nil {
			e.debt = d
		}
	}
}

// WithLogger sets the logger used for degraded paths.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *ScoreEngine) {
		if l != nil {
			e.log = l
		}
	}
}

// ScoreEngine turns answer events into rewards, streaks and daily aggregates,
// writing a full snapshot to the store after every mutation.
// All methods are safe for concurrent use; callers are serialized.
type ScoreEngine struct {
	store KVStore
	debt  DebtSource
	log   logrus.FieldLogger
	now   func() time.Time
	loc   *time.Location

	mu          sync.Mutex
	state       domain.ScoreState
	tracker     *DailyTracker
	pendingLoad bool
}

// NewScoreEngine builds an engine with zeroed state. Call Load to rehydrate.
func NewScoreEngine(store KVStore, opts ...Option) *ScoreEngine {
	e := &ScoreEngine{
		store: store,
		debt:  NoDebt{},
		log:   logrus.StandardLogger(),
		now:   time.Now,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.tracker = NewDailyTracker(domain.NewDailyStats(e.today()), e.today())
	return e
}

// Load replaces the in-memory state with the persisted snapshot and runs the
// day-rollover check. Missing or corrupt fields degrade to defaults. When the
// store cannot be read, the current state is kept, nothing is written back and
// the load is retried at the start of the next operation.
func (e *ScoreEngine) Load(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.loadLocked(ctx)
}

func (e *ScoreEngine) loadLocked(ctx context.Context) {
	snap, ok := loadSnapshot(ctx, e.store, e.log)
	if !ok {
		e.pendingLoad = true
		e.log.WithError(domain.ErrStoreUnavailable).Warn("score snapshot unreadable, write-through paused")
		return
	}
	e.pendingLoad = false
	e.state = snap.state
	e.state.StreakLevel = scoring.StreakLevel(e.state.CurrentStreak)
	e.tracker = NewDailyTracker(snap.stats, snap.lastResetDay)

	if e.checkDailyResetLocked() {
		e.persistLocked(ctx)
	}
}

// ensureLoadedLocked retries a load that failed earlier.
func (e *ScoreEngine) ensureLoadedLocked(ctx context.Context) {
	if e.pendingLoad {
		e.loadLocked(ctx)
	}
}

// CheckDailyReset zeroes the daily score and aggregates when the calendar day
// changed since the last reset. Repeated calls on the same day are no-ops.
func (e *ScoreEngine) CheckDailyReset(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ensureLoadedLocked(ctx)
	if !e.checkDailyResetLocked() {
		return false
	}
	e.persistLocked(ctx)
	return true
}

// ProcessAnswer applies one answer event and returns its outcome. It never
// fails: persistence errors are logged and the in-memory state stays current.
func (e *ScoreEngine) ProcessAnswer(ctx context.Context, event domain.AnswerEvent) domain.ScoreResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ensureLoadedLocked(ctx)
	e.checkDailyResetLocked()

	difficulty := domain.ParseDifficulty(string(event.Difficulty))
	e.tracker.OnAnswer(difficulty, domain.NormalizeCategory(event.Category), event.IsCorrect)
	e.state.TotalQuestionsAnswered++

	var result domain.ScoreResult
	if event.IsCorrect {
		reward := scoring.CalculateReward(e.state.CurrentStreak, difficulty, event.ResponseTime())
		e.state.CorrectAnswers++
		e.state.DailyScore += reward.PointsEarned
		e.state.CurrentStreak = reward.NewStreak
		if e.state.CurrentStreak > e.state.HighestStreak {
			e.state.HighestStreak = e.state.CurrentStreak
		}
		result = domain.ScoreResult{
			PointsEarned:    reward.PointsEarned,
			IsMilestone:     reward.IsMilestone,
			SpeedCategory:   reward.SpeedCategory,
			SpeedMultiplier: reward.SpeedMultiplier,
			BaseScore:       reward.BaseScore,
		}
	} else {
		e.state.CurrentStreak = 0
	}

	e.applyDebtLocked()
	e.state.StreakLevel = scoring.StreakLevel(e.state.CurrentStreak)
	e.persistLocked(ctx)

	result.NewScore = e.state.DailyScore
	result.NewStreak = e.state.CurrentStreak
	result.StreakLevel = e.state.StreakLevel

	e.log.WithFields(logrus.Fields{
		"correct": event.IsCorrect,
		"points":  result.PointsEarned,
		"score":   result.NewScore,
		"streak":  result.NewStreak,
	}).Debug("answer processed")
	return result
}

// EndSession breaks the current streak; the score is untouched.
func (e *ScoreEngine) EndSession(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ensureLoadedLocked(ctx)
	e.state.CurrentStreak = 0
	e.state.StreakLevel = scoring.StreakLevel(0)
	e.persistLocked(ctx)
}

// ResetAllData clears every field, including the all-time counters.
func (e *ScoreEngine) ResetAllData(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// an explicit wipe is authoritative even over an unreadable snapshot
	e.pendingLoad = false
	e.state = domain.ScoreState{}
	e.tracker.Reset(e.today())
	e.persistLocked(ctx)
	e.log.Info("score data reset")
}

// ScoreInfo returns the display snapshot. Accuracy covers all answers ever
// recorded; QuestionsToday covers the current day.
func (e *ScoreEngine) ScoreInfo(ctx context.Context) domain.ScoreInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ensureLoadedLocked(ctx)
	if e.checkDailyResetLocked() {
		e.persistLocked(ctx)
	}
	return domain.ScoreInfo{
		DailyScore:     e.state.DailyScore,
		CurrentStreak:  e.state.CurrentStreak,
		HighestStreak:  e.state.HighestStreak,
		StreakLevel:    e.state.StreakLevel,
		TotalQuestions: e.state.TotalQuestionsAnswered,
		CorrectAnswers: e.state.CorrectAnswers,
		Accuracy:       Accuracy(e.state.CorrectAnswers, e.state.TotalQuestionsAnswered),
		QuestionsToday: e.tracker.stats.TotalQuestions,
	}
}

// TodayStats returns a copy of the current day's aggregates.
func (e *ScoreEngine) TodayStats(ctx context.Context) domain.TodayStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ensureLoadedLocked(ctx)
	if e.checkDailyResetLocked() {
		e.persistLocked(ctx)
	}
	return e.tracker.Stats()
}

func (e *ScoreEngine) today() string {
	return e.now().In(e.loc).Format(DayLayout)
}

func (e *ScoreEngine) checkDailyResetLocked() bool {
	today := e.today()
	if !e.tracker.CheckDailyReset(today) {
		return false
	}
	e.state.DailyScore = 0
	e.log.WithField("day", today).Info("daily score rolled over")
	return true
}

func (e *ScoreEngine) applyDebtLocked() {
	penalty := e.debt.DebtPenalty()
	if penalty <= 0 {
		return
	}
	e.state.DailyScore -= penalty
	if e.state.DailyScore < 0 {
		e.state.DailyScore = 0
	}
}

func (e *ScoreEngine) persistLocked(ctx context.Context) {
	if e.pendingLoad {
		e.log.Debug("snapshot not loaded, skipping write-through")
		return
	}
	values, err := encodeSnapshot(snapshot{
		state:        e.state,
		stats:        e.tracker.stats,
		lastResetDay: e.tracker.lastResetDay,
	})
	if err != nil {
		e.log.WithError(err).Warn("encode score snapshot")
		return
	}
	if err := e.store.SetMany(ctx, values); err != nil {
		e.log.WithError(err).Warn("persist score snapshot, keeping in-memory state")
	}
}
