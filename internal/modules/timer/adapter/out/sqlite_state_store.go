package out

import (
	"context"
	"strconv"
	"time"

	"github.com/hashicorp/go-hclog"

	"dpwrk/internal/modules/timer/domain"
	timerout "dpwrk/internal/modules/timer/port/out"
	"dpwrk/internal/platform/kv"
)

const (
	KeyStartTime        = "TimerStartTime"
	KeyOriginalDuration = "TimerOriginalDuration"
	KeyIsActive         = "TimerIsActive"
	KeySessionGoal      = "TimerSessionGoal"
	KeySessionID        = "TimerSessionID"
)

var stateKeys = []string{KeyStartTime, KeyOriginalDuration, KeyIsActive, KeySessionGoal, KeySessionID}

// SQLiteStateStore maps timer state onto individual keys. Durations are stored
// as fractional seconds.
type SQLiteStateStore struct {
	kv     kv.Store
	logger hclog.Logger
}

func NewSQLiteStateStore(store kv.Store, logger hclog.Logger) timerout.StateStore {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &SQLiteStateStore{kv: store, logger: logger}
}

func (s *SQLiteStateStore) Save(ctx context.Context, state domain.PersistedState) error {
	return s.kv.SetMany(ctx, map[string]string{
		KeyStartTime:        state.StartInstant.UTC().Format(time.RFC3339Nano),
		KeyOriginalDuration: strconv.FormatFloat(state.OriginalDuration.Seconds(), 'f', -1, 64),
		KeyIsActive:         strconv.FormatBool(state.IsActive),
		KeySessionGoal:      state.Goal,
		KeySessionID:        state.SessionID,
	})
}

func (s *SQLiteStateStore) Load(ctx context.Context) (domain.PersistedState, bool) {
	rawStart, ok := s.get(ctx, KeyStartTime)
	if !ok {
		return domain.PersistedState{}, false
	}
	rawDuration, ok := s.get(ctx, KeyOriginalDuration)
	if !ok {
		return domain.PersistedState{}, false
	}
	rawActive, ok := s.get(ctx, KeyIsActive)
	if !ok {
		return domain.PersistedState{}, false
	}

	start, err := time.Parse(time.RFC3339Nano, rawStart)
	if err != nil {
		s.logger.Warn("discarding undecodable timer start", "value", rawStart, "error", err)
		return domain.PersistedState{}, false
	}
	seconds, err := strconv.ParseFloat(rawDuration, 64)
	if err != nil || seconds <= 0 {
		s.logger.Warn("discarding undecodable timer duration", "value", rawDuration)
		return domain.PersistedState{}, false
	}
	active, err := strconv.ParseBool(rawActive)
	if err != nil {
		s.logger.Warn("discarding undecodable timer flag", "value", rawActive)
		return domain.PersistedState{}, false
	}

	goal, _ := s.get(ctx, KeySessionGoal)
	sessionID, _ := s.get(ctx, KeySessionID)
	return domain.PersistedState{
		SessionID:        sessionID,
		StartInstant:     start,
		OriginalDuration: time.Duration(seconds * float64(time.Second)),
		IsActive:         active,
		Goal:             goal,
	}, true
}

func (s *SQLiteStateStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, stateKeys...)
}

func (s *SQLiteStateStore) get(ctx context.Context, key string) (string, bool) {
	value, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("read timer state failed", "key", key, "error", err)
		return "", false
	}
	return value, ok
}
