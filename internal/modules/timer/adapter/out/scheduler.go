package out

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	timerout "dpwrk/internal/modules/timer/port/out"
	"dpwrk/internal/platform/clock"
)

type pendingNotification struct {
	at    time.Time
	title string
	body  string
}

// WallClockScheduler holds one-shot notifications against wall-clock
// deadlines. Deadlines are checked against the clock on every poll, so a
// deadline that passed during suspend fires on the first poll after wake.
// Posting only happens from DeliverDue, never from ScheduleOneShot, because
// the engine schedules while holding its lock.
type WallClockScheduler struct {
	clock    clock.Clock
	notifier timerout.Notifier
	prefs    timerout.PreferencesPort
	logger   hclog.Logger
	kick     chan struct{}

	mu      sync.Mutex
	pending map[string]pendingNotification
	seq     uint64
}

func NewWallClockScheduler(clk clock.Clock, notifier timerout.Notifier, prefs timerout.PreferencesPort, logger hclog.Logger) *WallClockScheduler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &WallClockScheduler{
		clock:    clk,
		notifier: notifier,
		prefs:    prefs,
		logger:   logger,
		kick:     make(chan struct{}, 1),
		pending:  map[string]pendingNotification{},
	}
}

// ScheduleOneShot queues a notification. One that is already due wakes Run
// so it is posted without waiting for the next poll.
func (s *WallClockScheduler) ScheduleOneShot(_ context.Context, at time.Time, title, body string) (string, error) {
	s.mu.Lock()
	s.seq++
	handle := "notification-" + strconv.FormatUint(s.seq, 10)
	s.pending[handle] = pendingNotification{at: at, title: title, body: body}
	due := !at.After(s.clock.Now())
	s.mu.Unlock()

	s.logger.Debug("notification scheduled", "handle", handle, "at", at)
	if due {
		select {
		case s.kick <- struct{}{}:
		default:
		}
	}
	return handle, nil
}

func (s *WallClockScheduler) CancelAll(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) > 0 {
		s.logger.Debug("notifications cancelled", "count", len(s.pending))
	}
	s.pending = map[string]pendingNotification{}
}

// DeliverDue posts every notification whose deadline has passed and returns
// how many were posted.
func (s *WallClockScheduler) DeliverDue(ctx context.Context) int {
	now := s.clock.Now()
	s.mu.Lock()
	due := make([]pendingNotification, 0, len(s.pending))
	for handle, item := range s.pending {
		if item.at.After(now) {
			continue
		}
		due = append(due, item)
		delete(s.pending, handle)
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, item := range due {
		s.deliver(ctx, item)
	}
	return len(due)
}

// Run polls for due notifications until ctx is done.
func (s *WallClockScheduler) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.DeliverDue(ctx)
		case <-s.kick:
			s.DeliverDue(ctx)
		}
	}
}

func (s *WallClockScheduler) deliver(ctx context.Context, item pendingNotification) {
	if !s.enabled(ctx) {
		s.logger.Debug("notifications disabled, dropping", "title", item.title)
		return
	}
	if err := s.notifier.Notify(ctx, item.title, item.body); err != nil {
		s.logger.Warn("post notification failed", "title", item.title, "error", err)
	}
}

func (s *WallClockScheduler) enabled(ctx context.Context) bool {
	if s.prefs == nil {
		return true
	}
	defaults, err := s.prefs.Defaults(ctx)
	if err != nil {
		return true
	}
	return defaults.NotificationsEnabled
}
