package domain_test

import (
	"testing"
	"time"

	"dpwrk/internal/modules/timer/domain"
)

func TestNewSessionCopiesBlockedLists(t *testing.T) {
	t.Parallel()
	apps := []string{"Slack"}
	sites := []string{"news.ycombinator.com"}
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	session := domain.NewSession("s-1", "draft chapter", 25*time.Minute, start, apps, sites)

	apps[0] = "Mail"
	sites[0] = "example.com"
	if session.BlockedApps[0] != "Slack" || session.BlockedWebsites[0] != "news.ycombinator.com" {
		t.Fatalf("session must hold snapshots, got %+v", session)
	}
	if !session.EndTime.IsZero() || session.Completed {
		t.Fatalf("new session must be open: %+v", session)
	}
}

func TestFinalizeBuildsIndependentEndedRecord(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	session := domain.NewSession("s-1", "goal", 30*time.Minute, start, []string{"Slack"}, nil)
	end := start.Add(30 * time.Minute)

	finished := domain.Finalize(session, end, true)
	if !finished.Completed || !finished.EndTime.Equal(end) || finished.ID != "s-1" || finished.Duration != 30*time.Minute {
		t.Fatalf("unexpected finalized session: %+v", finished)
	}
	if !session.EndTime.IsZero() {
		t.Fatalf("finalize must not mutate its input")
	}
	finished.BlockedApps[0] = "changed"
	if session.BlockedApps[0] != "Slack" {
		t.Fatalf("finalized record must not share slices")
	}

	aborted := domain.Finalize(session, start.Add(time.Minute), false)
	if aborted.Completed || aborted.EndTime.IsZero() {
		t.Fatalf("aborted record must be ended and not completed: %+v", aborted)
	}
}

func TestValidateDurationBounds(t *testing.T) {
	t.Parallel()
	for _, d := range []time.Duration{300 * time.Second, 25 * time.Minute, 10800 * time.Second} {
		if err := domain.ValidateDuration(d); err != nil {
			t.Fatalf("%s should be valid: %v", d, err)
		}
	}
	for _, d := range []time.Duration{0, 299 * time.Second, 10801 * time.Second} {
		if err := domain.ValidateDuration(d); err == nil {
			t.Fatalf("%s should be rejected", d)
		}
	}
}

func TestFormatClock(t *testing.T) {
	t.Parallel()
	cases := map[time.Duration]string{
		0:                                     "00:00:00",
		-time.Second:                          "00:00:00",
		25 * time.Minute:                      "00:25:00",
		3*time.Hour + 5*time.Second:           "03:00:05",
		90*time.Second + 900*time.Millisecond: "00:01:30",
	}
	for in, want := range cases {
		if got := domain.FormatClock(in); got != want {
			t.Fatalf("FormatClock(%s) = %s, want %s", in, got, want)
		}
	}
}
