package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports wall-clock time in UTC. UTC strips the monotonic
// reading, so differences between two values include time spent suspended.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
