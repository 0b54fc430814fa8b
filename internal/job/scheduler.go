package job

import "time"

// Scheduler defers a function call by a delay. The poll loop is a chain of
// scheduled invocations rather than a blocking wait, so multiple jobs can
// poll independently without dedicated goroutines sleeping between attempts.
// Tests inject a manual implementation to drive the state machine without
// wall-clock delays.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// timerScheduler schedules callbacks on real timers.
type timerScheduler struct{}

// NewTimerScheduler returns a Scheduler backed by time.AfterFunc.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}
