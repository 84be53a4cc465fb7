package service

import "time"

// Scheduler runs fn once after d. Callbacks re-check room state themselves,
// so nothing is ever cancelled explicitly.
type Scheduler interface {
	After(d time.Duration, fn func())
}

type timerScheduler struct{}

// NewScheduler returns a Scheduler backed by time.AfterFunc
func NewScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
