package services

import "time"

// Clock abstracts wall-clock time so trigger windows and expiry checks can
// be tested against a fixed instant.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func NewClock() Clock { return realClock{} }
