package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrUnavailable marks a backend that could not be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// Backoff is a doubling retry schedule for connecting to remote backends.
type Backoff struct {
	Attempts int           // total calls, at least 1
	Delay    time.Duration // wait after the first failure
	Max      time.Duration // cap on a single wait; 0 means no cap
}

// connectBackoff is used while a Redis server comes up.
var connectBackoff = Backoff{Attempts: 3, Delay: 500 * time.Millisecond, Max: 2 * time.Second}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Nil stays nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry calls fn until it succeeds, returns a Permanent error, or the
// attempts run out. The last error is returned unwrapped.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	for i := 1; ; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if i >= b.Attempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		if delay *= 2; b.Max > 0 && delay > b.Max {
			delay = b.Max
		}
	}
}

// redisPingError classifies a failed PING. Credential and database errors
// will not fix themselves by waiting.
func redisPingError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, p := range []string{"NOAUTH", "WRONGPASS", "ERR invalid password", "ERR DB index"} {
		if strings.HasPrefix(msg, p) {
			return Permanent(err)
		}
	}
	return err
}
