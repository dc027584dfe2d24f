package engine

import "fmt"

// ErrSourceUnavailable indicates the record source timed out or failed. The
// engine reports it rather than returning a zeroed aggregate, so callers can
// tell "no funding" apart from "could not ask".
type ErrSourceUnavailable struct {
	Op  string
	Err error
}

func (e *ErrSourceUnavailable) Error() string {
	return fmt.Sprintf("record source unavailable during %s: %v", e.Op, e.Err)
}

func (e *ErrSourceUnavailable) Unwrap() error {
	return e.Err
}
