package service

import (
	"errors"
	"fmt"
)

// Kind classifies storage manager failures so callers can decide how to react
// without matching on messages.
type Kind string

const (
	KindInvalid  Kind = "invalid"
	KindNotFound Kind = "not_found"
	KindOpen     Kind = "open"
	KindFetch    Kind = "fetch"
	KindSave     Kind = "save"
	KindPending  Kind = "pending"
)

type Error struct {
	Op   string
	Kind Kind
	ID   string
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("service: %s: %s", e.Op, e.Kind)
	if e.ID != "" {
		msg += " " + e.ID
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or "" when
// err did not come from the storage manager.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

func newError(op string, kind Kind, id string, err error) *Error {
	return &Error{Op: op, Kind: kind, ID: id, Err: err}
}
