package lz4

import "github.com/stbrumme/lz4/internal/lz4errors"

// aState is one node of a Writer's or Reader's state machine, indexing into
// a table that gives the state reached after a successful transition.
type aState int

const (
	noState aState = iota
	errorState
	newState
	headerState
	writeState
	readState
	closedState
)

// _State is held by Writer and Reader to drive their state machines,
// rejecting Write/Read/Close calls made out of order.
type _State struct {
	table []aState
	state aState
	err   error
}

func (s *_State) init(table []aState) {
	s.table = table
	s.state = noState
}

// next advances to the state following the current one in the table. If err
// is non-nil the machine instead moves to errorState and remembers err; next
// reports whether that happened, so call sites can bail out immediately.
func (s *_State) next(err error) bool {
	if err != nil {
		s.state = errorState
		s.err = err
		return true
	}
	s.state = s.table[s.state]
	return false
}

// check is deferred at the top of Apply, Write and Read: once the method
// returns, if it did not already report an error but the machine is in
// errorState, surface the remembered error through the method's own return.
func (s *_State) check(err *error) {
	if *err == nil && s.state == errorState {
		*err = s.err
	}
}

func (s *_State) fail() error {
	return lz4errors.ErrInternalUnhandledState
}
