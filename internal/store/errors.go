package store

import "errors"

var (
	// ErrNoSession is returned by Load when no session has been persisted.
	ErrNoSession = errors.New("no persisted session")
)
