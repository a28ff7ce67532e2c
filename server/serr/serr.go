// Package serr holds the errors returned by the ellone server's service layer.
// Its Error type carries one or more cause errors, and errors.Is reports true
// for each of them.
package serr

import "errors"

var (
	ErrBadCredentials = errors.New("the supplied password is incorrect")
	ErrPermissions    = errors.New("you don't have permission to do that")
	ErrNotFound       = errors.New("the requested entity could not be found")
	ErrAlreadyExists  = errors.New("resource with same identifying information already exists")
	ErrDB             = errors.New("an error occured with the DB")
	ErrBadArgument    = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal  = errors.New("malformed data in request")

	// ErrGrammar is a cause of every service error that comes from the
	// grammar itself rather than from the server. Such errors also carry the
	// underlying llerrors error as a cause.
	ErrGrammar = errors.New("the grammar cannot be used")
)

// Error is a message together with the errors that caused it. Its Error
// method gives the message followed by the first cause's message.
//
// Create one with New, WrapDB, or WrapGrammar.
type Error struct {
	msg   string
	cause []error
}

// Error returns the message defined for the Error. If a message was defined for
// it when created, that message is returned, concatenated with the result of
// calling Error() on the its first cause if one is defined. If no message or an
// empty message was defined for it when created, but there is at least one
// cause defined for it, the result of calling Error() on the first cause is
// returned. If no message is defined and no causes are defined, returns the
// empty string.
func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}

	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}

	return e.msg
}

// Unwrap returns the causes of Error, or nil if it has none. errors.As uses it
// to reach typed causes such as *llerrors.ConflictError.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether target is e or one of its causes.
func (e Error) Is(target error) bool {
	// is the target error itself?
	if errTarget, ok := target.(Error); ok {
		if e.msg == errTarget.msg {
			if len(e.cause) == len(errTarget.cause) {
				allCausesEqual := true
				for i := range e.cause {
					if e.cause[i] != errTarget.cause[i] {
						allCausesEqual = false
						break
					}
				}
				if allCausesEqual {
					return true
				}
			}
		}
	}

	// otherwise, check if any cause equals target
	for i := range e.cause {
		if e.cause[i] == target {
			return true
		}
	}
	return false
}

// WrapDB creates a new Error with err and ErrDB as its causes. msg may be
// left as "".
func WrapDB(msg string, err error) Error {
	return Error{
		msg:   msg,
		cause: []error{err, ErrDB},
	}
}

// WrapGrammar creates a new Error with err and ErrGrammar as its causes. err
// is expected to come from analyzing or parsing with a grammar.
func WrapGrammar(msg string, err error) Error {
	return Error{
		msg:   msg,
		cause: []error{err, ErrGrammar},
	}
}

// New creates a new Error with the given message and causes.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}
