package puzzle

import "errors"

var (
	ErrEmptyHand          = errors.New("no sticks in hand")
	ErrMoveBudgetExceeded = errors.New("that would take more than 3 moves")
	ErrOutOfRange         = errors.New("no such segment")
	ErrHandNotEmpty       = errors.New("you must use all sticks")
	ErrInvalidNumber      = errors.New("not a valid number")
	ErrTooManyMoves       = errors.New("too many moves")
	ErrNumberAlreadySeen  = errors.New("number already found")
	ErrNotLarger          = errors.New("number must be larger")
)
