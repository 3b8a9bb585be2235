package pathfinding

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMaze is returned when a grid cannot be built from its description.
	ErrInvalidMaze = errors.New("invalid maze")
	// ErrPathNotFound reports that the frontier ran dry before the goal was popped.
	ErrPathNotFound = errors.New("no path found")
	// ErrBudgetExceeded reports that a search hit its expansion cap or deadline.
	ErrBudgetExceeded = errors.New("search budget exceeded")
	// ErrUnknownPolicy is returned by ParsePolicy for unrecognized names.
	ErrUnknownPolicy = errors.New("unknown search policy")
	// ErrUnknownHeuristic is returned by HeuristicByName for unrecognized names.
	ErrUnknownHeuristic = errors.New("unknown heuristic")
)

// MazeError carries the reason a maze description was rejected.
// It matches ErrInvalidMaze under errors.Is.
type MazeError struct {
	Reason string
}

func (e *MazeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidMaze, e.Reason)
}

func (e *MazeError) Unwrap() error { return ErrInvalidMaze }

func invalidMaze(format string, args ...any) error {
	return &MazeError{Reason: fmt.Sprintf(format, args...)}
}
