package domain

import (
	"errors"
	"time"
)

var ErrTodoNotFound = errors.New("todo not found")

// Todo is a task owned by exactly one user.
type Todo struct {
	ID          string
	Text        string
	Completed   bool
	CompletedAt *int64 // epoch milliseconds; set iff Completed
	CreatorID   string
}

// CompletionTime derives completedAt from the completed flag: now in epoch
// milliseconds when completed, nil otherwise.
func CompletionTime(completed bool, now time.Time) *int64 {
	if !completed {
		return nil
	}
	ms := now.UnixMilli()
	return &ms
}

// TodoChanges is the normalised set of fields written by an update.
// Text is nil when the caller left it unchanged.
type TodoChanges struct {
	Text        *string
	Completed   bool
	CompletedAt *int64
}
