package models

import "time"

// User is a registered account. The password hash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Project groups tasks under a single owning user. Members are additional
// users granted read access; the owner is never stored in the member set.
type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	MemberIDs   []int64   `json:"member_ids,omitempty"`
}

// Task is a single unit of work inside a project.
type Task struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	AssigneeID  *int64    `json:"assignee_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Comment is an immutable note attached to a task.
type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Task status values. Any status may transition to any other.
const (
	StatusTodo       = "Todo"
	StatusInProgress = "InProgress"
	StatusDone       = "Done"
)

// Task priority values.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// ValidTaskStatuses enumerates the statuses accepted at the API boundary.
var ValidTaskStatuses = map[string]struct{}{
	StatusTodo:       {},
	StatusInProgress: {},
	StatusDone:       {},
}

// ValidTaskPriorities enumerates the priorities accepted at the API boundary.
var ValidTaskPriorities = map[string]struct{}{
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
}
