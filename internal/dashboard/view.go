package dashboard

import (
	"fmt"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// DefaultBadgeClass is used for any type or status without its own colour.
const DefaultBadgeClass = "bg-gray-100 text-gray-800"

// DueTimeLayout renders due times as a 12-hour clock, e.g. "03:04 PM".
const DueTimeLayout = "03:04 PM"

// TypeBadgeClasses maps task types to badge colours.
var TypeBadgeClasses = map[string]string{
	string(domain.TaskTypeCall):   "bg-blue-100 text-blue-800",
	string(domain.TaskTypeEmail):  "bg-green-100 text-green-800",
	string(domain.TaskTypeReview): "bg-purple-100 text-purple-800",
}

// StatusBadgeClasses maps task statuses to badge colours.
var StatusBadgeClasses = map[string]string{
	string(domain.TaskStatusPending):    "bg-yellow-100 text-yellow-800",
	string(domain.TaskStatusInProgress): "bg-blue-100 text-blue-800",
	string(domain.TaskStatusCompleted):  "bg-green-100 text-green-800",
}

// TypeBadgeClass returns the badge classes for a task type.
func TypeBadgeClass(taskType string) string {
	if class, ok := TypeBadgeClasses[taskType]; ok {
		return class
	}
	return DefaultBadgeClass
}

// StatusBadgeClass returns the badge classes for a task status.
func StatusBadgeClass(status string) string {
	if class, ok := StatusBadgeClasses[status]; ok {
		return class
	}
	return DefaultBadgeClass
}

// ShortID returns the first eight characters of id followed by "...".
func ShortID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return id + "..."
}

// FormatDueTime renders t in loc using DueTimeLayout.
func FormatDueTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DueTimeLayout)
}

// DescriptionOrDash returns the description, or "-" when it is absent or empty.
func DescriptionOrDash(description *string) string {
	if description == nil || *description == "" {
		return "-"
	}
	return *description
}

// CountLabel returns "Showing N task(s) due today" with the right plural.
func CountLabel(n int) string {
	noun := "tasks"
	if n == 1 {
		noun = "task"
	}
	return fmt.Sprintf("Showing %d %s due today", n, noun)
}

// TaskView is a task row as displayed on the dashboard.
type TaskView struct {
	ID                 string
	Type               string
	TypeBadgeClass     string
	ShortApplicationID string
	DueTime            string
	Status             string
	StatusBadgeClass   string
	Description        string
}

// NewTaskView formats task for display, with times shown in loc.
func NewTaskView(task *domain.Task, loc *time.Location) TaskView {
	return TaskView{
		ID:                 task.ID.String(),
		Type:               string(task.Type),
		TypeBadgeClass:     TypeBadgeClass(string(task.Type)),
		ShortApplicationID: ShortID(task.ApplicationID.String()),
		DueTime:            FormatDueTime(task.DueAt, loc),
		Status:             string(task.Status),
		StatusBadgeClass:   StatusBadgeClass(string(task.Status)),
		Description:        DescriptionOrDash(task.Description),
	}
}

// NewTaskViews formats every task, preserving order.
func NewTaskViews(tasks []*domain.Task, loc *time.Location) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, NewTaskView(task, loc))
	}
	return views
}
