package service

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// Messages returned to API callers for rejected create-task requests.
const (
	MsgMissingFields        = "Missing required fields: application_id, task_type, due_at"
	MsgInvalidDueAt         = "Invalid due_at timestamp format"
	MsgDueAtNotInFuture     = "due_at must be a future timestamp"
	MsgInvalidApplicationID = "Invalid application_id format (must be UUID)"
)

// MsgInvalidTaskType lists the accepted task types.
var MsgInvalidTaskType = "Invalid task_type. Must be one of: " + domain.TaskTypeNames()

var validate = validator.New()

// dueAtLayouts are tried in order against the upper-cased input. Layouts
// without an offset are read in the server's local zone, except the
// date-only form which means UTC midnight. Both "T" and " " separate date
// and time, and offsets may be written "+01:00", "+0100" or "+01".
var dueAtLayouts = []struct {
	layout string
	utc    bool
}{
	{layout: time.RFC3339Nano},
	{layout: "2006-01-02 15:04:05.999999999Z07:00"},
	{layout: "2006-01-02T15:04:05.999999999Z0700"},
	{layout: "2006-01-02 15:04:05.999999999Z0700"},
	{layout: "2006-01-02T15:04:05.999999999Z07"},
	{layout: "2006-01-02 15:04:05.999999999Z07"},
	{layout: "2006-01-02T15:04Z07:00"},
	{layout: "2006-01-02 15:04Z07:00"},
	{layout: "2006-01-02T15:04:05.999999999"},
	{layout: "2006-01-02 15:04:05.999999999"},
	{layout: "2006-01-02T15:04"},
	{layout: "2006-01-02 15:04"},
	{layout: "2006-01-02", utc: true},
}

// CreateTaskInput is an unvalidated create-task request. Absent fields are
// empty strings.
type CreateTaskInput struct {
	ApplicationID string
	TaskType      string
	DueAt         string
}

// ValidatedTask is a create-task request that passed every input check.
type ValidatedTask struct {
	ApplicationID uuid.UUID
	Type          domain.TaskType
	DueAt         time.Time
}

// ValidateCreateTask applies the input checks in order and reports the first
// one that fails: presence, task type, timestamp format, future due date,
// application id format.
func ValidateCreateTask(input CreateTaskInput, now time.Time) (*ValidatedTask, error) {
	for _, v := range []string{input.ApplicationID, input.TaskType, input.DueAt} {
		if err := validate.Var(v, "required"); err != nil {
			return nil, domain.NewValidationError("", MsgMissingFields, domain.ErrValidation)
		}
	}

	taskType, err := domain.ParseTaskType(input.TaskType)
	if err != nil {
		return nil, domain.NewValidationError("", MsgInvalidTaskType, err)
	}

	dueAt, ok := ParseDueAt(input.DueAt)
	if !ok {
		return nil, domain.NewValidationError("", MsgInvalidDueAt, domain.ErrInvalidFormat)
	}

	if !dueAt.After(now) {
		return nil, domain.NewValidationError("", MsgDueAtNotInFuture, domain.ErrDueAtNotInFuture)
	}

	appID, ok := parseApplicationID(input.ApplicationID)
	if !ok {
		return nil, domain.NewValidationError("", MsgInvalidApplicationID, domain.ErrInvalidID)
	}

	return &ValidatedTask{
		ApplicationID: appID,
		Type:          taskType,
		DueAt:         dueAt,
	}, nil
}

// ParseDueAt parses an ISO-8601 timestamp in one of the accepted layouts.
// The "T" separator and the "Z" designator may be lower case.
func ParseDueAt(s string) (time.Time, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, l := range dueAtLayouts {
		loc := time.Local
		if l.utc {
			loc = time.UTC
		}
		if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseApplicationID accepts only the 8-4-4-4-12 hex form, in either case.
func parseApplicationID(s string) (uuid.UUID, bool) {
	if err := validate.Var(strings.ToLower(s), "uuid"); err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
