package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// LooseString accepts any JSON value. null, false, 0 and "" all decode to
// the empty string so they count as absent; strings decode to their value;
// any other value keeps its JSON text and is validated downstream.
type LooseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch string(data) {
	case "null", "false", "0", `""`:
		*s = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = LooseString(str)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err == nil {
		if f, err := number.Float64(); err == nil && f == 0 {
			*s = ""
			return nil
		}
	}

	*s = LooseString(data)
	return nil
}

// CreateTaskRequest is the create-task request body.
type CreateTaskRequest struct {
	ApplicationID LooseString `json:"application_id"`
	TaskType      LooseString `json:"task_type"`
	DueAt         LooseString `json:"due_at"`
}

// CreateTaskResponse is the create-task success body.
type CreateTaskResponse struct {
	Success bool   `json:"success"`
	TaskID  string `json:"task_id"`
}

// TaskResponse is a task as shown to dashboard clients.
type TaskResponse struct {
	ID            string     `json:"id"`
	ApplicationID string     `json:"application_id"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	DueAt         time.Time  `json:"due_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	Description   *string    `json:"description"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TodayTasksResponse lists the tasks due today.
type TodayTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// CompleteTaskResponse acknowledges a completed task.
type CompleteTaskResponse struct {
	Success bool   `json:"success"`
	TaskID  string `json:"task_id"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:            task.ID.String(),
		ApplicationID: task.ApplicationID.String(),
		Type:          string(task.Type),
		Status:        string(task.Status),
		DueAt:         task.DueAt,
		CompletedAt:   task.CompletedAt,
		Description:   task.Description,
		CreatedAt:     task.CreatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) TodayTasksResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return TodayTasksResponse{Tasks: out}
}
