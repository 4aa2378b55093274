// Package service contains the task use cases: creating a follow-up task with
// the privileged service key, and listing and completing today's tasks with a
// restricted key on behalf of the dashboard.
//
// Services validate input, adopt the right database role through a RoleRunner,
// coordinate the stores from internal/store, and publish lifecycle events.
// They never depend on a concrete storage or transport implementation.
//
// Error handling:
//   - Validation failures are *domain.ValidationError values whose Message is
//     safe to show to API callers.
//   - Expected conditions are sentinel errors (ErrNotConfigured,
//     ErrApplicationNotFound, ErrTaskNotFound).
//   - Everything else is wrapped in a *TaskServiceError naming the operation.
package service
