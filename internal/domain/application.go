package domain

import "github.com/google/uuid"

// Application is the parent record a Task follows up on. This system only
// reads its identity and tenant; everything else belongs to other services.
type Application struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
}

// Validate checks that the application can parent a task.
func (a *Application) Validate() error {
	if a.ID == uuid.Nil {
		return NewValidationError("application_id", "cannot be empty", ErrInvalidID)
	}
	if a.TenantID == uuid.Nil {
		return ErrMissingTenant
	}
	return nil
}
