package contract

import "errors"

var (
	ErrModelInvoke        = errors.New("model invoke failed")
	ErrModelNotConfigured = errors.New("model credential not configured")
	ErrValidation         = errors.New("validation failed")
	ErrLeadPersistence    = errors.New("lead_persistence_error")
	ErrViewingConflict    = errors.New("viewing_conflict")
)
