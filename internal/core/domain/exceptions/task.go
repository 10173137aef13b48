package exceptions

import "errors"

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskNil           = errors.New("task is nil")
	ErrTaskIDRequired    = errors.New("task id is required")
	ErrTaskEmpty         = errors.New("task title and description are empty")
	ErrRemoteUnavailable = errors.New("remote data source unavailable")
	ErrInconsistentState = errors.New("remote and local data sources are inconsistent")
	ErrUnknownTaskFilter = errors.New("unknown task filter")
)
