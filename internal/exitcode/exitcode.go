// Package exitcode defines exit codes for the todo CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad arguments, an unknown task or an invalid task.
	UserError = 1

	// BackendError indicates a failure of the local database or the remote service.
	BackendError = 3
)
