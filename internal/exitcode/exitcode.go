// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad arguments, an empty title, or an unknown or
	// ambiguous task reference.
	UserError = 1

	// StoreError indicates the task store could not be opened, read or saved.
	StoreError = 2
)
