package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no project, unknown style or backend, missing index)
	ExitDataError   = 3 // Data error (malformed .bib input, unknown keys)
)
