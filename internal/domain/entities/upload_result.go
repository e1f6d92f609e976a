package entities

// CommandResult holds the outcome of an external tool invocation.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Succeeded reports whether the tool exited with status zero.
func (r CommandResult) Succeeded() bool { return r.ExitCode == 0 }

// UploadResult is what the upload step reports back to the run.
type UploadResult struct {
	Destination string
	Success     bool
	Diagnostics string
}
