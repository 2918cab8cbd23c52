package domain

// ExecRequest is what the execution service needs to run a program.
type ExecRequest struct {
	Language string
	Version  string
	Source   string
	Stdin    string
}

// StageResult is one stage (compile or run) of an execution.
type StageResult struct {
	Stdout string  `json:"stdout,omitempty"`
	Stderr string  `json:"stderr,omitempty"`
	Output string  `json:"output"`
	Code   *int    `json:"code,omitempty"`
	Signal *string `json:"signal,omitempty"`
}

// ExecResult has the same shape on success and failure; clients only rely on
// Run.Output.
type ExecResult struct {
	Language string       `json:"language,omitempty"`
	Version  string       `json:"version,omitempty"`
	Run      StageResult  `json:"run"`
	Compile  *StageResult `json:"compile,omitempty"`
}

// FailureResult wraps a human-readable error into the uniform result shape.
func FailureResult(msg string) ExecResult {
	return ExecResult{Run: StageResult{Output: msg}}
}
