package cli

import "fmt"

// ExitError lets a command signal a specific exit code without calling
// os.Exit directly, which keeps command behavior testable. Execute
// unwraps it and exits with the code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError creates an ExitError with the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}
