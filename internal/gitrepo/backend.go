package gitrepo

import (
	"fmt"
	"strings"
)

const unsupportedBackendTemplateConstant = "unsupported git backend %q"

// Backend selects how repository questions are answered.
type Backend string

// Supported backends.
const (
	BackendCLI   Backend = Backend("cli")
	BackendGoGit Backend = Backend("go-git")
)

// UnsupportedBackendError reports a backend outside BackendCLI and BackendGoGit.
type UnsupportedBackendError struct {
	Backend string
}

// Error describes the unsupported backend.
func (backendError UnsupportedBackendError) Error() string {
	return fmt.Sprintf(unsupportedBackendTemplateConstant, backendError.Backend)
}

// ParseBackend normalizes a configured backend name. An empty name selects BackendCLI.
func ParseBackend(value string) (Backend, error) {
	switch backend := Backend(strings.ToLower(strings.TrimSpace(value))); backend {
	case "":
		return BackendCLI, nil
	case BackendCLI, BackendGoGit:
		return backend, nil
	default:
		return "", UnsupportedBackendError{Backend: value}
	}
}
