package ledger

import (
	"errors"
	"fmt"
)

// ErrNotConfigured means no endpoint is set; no network attempt was
// made. Resolved by saving a web-app URL in settings.
var ErrNotConfigured = errors.New("remote ledger endpoint is not configured")

// ErrNotFound means the remote side has no record with the given id.
var ErrNotFound = errors.New("record not found")

// RemoteError is a failed remote call: transport failure, non-2xx
// response, or an explicit error status in the body. The message is
// human-readable and shown as-is.
type RemoteError struct {
	Op      Action
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: remote ledger call failed", e.Op)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// DeploymentError is a RemoteError whose failure pattern (redirects,
// opaque CORS responses, connection refusals) suggests the web-app
// deployment itself is misconfigured, so the caller can point the
// user at settings instead of just reporting a failure.
type DeploymentError struct {
	RemoteError
}

// Hint is the actionable advice surfaced next to the error banner.
func (e *DeploymentError) Hint() string {
	return "verify the web-app URL in settings and that the script is deployed with access set to Anyone"
}

func NewRemoteError(op Action, message string, err error) *RemoteError {
	return &RemoteError{Op: op, Message: message, Err: err}
}

func NewDeploymentError(op Action, message string, err error) *DeploymentError {
	return &DeploymentError{RemoteError: RemoteError{Op: op, Message: message, Err: err}}
}

// IsDeployment reports whether err carries the deployment variant.
func IsDeployment(err error) bool {
	var de *DeploymentError
	return errors.As(err, &de)
}
