package convert

import "errors"

var (
	// ErrMissingCredential means no usable API key for the remote service.
	ErrMissingCredential = errors.New("conversion credential missing")
	// ErrTransport covers network-level failures reaching the service.
	ErrTransport = errors.New("conversion transport failure")
	// ErrServiceRejected means the service answered but refused or returned
	// an unusable artifact.
	ErrServiceRejected = errors.New("conversion rejected by service")
)
