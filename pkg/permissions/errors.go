package permissions

import "errors"

// ClientError denotes a fetch that failed because the request itself was
// malformed (a 4xx-equivalent). It is not retried and surfaces to the
// caller as-is.
type ClientError struct {
	msg string
	err error
}

// NewClientError wraps err as a client-side failure.
func NewClientError(msg string, err error) *ClientError {
	return &ClientError{msg: msg, err: err}
}

func (e *ClientError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *ClientError) Unwrap() error { return e.err }

// ServerError denotes a transient or backend failure: a 5xx from the
// remote gateway, a transport failure, or a cache read/write failure.
type ServerError struct {
	msg string
	err error
}

// NewServerError wraps err as a server-side failure.
func NewServerError(msg string, err error) *ServerError {
	return &ServerError{msg: msg, err: err}
}

func (e *ServerError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *ServerError) Unwrap() error { return e.err }

// IsClientError reports whether any error in err's chain is a *ClientError.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// IsServerError reports whether any error in err's chain is a *ServerError.
func IsServerError(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}
