package async

import "errors"

// ErrNilCall is returned when starting the zero value of Call.
var ErrNilCall = errors.New("call has no function")
