package logger

import "errors"

var (
	ErrOpenLogFile  = errors.New("logger: failed to open log file")
	ErrUnknownLevel = errors.New("logger: unknown log level")
)
