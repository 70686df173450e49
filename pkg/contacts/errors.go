package contacts

import "errors"

var (
	ErrUnknownSource = errors.New("contacts: unknown source type")
	ErrOpenSource    = errors.New("contacts: failed to open source")
	ErrParseCSV      = errors.New("contacts: failed to parse CSV")
	ErrQuery         = errors.New("contacts: query failed")
)
