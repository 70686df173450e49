package bulkmail

import "errors"

var (
	ErrInvalidConfig      = errors.New("bulkmail: invalid configuration")
	ErrTemplateNotLoaded  = errors.New("bulkmail: template could not be loaded")
	ErrNoContacts         = errors.New("bulkmail: no contacts loaded")
	ErrTransport          = errors.New("bulkmail: failed to set up transport")
	ErrInterrupted        = errors.New("bulkmail: run interrupted")
	ErrUnknownPlaceholder = errors.New("bulkmail: template placeholder has no matching contact field")
)
