package catalog

import "errors"

var (
	ErrEmptyAttributeCode = errors.New("attribute code is required")
	ErrAttributeNotFound  = errors.New("attribute not found")
	ErrDataAccess         = errors.New("data access failure")
	ErrAreaAlreadySet     = errors.New("area code is already set")
	ErrNotSecureArea      = errors.New("operation requires a secure area")
)
