// Package checkerr provides coded errors for the query checking pipeline.
package checkerr

import (
	"errors"
	"fmt"
)

// Error codes for the failure classes of a query check.
const (
	// CodeConnection: the metadata provider could not reach the database.
	CodeConnection = "QL-0001"
	// CodeQuery: the database rejected the probe query (bad SQL, missing
	// table, permissions).
	CodeQuery = "QL-0002"
	// CodeSQLParse: the column extractor could not see through the SQL.
	CodeSQLParse = "QL-0003"
	// CodeEnumLookup: the enum member lookup failed.
	CodeEnumLookup = "QL-0004"
	// CodeInvalidParameter: a caller-supplied parameter is unusable.
	CodeInvalidParameter = "QL-0005"
	// CodeInternal: anything else.
	CodeInternal = "QL-0006"
)

// CheckError is a coded error produced by the checking pipeline.
type CheckError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *CheckError) Unwrap() error {
	return e.Err
}

// Is checks if this error matches another error by code.
func (e *CheckError) Is(target error) bool {
	var ce *CheckError
	if errors.As(target, &ce) {
		return e.Code == ce.Code
	}
	return false
}

// Recoverable reports whether the failure is one the checker degrades on
// (skip the check for this call site) instead of propagating.
func (e *CheckError) Recoverable() bool {
	switch e.Code {
	case CodeConnection, CodeQuery, CodeSQLParse, CodeEnumLookup:
		return true
	}
	return false
}

// NewConnectionError creates a connection failure error.
func NewConnectionError(err error) *CheckError {
	return &CheckError{
		Code:    CodeConnection,
		Message: "database connection failed",
		Err:     err,
	}
}

// NewQueryError creates a probe query failure error.
func NewQueryError(err error) *CheckError {
	return &CheckError{
		Code:    CodeQuery,
		Message: fmt.Sprintf("query metadata probe failed: %v", err),
		Err:     err,
	}
}

// NewSQLParseError creates a column extraction failure error.
func NewSQLParseError(err error) *CheckError {
	return &CheckError{
		Code:    CodeSQLParse,
		Message: fmt.Sprintf("sql column extraction failed: %v", err),
		Err:     err,
	}
}

// NewEnumLookupError creates an enum lookup failure error.
func NewEnumLookupError(table, column string, err error) *CheckError {
	return &CheckError{
		Code:    CodeEnumLookup,
		Message: fmt.Sprintf("enum lookup for %s.%s failed: %v", table, column, err),
		Err:     err,
	}
}

// NewInvalidParameterError creates an invalid parameter error.
func NewInvalidParameterError(paramName, reason string) *CheckError {
	return &CheckError{
		Code:    CodeInvalidParameter,
		Message: fmt.Sprintf("invalid parameter %q: %s", paramName, reason),
	}
}

// FromError converts a standard error to a CheckError.
// If the error already is one, it is returned as-is; nil stays nil.
func FromError(err error) *CheckError {
	if err == nil {
		return nil
	}
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce
	}
	return &CheckError{
		Code:    CodeInternal,
		Message: err.Error(),
		Err:     err,
	}
}
