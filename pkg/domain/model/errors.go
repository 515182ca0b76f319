package model

import "github.com/m-mizutani/goerr/v2"

// Error classes. Every specific error below wraps exactly one class so callers
// can branch with errors.Is on either level.
var (
	// ErrUsage is a bad argument shape, type or domain at a call site.
	ErrUsage = goerr.New("usage error")
	// ErrSchema is a missing, extra or wrongly typed table column.
	ErrSchema = goerr.New("schema error")
	// ErrDataQuality is a null or non-numeric value where a value is required.
	ErrDataQuality = goerr.New("data quality error")
	// ErrNotFound is a lookup of a record or resource that does not exist.
	ErrNotFound = goerr.New("not found")
	// ErrLimitExceeded is a request refused because a capacity limit is reached.
	ErrLimitExceeded = goerr.New("limit exceeded")
)

// Usage errors
var (
	ErrInvalidArgument = goerr.Wrap(ErrUsage, "invalid argument")
	ErrInvalidApproach = goerr.Wrap(ErrUsage, "invalid approach, must be 'Simple' or 'Weighted'")
	ErrInvalidCount    = goerr.Wrap(ErrUsage, "event count must not be negative")
	ErrInvalidWindow   = goerr.Wrap(ErrUsage, "start must not be after end")
)

// Limit errors
var (
	ErrTooManyEvents = goerr.Wrap(ErrLimitExceeded, "too many events requested")
)

// Schema errors
var (
	ErrMissingColumn    = goerr.Wrap(ErrSchema, "missing column")
	ErrUnexpectedColumn = goerr.Wrap(ErrSchema, "unexpected column")
	ErrColumnType       = goerr.Wrap(ErrSchema, "column type mismatch")
	ErrColumnLength     = goerr.Wrap(ErrSchema, "column length mismatch")
	ErrDuplicateColumn  = goerr.Wrap(ErrSchema, "duplicate column")
)

// Data quality errors
var (
	ErrNullValue  = goerr.Wrap(ErrDataQuality, "null value")
	ErrNonNumeric = goerr.Wrap(ErrDataQuality, "non-numeric value")
)

// Context keys for error values
const (
	ArgumentKey     = "argument"
	ValueKey        = "value"
	ColumnKey       = "column"
	RowKey          = "row"
	ApproachKey     = "approach"
	ExpectedTypeKey = "expected_type"
	ActualTypeKey   = "actual_type"
)
