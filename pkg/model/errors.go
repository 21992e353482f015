package model

import "fmt"

// ConfigurationError signals malformed scoring configuration (bad points
// table, unusable tiebreaker chain, roster subset larger than the roster).
// It is fatal to the current recomputation pass.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Msg }

func NewConfigurationError(format string, args ...any) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// DataIntegrityError signals a result referencing an unknown driver,
// division, round or event. Fatal to the current pass.
type DataIntegrityError struct {
	Msg string
}

func (e *DataIntegrityError) Error() string { return "data integrity error: " + e.Msg }

func NewDataIntegrityError(format string, args ...any) error {
	return &DataIntegrityError{Msg: fmt.Sprintf(format, args...)}
}

// IncompleteDataError signals a completed round missing expected result
// rows. Fatal by default, unless the pass runs in lenient mode.
type IncompleteDataError struct {
	Msg string
}

func (e *IncompleteDataError) Error() string { return "incomplete data: " + e.Msg }

func NewIncompleteDataError(format string, args ...any) error {
	return &IncompleteDataError{Msg: fmt.Sprintf(format, args...)}
}
