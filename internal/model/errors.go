package model

import "fmt"

// ConfigError marks malformed or inconsistent configuration. Fatal: no
// partial schedule is produced.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "config: " + e.Msg }

// ConfigErrorf builds a ConfigError.
func ConfigErrorf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// DataError marks malformed input records. Recoverable rows are dropped with
// a warning; unrecoverable input is fatal for the run.
type DataError struct {
	Msg string
}

func (e *DataError) Error() string { return "data: " + e.Msg }

// DataErrorf builds a DataError.
func DataErrorf(format string, args ...any) error {
	return &DataError{Msg: fmt.Sprintf(format, args...)}
}

// DependencyError marks a department whose sequencing input failed upstream.
type DependencyError struct {
	Department string
	DependsOn  string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("department %s: sequencing input from %s failed", e.Department, e.DependsOn)
}
