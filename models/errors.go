package models

import (
	"fmt"
	"strings"
)

// ConfigurationError indicates a required input or output path is missing or
// unusable. Fatal: the run aborts before any output is written.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// SchemaError indicates the price workbook is missing required columns.
// Fatal for the whole run: without a catalog no reconciliation is possible.
type SchemaError struct {
	File    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("price file %s is missing required columns: %s", e.File, strings.Join(e.Missing, ", "))
}
