package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// RunID identifies a single analysis run (one test execution).
	RunID ID
	// DatasetID identifies a loaded dataset.
	DatasetID ID
	// ColumnKey names a column within a dataset.
	ColumnKey string
)

func (id RunID) String() string     { return ID(id).String() }
func (id DatasetID) String() string { return ID(id).String() }
func (k ColumnKey) String() string  { return string(k) }

// NewRunID creates a fresh run identifier.
func NewRunID() RunID { return RunID(NewID()) }

// NewDatasetID creates a fresh dataset identifier.
func NewDatasetID() DatasetID { return DatasetID(NewID()) }

// ParseColumnKey parses a string into a ColumnKey
func ParseColumnKey(s string) (ColumnKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("column key cannot be empty")
	}
	return ColumnKey(s), nil
}
