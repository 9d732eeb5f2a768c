package smbios

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by errors.Is for every NotFoundError. The structure
	// is simply not present on this machine; the table itself is fine.
	ErrNotFound = errors.New("smbios: structure type not found")

	// ErrMalformed is matched by errors.Is for errors caused by corrupt or
	// truncated table data.
	ErrMalformed = errors.New("smbios: malformed table")

	// ErrShortTable is returned by providers that deliver fewer bytes than they
	// announced.
	ErrShortTable = errors.New("smbios: firmware table shorter than announced")
)

// BufferTooShortError reports a raw table, or a structure within it, that
// ends before the required number of bytes.
type BufferTooShortError struct {
	Actual   int
	Required int
}

func (e *BufferTooShortError) Error() string {
	return fmt.Sprintf("smbios: buffer too short: %d bytes, need %d", e.Actual, e.Required)
}

// Is makes the error match ErrMalformed.
func (e *BufferTooShortError) Is(target error) bool { return target == ErrMalformed }

// StructureTooShortError reports a structure whose declared length is below
// the minimum for its type.
type StructureTooShortError struct {
	Type     StructureType
	Actual   int
	Required int
}

func (e *StructureTooShortError) Error() string {
	return fmt.Sprintf("smbios: %s structure too short: %d bytes, need %d", e.Type, e.Actual, e.Required)
}

// Is makes the error match ErrMalformed.
func (e *StructureTooShortError) Is(target error) bool { return target == ErrMalformed }

// NotFoundError is returned when a table holds no structure of the requested type.
type NotFoundError struct {
	Type StructureType
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("smbios: no %s structure (type %d) in table", e.Type, uint8(e.Type))
}

// Is makes the error match ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// MultipleStructuresError is returned when exactly one structure was expected.
type MultipleStructuresError struct {
	Type  StructureType
	Count int
}

func (e *MultipleStructuresError) Error() string {
	return fmt.Sprintf("smbios: expected one %s structure, found %d", e.Type, e.Count)
}

// FieldDecodeError reports a field whose content could not be interpreted.
type FieldDecodeError struct {
	Type   StructureType
	Field  string
	Reason string
	Err    error
}

func (e *FieldDecodeError) Error() string {
	msg := fmt.Sprintf("smbios: %s: field %s: %s", e.Type, e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FieldDecodeError) Unwrap() error { return e.Err }

// Is makes the error match ErrMalformed.
func (e *FieldDecodeError) Is(target error) bool { return target == ErrMalformed }

// IsNotFound reports whether err means the structure type is absent from the table.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMalformed reports whether err was caused by corrupt or truncated data.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}
