package httperr

import (
	"errors"
	"fmt"
)

// BusinessError is a refused state transition or rule, identified by code.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// ======================================================
// NOT FOUND
// ======================================================

type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s_not_found: %s", e.Entity, e.ID)
}

func ErrNotFound(entity, id string) error {
	return NotFoundError{Entity: entity, ID: id}
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// ======================================================
// CONFLICT
// ======================================================

// ConflictError reports an active appointment of the same employee
// overlapping the requested interval.
type ConflictError struct {
	ConflictingAppointmentID string
}

func (e ConflictError) Error() string {
	return "time_conflict: " + e.ConflictingAppointmentID
}

func ErrConflict(appointmentID string) error {
	return ConflictError{ConflictingAppointmentID: appointmentID}
}

func AsConflict(err error) (ConflictError, bool) {
	var ce ConflictError
	ok := errors.As(err, &ce)
	return ce, ok
}

func IsConflict(err error) bool {
	_, ok := AsConflict(err)
	return ok
}

// ======================================================
// VALIDATION
// ======================================================

type ValidationError struct {
	Field string
	Code  string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Code
}

func ErrValidation(field, code string) error {
	return ValidationError{Field: field, Code: code}
}

func AsValidation(err error) (ValidationError, bool) {
	var ve ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

func IsValidation(err error) bool {
	_, ok := AsValidation(err)
	return ok
}
