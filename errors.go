package main

import "errors"

// ValidationError carries a user-facing message for input the editor
// must correct. Handlers map it to 422 and never persist anything.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(msg string) error {
	return &ValidationError{Message: msg}
}

func isValidationErr(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// errDuplicateReport surfaces the (site_id, date) unique constraint:
// another editor saved a report for the same day first.
var errDuplicateReport = errors.New("a report for this site and date already exists")
