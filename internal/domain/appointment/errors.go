package appointment

import "errors"

var (
	ErrAppointmentNotFound      = errors.New("appointment not found")
	ErrAppointmentAlreadyExists = errors.New("appointment for this patient and date already exists")
	ErrInvalidDate              = errors.New("appointment date must be an ISO date (YYYY-MM-DD)")
)
