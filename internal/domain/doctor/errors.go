package doctor

import "errors"

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDoctorAlreadyExists = errors.New("doctor with this name already exists")
	ErrNameRequired        = errors.New("doctor name is required")
)
