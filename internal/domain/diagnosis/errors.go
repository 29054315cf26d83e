package diagnosis

import "errors"

var (
	ErrDiagnosisNotFound      = errors.New("diagnosis not found")
	ErrDiagnosisAlreadyExists = errors.New("diagnosis with this name already exists")
)
