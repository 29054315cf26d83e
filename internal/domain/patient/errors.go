package patient

import "errors"

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPatientAlreadyExists = errors.New("patient with this folder path already exists")
	ErrFolderPathRequired   = errors.New("folder path is required")
	ErrInvalidStatus        = errors.New("invalid patient status")
)
