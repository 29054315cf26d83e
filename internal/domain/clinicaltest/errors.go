package clinicaltest

import "errors"

var (
	ErrTemplateNotFound      = errors.New("test template not found")
	ErrTemplateAlreadyExists = errors.New("test template with this id already exists")
	ErrTestNotFound          = errors.New("patient test not found")
)
