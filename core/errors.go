package core

import "errors"

var (
	ErrNotFound         = errors.New("showcase: not found")
	ErrTemplateNotFound = errors.New("showcase: template not found")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsTemplateNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}
