package doctor

import "errors"

var ErrInvalidSpecialty = errors.New("invalid specialty")
