package media

import "errors"

var (
	ErrMediaNotFound   = errors.New("media not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrUploadTooLarge  = errors.New("upload exceeds size limit")
)
