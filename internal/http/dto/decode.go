package dto

import (
	"net/url"

	"github.com/go-playground/form/v4"
)

var decoder = form.NewDecoder()

// DecodeValues fills dst from query or multipart values using form tags.
func DecodeValues(dst interface{}, values url.Values) error {
	return decoder.Decode(dst, values)
}
