package httpx

import (
	"encoding/json"
	"errors"
	"io"
)

// ErrTrailingData is returned by DecodeJSON when the body holds more than one
// JSON value.
var ErrTrailingData = errors.New("unexpected data after JSON value")

// DecodeJSON decodes a single JSON value from r into v. An empty body
// leaves v untouched and returns io.EOF.
func DecodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}

	_, err := dec.Token()
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return err
	default:
		return ErrTrailingData
	}
}
