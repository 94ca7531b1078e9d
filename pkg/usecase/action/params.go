package action

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// decodeParams strictly decodes paramsJson into T. Blank input yields the
// zero value; unknown fields and trailing data are rejected.
func decodeParams[T any](raw string) (T, error) {
	var v T
	if strings.TrimSpace(raw) == "" {
		return v, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, goerr.Wrap(err, "malformed params")
	}
	if _, err := dec.Token(); err != io.EOF {
		return v, goerr.New("malformed params: trailing data")
	}
	return v, nil
}
