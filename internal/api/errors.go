package api

import (
	"fmt"
	"strings"
)

// Parameter locations for BadRequest errors.
const (
	InHeader = "header"
	InBody   = "body"
)

// BadRequestError is returned by handlers when a header or body field is
// missing or malformed. The central error handler renders it as a 400 with
// the offending parameters listed.
type BadRequestError struct {
	Params []Param
}

func (e *BadRequestError) Error() string {
	names := make([]string, 0, len(e.Params))
	for _, p := range e.Params {
		names = append(names, p.Name)
	}
	return fmt.Sprintf("missing/invalid parameters: %s", strings.Join(names, ", "))
}

// MissingParam builds a BadRequestError for a required parameter that was absent.
func MissingParam(name, in, datatype string) *BadRequestError {
	return &BadRequestError{Params: []Param{{
		Name:     name,
		Type:     in,
		Datatype: datatype,
		Required: true,
		Reason:   "Missing",
	}}}
}

// InvalidParam builds a BadRequestError for a parameter that failed to parse.
func InvalidParam(name, in, datatype, reason string) *BadRequestError {
	return &BadRequestError{Params: []Param{{
		Name:     name,
		Type:     in,
		Datatype: datatype,
		Required: true,
		Reason:   reason,
	}}}
}
