// Package report defines the failure kinds shared by the avatar packages.
package report

import (
	"errors"
	"fmt"
)

// Report is a failure kind. It implements error, so the bare value can be
// returned and matched with errors.Is.
type Report uint8

// Reports
const (
	None Report = iota
	InvalidArgument
	AllocationFailure
	ReadFailure
	WriteFailure
	OpenFailure
	CloseFailure
	mask
)

var descriptions = [mask]string{
	None:              "No error.",
	InvalidArgument:   "Bad arguments.",
	AllocationFailure: "Dynamic allocation fail.",
	ReadFailure:       "Reading error.",
	WriteFailure:      "Writing error.",
	OpenFailure:       "Unable to open a file.",
	CloseFailure:      "Unable to close a file.",
}

// Error returns the human readable description.
func (r Report) Error() string {
	if r < mask {
		return descriptions[r]
	}
	return fmt.Sprintf("Unknown error (%d).", uint8(r))
}

func (r Report) String() string {
	return r.Error()
}

// Of returns the first Report found in the chain of err, or None.
func Of(err error) Report {
	var r Report
	if errors.As(err, &r) {
		return r
	}
	return None
}
