// Package batch resolves combine requests into work items and runs them
// across a worker pool.
//
// A combine request names two inputs and an output. When both inputs are
// files the batch has a single item; when one input is a directory every
// .cube file in it is paired against the fixed file, and the output must
// be a directory. Items are independent, so one malformed LUT never
// stops the rest of the batch.
package batch

import (
	"strings"

	"github.com/google/uuid"

	"github.com/lutforge/lutforge/pkg/errors"
	"github.com/lutforge/lutforge/pkg/lut"
)

// Result statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Result records the outcome of one combine item.
type Result struct {
	// Name identifies the item, e.g. "NodeA_PLUS_NodeB".
	Name   string `json:"name"`
	Status string `json:"status"`

	// Range statistics of the combined table. Only set on success.
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	ClippedRatio float64 `json:"clipped_ratio"`

	// OutputPath is where the combined LUT was written. Only set on
	// success.
	OutputPath string `json:"output_path,omitempty"`

	// Message carries the failure description for error results, and
	// Code the machine-readable error code when the failure carried one.
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Err rebuilds the coded error of a failed result, so callers holding
// only the record can still dispatch on the code. Returns nil for
// success results.
func (r Result) Err() error {
	if r.Status != StatusError {
		return nil
	}
	code := errors.Code(r.Code)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.New(code, "%s: %s", r.Name, r.Message)
}

// ok builds a success result from the analysis of a combined grid.
func ok(name, path string, stats lut.Stats) Result {
	return Result{
		Name:         name,
		Status:       StatusOK,
		Min:          stats.Min,
		Max:          stats.Max,
		ClippedRatio: stats.ClippedRatio,
		OutputPath:   path,
	}
}

// failed builds an error result, preserving the error code when present.
// The code is split out of the message so it stays machine-readable
// without being rendered twice.
func failed(name string, err error) Result {
	code := errors.GetCode(err)
	msg := strings.TrimPrefix(err.Error(), string(code)+": ")
	return Result{
		Name:    name,
		Status:  StatusError,
		Message: msg,
		Code:    string(code),
	}
}

// Run is a completed batch: every item produced exactly one result, in
// item order.
type Run struct {
	// ID tags the run so results can be correlated in logs and reports.
	ID      string   `json:"id"`
	Results []Result `json:"results"`
}

// newRunID mints a unique identifier for a batch run.
func newRunID() string {
	return uuid.NewString()
}

// Failed counts the error results in the run.
func (r *Run) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == StatusError {
			n++
		}
	}
	return n
}
