package lcd

import (
	"fmt"

	"github.com/juju/errors"
)

var ErrClosed = errors.New("lcd closed")

// ConfigurationError means Port refused to claim a pin.
type ConfigurationError struct {
	Signal Signal
	Pin    string
	Err    error
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("configure %s pin=%s: %v", e.Signal, e.Pin, e.Err)
}

// IOError means Port failed to change pin level.
type IOError struct {
	Signal Signal
	Pin    string
	Err    error
}

func (e IOError) Error() string {
	return fmt.Sprintf("write %s pin=%s: %v", e.Signal, e.Pin, e.Err)
}

// GeometryError is a position or display size outside of what controller addresses.
type GeometryError struct {
	Column, Row   int
	Columns, Rows int
}

func (e GeometryError) Error() string {
	return fmt.Sprintf("geometry column=%d row=%d display=%dx%d", e.Column, e.Row, e.Columns, e.Rows)
}

func IsConfiguration(err error) bool {
	_, ok := errors.Cause(err).(ConfigurationError)
	return ok
}

func IsIO(err error) bool {
	_, ok := errors.Cause(err).(IOError)
	return ok
}

func IsGeometry(err error) bool {
	_, ok := errors.Cause(err).(GeometryError)
	return ok
}

func IsClosed(err error) bool { return errors.Cause(err) == ErrClosed }
