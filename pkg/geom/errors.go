package geom

import "fmt"

// GeometryError reports malformed or degenerate geometric input detected
// by an engine implementation. It is never retried; callers surface it
// immediately.
type GeometryError struct {
	Op  string // operation that failed, e.g. "polygon"
	Msg string
	Err error // underlying engine error, if any
}

func (e *GeometryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geometry: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("geometry: %s: %s", e.Op, e.Msg)
}

func (e *GeometryError) Unwrap() error {
	return e.Err
}
