package mosaic

import "fmt"

// DecodeError reports an unreadable or corrupt input file. The whole group
// is abandoned when any of its four members fails to decode.
type DecodeError struct {
	File string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.File, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a failure to serialize the composited surface.
type EncodeError struct {
	GroupKey string
	Err      error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode group %s: %v", e.GroupKey, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
