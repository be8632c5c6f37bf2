package osmpbf

import "fmt"

// FormatError reports malformed framing, an unknown compression scheme, or
// a schema violation detected while reading a blob. The caller decides
// whether to skip the affected block or close the file, depending on
// whether the failure was in the header blob or a data blob.
type FormatError struct {
	Op  string
	Err error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("osmpbf: format error in %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("osmpbf: format error in %s", e.Op)
}

func (e *FormatError) Unwrap() error { return e.Err }

func newFormatError(op string, err error) *FormatError {
	return &FormatError{Op: op, Err: err}
}

// IncompleteBlock reports that a block decoded successfully at the
// protobuf-message level but fails an OSM-level invariant (e.g. the
// dense-node tag sentinel count doesn't match the node count). A decoder
// that hits this enters a permanent null state: IsNull() reports true and
// every cursor over it reads as empty from then on.
type IncompleteBlock struct {
	Reason string
}

func (e *IncompleteBlock) Error() string {
	return fmt.Sprintf("osmpbf: incomplete block: %s", e.Reason)
}

// InternalEncoderError reports that flush was called on an encoder that
// never had a primitive added to it. No bytes are written; the caller's
// buffer is left untouched.
type InternalEncoderError struct {
	Reason string
}

func (e *InternalEncoderError) Error() string {
	return fmt.Sprintf("osmpbf: encoder error: %s", e.Reason)
}
