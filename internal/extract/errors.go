package extract

import "fmt"

// Kind classifies extraction failures.
type Kind string

const (
	KindDocumentUnreadable Kind = "document_unreadable"
	KindUploadFailed       Kind = "upload_failed"
	KindExtractionFailed   Kind = "extraction_failed"
	KindChunkIntegrity     Kind = "chunk_integrity"
	KindWriteFailed        Kind = "write_failed"
)

// Sentinels for errors.Is.
var (
	ErrDocumentUnreadable = &Error{Kind: KindDocumentUnreadable}
	ErrUploadFailed       = &Error{Kind: KindUploadFailed}
	ErrExtractionFailed   = &Error{Kind: KindExtractionFailed}
	ErrChunkIntegrity     = &Error{Kind: KindChunkIntegrity}
	ErrWriteFailed        = &Error{Kind: KindWriteFailed}
)

// Error is a failure of one extraction step.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Op, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("[%s] %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("[%s] %s", e.Kind, e.Op)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}
