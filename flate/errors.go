package flate

import (
	"runtime"

	"github.com/nodalcore/pdfcore/bitio"
)

// Kind categorizes a DEFLATE/zlib decoding failure.
type Kind int

const (
	KindInvalidBlock Kind = iota
	KindInvalidCode
	KindBadDistance
	KindLengthMismatch
	KindUnexpectedEOF
	KindHeaderMismatch
	KindOutputTooLarge
	KindMisaligned
)

// Error is the error type returned by this package. No partial output is
// ever returned alongside a non-nil Error.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return "flate: " + e.Msg }

var (
	ErrInvalidBlock    = &Error{KindInvalidBlock, "BTYPE 11 is reserved"}
	ErrInvalidCode     = &Error{KindInvalidCode, "no matching huffman code"}
	ErrBadDistance     = &Error{KindBadDistance, "back-reference distance out of range"}
	ErrLengthMismatch  = &Error{KindLengthMismatch, "stored block LEN/NLEN mismatch"}
	ErrUnexpectedEOF   = &Error{KindUnexpectedEOF, "unexpected end of deflate stream"}
	ErrHeaderMismatch  = &Error{KindHeaderMismatch, "zlib header check failed"}
	ErrOutputTooLarge  = &Error{KindOutputTooLarge, "decompressed output exceeded configured cap"}
	ErrBufferMisaligned = &Error{KindMisaligned, "bit buffer not byte-aligned"}
)

// errRecover is installed with defer at the top of every exported entry
// point. Internal decoding helpers panic with *Error (or let a *bitio.Error
// propagate) instead of threading an error return through every bit-level
// helper; errRecover turns that panic back into a normal error return.
// Anything else (including a runtime.Error, e.g. an index-out-of-range bug)
// is re-panicked rather than swallowed.
func errRecover(err *error) {
	switch ex := recover().(type) {
	case nil:
		return
	case runtime.Error:
		panic(ex)
	case *Error:
		*err = ex
	case *bitio.Error:
		*err = translateBitError(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}

func translateBitError(e *bitio.Error) error {
	switch e.Kind {
	case bitio.KindUnexpectedEOF:
		return ErrUnexpectedEOF
	case bitio.KindMisaligned:
		return ErrBufferMisaligned
	default:
		return e
	}
}
