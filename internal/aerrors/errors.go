// Package aerrors defines the error taxonomy shared by every builder and
// query-time package in this module, per the propagation policy: query-time
// errors are recovered locally and returned as neutral results, while
// load/build-time errors are surfaced with enough context to find the
// offending file.
package aerrors

import "github.com/pkg/errors"

// Kind classifies an error into one of the documented failure modes.
type Kind uint8

const (
	// KindInvalidAlphabet: input contained a base outside {A,C,G,T}.
	KindInvalidAlphabet Kind = iota
	// KindWrongLength: a k-mer whose length differs from the index's k.
	KindWrongLength
	// KindNotInSet: correct shape, but canonical form absent from the MPHF
	// build set (checker mismatch). Never fatal.
	KindNotInSet
	// KindIO: memory-map, open, or read failures.
	KindIO
	// KindCorruptIndex: length/consistency mismatches between sidecar files.
	KindCorruptIndex
	// KindBuildOverflow: a tf counter exceeded uint32 max during build.
	KindBuildOverflow
)

func (k Kind) String() string {
	switch k {
	case KindInvalidAlphabet:
		return "InvalidAlphabet"
	case KindWrongLength:
		return "WrongLength"
	case KindNotInSet:
		return "NotInSet"
	case KindIO:
		return "IoError"
	case KindCorruptIndex:
		return "CorruptIndex"
	case KindBuildOverflow:
		return "BuildOverflow"
	default:
		return "Unknown"
	}
}

// Error is a typed error carrying its Kind alongside pkg/errors-compatible
// wrapping (Unwrap), so call sites can both errors.Is against a
// sentinel and inspect .Kind() for a category.
type Error struct {
	kind Kind
	err  error
}

func (e *Error) Error() string { return e.err.Error() }
func (e *Error) Unwrap() error { return e.err }
func (e *Error) Kind() Kind    { return e.kind }

// New creates a Kind-tagged error with a message.
func New(kind Kind, msg string) error {
	return &Error{kind: kind, err: errors.New(msg)}
}

// Wrap tags an existing error with a Kind, preserving its chain.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, err: errors.Wrap(err, msg)}
}

// Wrapf is Wrap with formatting.
func Wrapf(kind Kind, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, err: errors.Wrapf(err, format, args...)}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.kind == kind
	}
	return false
}

// Sentinel errors for common, kind-stable conditions.
var (
	ErrCorruptIndex     = New(KindCorruptIndex, "aindex: corrupt index files")
	ErrBuildOverflow    = New(KindBuildOverflow, "aindex: term-frequency counter overflow, use u64 counters")
	ErrInvalidAlphabet  = New(KindInvalidAlphabet, "aindex: invalid nucleotide alphabet")
	ErrWrongLength      = New(KindWrongLength, "aindex: k-mer length mismatch")
)
