package descale

import "errors"

// The three construction-time error kinds. Runtime solves never fail.
var (
	// ErrShape marks dimensions incompatible with the requested direction.
	ErrShape = errors.New("shape")
	// ErrParameter marks numeric parameters out of range.
	ErrParameter = errors.New("parameter")
	// ErrKernel marks an unknown or misbehaving kernel.
	ErrKernel = errors.New("kernel")
)

type buildError struct {
	kind error
	msg  string
}

func (e buildError) Error() string { return e.msg }

func (e buildError) Unwrap() error { return e.kind }

// NewShapeError wraps msg as an ErrShape.
func NewShapeError(msg string) error { return buildError{kind: ErrShape, msg: msg} }

// NewParameterError wraps msg as an ErrParameter.
func NewParameterError(msg string) error { return buildError{kind: ErrParameter, msg: msg} }

// NewKernelError wraps msg as an ErrKernel.
func NewKernelError(msg string) error { return buildError{kind: ErrKernel, msg: msg} }
