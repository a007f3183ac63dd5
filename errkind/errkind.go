// Package errkind carries the op_ret/op_errno-style error classification
// used at every FOP boundary and by the cluster op state machine.
package errkind

import (
	"syscall"

	"github.com/pkg/errors"
)

// Kind classifies a failure the way spec.md §7 enumerates them, each
// mapping to the POSIX errno a FOP boundary would have returned.
type Kind int

const (
	None Kind = iota
	ResourceExhaustion
	InvalidArgument
	NotFound
	Permission
	OutOfRange
	Conflict
	NotSupported
	TransientBackend
	FatalInvariantViolation
)

func (k Kind) String() string {
	switch k {
	case ResourceExhaustion:
		return "resource-exhaustion"
	case InvalidArgument:
		return "invalid-argument"
	case NotFound:
		return "not-found"
	case Permission:
		return "permission"
	case OutOfRange:
		return "out-of-range"
	case Conflict:
		return "conflict"
	case NotSupported:
		return "not-supported"
	case TransientBackend:
		return "transient-backend"
	case FatalInvariantViolation:
		return "fatal-invariant-violation"
	default:
		return "none"
	}
}

// Errno returns the POSIX errno this Kind maps to at a FOP boundary.
func (k Kind) Errno() syscall.Errno {
	switch k {
	case ResourceExhaustion:
		return syscall.ENOMEM
	case InvalidArgument:
		return syscall.EINVAL
	case NotFound:
		return syscall.ENOENT
	case Permission:
		return syscall.EACCES
	case OutOfRange:
		return syscall.ERANGE
	case Conflict:
		return syscall.EEXIST
	case NotSupported:
		return syscall.ENOTSUP
	default:
		return 0
	}
}

type wrapped struct {
	kind  Kind
	cause error
}

func (w *wrapped) Error() string { return w.kind.String() + ": " + w.cause.Error() }
func (w *wrapped) Unwrap() error { return w.cause }

// New wraps msg with a stack trace (via github.com/pkg/errors) and tags
// it with kind so callers can recover the classification with As.
func New(kind Kind, msg string) error {
	return &wrapped{kind: kind, cause: errors.New(msg)}
}

// Wrap tags an existing error with kind, preserving its cause chain.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrapped{kind: kind, cause: errors.Wrap(err, msg)}
}

// As recovers the Kind tagged onto err, if any.
func As(err error) (Kind, bool) {
	for err != nil {
		if w, ok := err.(*wrapped); ok {
			return w.kind, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return None, false
}

// ToErrno is the FOP-boundary conversion: op_ret=-1, op_errno=ToErrno(err).
func ToErrno(err error) syscall.Errno {
	if err == nil {
		return 0
	}
	if k, ok := As(err); ok {
		if e := k.Errno(); e != 0 {
			return e
		}
	}
	return syscall.EIO
}
