package posixfs

import "github.com/arthur-debert/posixfs/pkg/posixfs/fatfs"

// Errno is the categorized failure reason surfaced to callers. It
// implements error; the zero value means "no error" and is what
// Session.Errno reports after a successful operation.
type Errno int

const (
	ErrOK Errno = iota
	ErrBadDescriptor
	ErrNoMemory
	ErrNoSuchEntry
	ErrTooManyOpen
	ErrPermissionDenied
	ErrIO
	ErrBusy
	ErrInvalidArgument
	ErrReadOnlyFilesystem
	ErrNoSpace
	ErrNoDevice
	ErrSeekMismatch
	ErrUnrecognized
)

// errnoCount is the number of defined Errno values.
const errnoCount = int(ErrUnrecognized) + 1

var errnoMessages = [errnoCount]string{
	"no error",
	"bad file descriptor",
	"out of memory",
	"no such file or directory",
	"too many open files",
	"permission denied",
	"input/output error",
	"device or resource busy",
	"invalid argument",
	"read-only file system",
	"no space left on device",
	"no such device",
	"seek position mismatch",
	"unrecognized error",
}

// Error implements the error interface.
func (e Errno) Error() string {
	return Strerror(int(e))
}

// Strerror returns the message for an errno value. Out-of-range values are
// clamped to the unrecognized-error message rather than indexed unchecked.
func Strerror(errnum int) string {
	if errnum < 0 || errnum >= errnoCount {
		errnum = int(ErrUnrecognized)
	}
	return errnoMessages[errnum]
}

// errnoFromResult translates a driver result code into an Errno. The
// mapping is total: codes outside the defined set fold to ErrUnrecognized.
func errnoFromResult(res fatfs.Result) Errno {
	switch res {
	case fatfs.ResultOK:
		return ErrOK
	case fatfs.ResultDiskErr:
		return ErrIO
	case fatfs.ResultNotReady, fatfs.ResultTimeout, fatfs.ResultLocked:
		return ErrBusy
	case fatfs.ResultNoFile, fatfs.ResultNoPath:
		return ErrNoSuchEntry
	case fatfs.ResultInvalidName, fatfs.ResultInvalidObject, fatfs.ResultInvalidParameter:
		return ErrInvalidArgument
	case fatfs.ResultDenied, fatfs.ResultExist:
		return ErrPermissionDenied
	case fatfs.ResultWriteProtected:
		return ErrReadOnlyFilesystem
	case fatfs.ResultInvalidDrive, fatfs.ResultNoFilesystem:
		return ErrNoDevice
	case fatfs.ResultNotEnabled:
		return ErrNoSpace
	case fatfs.ResultMkfsAborted:
		return ErrInvalidArgument
	case fatfs.ResultNotEnoughCore:
		return ErrNoMemory
	case fatfs.ResultTooManyOpen:
		return ErrTooManyOpen
	}
	return ErrUnrecognized
}
