package posixfs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/posixfs/pkg/posixfs/fatfs"
)

func TestErrnoFromResultTotality(t *testing.T) {
	want := map[fatfs.Result]Errno{
		fatfs.ResultOK:               ErrOK,
		fatfs.ResultDiskErr:          ErrIO,
		fatfs.ResultNotReady:         ErrBusy,
		fatfs.ResultNoFile:           ErrNoSuchEntry,
		fatfs.ResultNoPath:           ErrNoSuchEntry,
		fatfs.ResultInvalidName:      ErrInvalidArgument,
		fatfs.ResultDenied:           ErrPermissionDenied,
		fatfs.ResultExist:            ErrPermissionDenied,
		fatfs.ResultInvalidObject:    ErrInvalidArgument,
		fatfs.ResultWriteProtected:   ErrReadOnlyFilesystem,
		fatfs.ResultInvalidDrive:     ErrNoDevice,
		fatfs.ResultNotEnabled:       ErrNoSpace,
		fatfs.ResultNoFilesystem:     ErrNoDevice,
		fatfs.ResultMkfsAborted:      ErrInvalidArgument,
		fatfs.ResultTimeout:          ErrBusy,
		fatfs.ResultLocked:           ErrBusy,
		fatfs.ResultNotEnoughCore:    ErrNoMemory,
		fatfs.ResultTooManyOpen:      ErrTooManyOpen,
		fatfs.ResultInvalidParameter: ErrInvalidArgument,
	}
	for res, errno := range want {
		assert.Equal(t, errno, errnoFromResult(res), "result %v", res)
	}

	// Codes outside the defined set fold to ErrUnrecognized.
	assert.Equal(t, ErrUnrecognized, errnoFromResult(fatfs.Result(99)))
	assert.Equal(t, ErrUnrecognized, errnoFromResult(fatfs.Result(-1)))
}

func TestErrnoMessages(t *testing.T) {
	for e := ErrOK; e <= ErrUnrecognized; e++ {
		assert.NotEmpty(t, e.Error(), "errno %d", int(e))
	}
}

func TestStrerrorClamps(t *testing.T) {
	unrecognized := ErrUnrecognized.Error()
	assert.Equal(t, unrecognized, Strerror(-1))
	assert.Equal(t, unrecognized, Strerror(999))
	assert.Equal(t, "no such file or directory", Strerror(int(ErrNoSuchEntry)))
}

func TestErrnoIsError(t *testing.T) {
	var err error = ErrBadDescriptor
	assert.EqualError(t, err, "bad file descriptor")
}
