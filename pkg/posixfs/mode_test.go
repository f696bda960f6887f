package posixfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/posixfs/pkg/posixfs"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		mode  string
		flags posixfs.OpenFlag
		err   error
	}{
		{mode: "r", flags: posixfs.OpenReadOnly},
		{mode: "rb", flags: posixfs.OpenReadOnly},
		{mode: "r+", flags: posixfs.OpenReadWrite | posixfs.OpenTruncate},
		{mode: "r+b", flags: posixfs.OpenReadWrite | posixfs.OpenTruncate},
		{mode: "rb+", flags: posixfs.OpenReadWrite | posixfs.OpenTruncate},
		{mode: "w", flags: posixfs.OpenWriteOnly | posixfs.OpenCreate | posixfs.OpenTruncate},
		{mode: "wb", flags: posixfs.OpenWriteOnly | posixfs.OpenCreate | posixfs.OpenTruncate},
		{mode: "w+", flags: posixfs.OpenReadWrite | posixfs.OpenCreate | posixfs.OpenTruncate},
		{mode: "w+b", flags: posixfs.OpenReadWrite | posixfs.OpenCreate | posixfs.OpenTruncate},
		{mode: "wb+", flags: posixfs.OpenReadWrite | posixfs.OpenCreate | posixfs.OpenTruncate},
		{mode: "a", flags: posixfs.OpenWriteOnly | posixfs.OpenCreate | posixfs.OpenAppend},
		{mode: "ab", flags: posixfs.OpenWriteOnly | posixfs.OpenCreate | posixfs.OpenAppend},
		{mode: "a+", err: posixfs.ErrInvalidArgument},
		{mode: "a+b", err: posixfs.ErrInvalidArgument},
		{mode: "ab+", err: posixfs.ErrInvalidArgument},
		{mode: "", err: posixfs.ErrInvalidArgument},
		{mode: "x", err: posixfs.ErrInvalidArgument},
		{mode: "rw", err: posixfs.ErrInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.mode, func(t *testing.T) {
			flags, err := posixfs.ParseMode(tc.mode)
			if tc.err != nil {
				assert.Equal(t, tc.err, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.flags, flags)
		})
	}
}
