package posixfs

import (
	"io"

	"github.com/arthur-debert/posixfs/pkg/posixfs/fatfs"
)

// GetFunc fetches one byte from a character device. End of input is
// reported as io.EOF; any other error is a hard device failure.
type GetFunc func() (byte, error)

// PutFunc stores one byte on a character device.
type PutFunc func(byte) error

type streamFlags uint8

const (
	flagRead streamFlags = 1 << iota
	flagWrite
	flagEOF
	flagErr
	flagUnget
	flagBuffer
)

// backend is the capability a stream's byte traffic flows through. Exactly
// one backend variant is bound per stream for its whole lifetime: a device
// callback pair, an owned driver file handle, or a bounded buffer.
type backend interface {
	getByte() (byte, error)
	putByte(byte) error
}

// Stream is a byte-oriented abstraction over a descriptor. It carries a
// logical byte counter, end-of-stream and error flags, and a one-slot
// push-back buffer.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	flags   streamFlags
	count   int64
	unget   byte
	backend backend
	file    fatfs.File // non-nil iff the backend is file-backed
	atty    bool
}

// readable and writable report the stream's direction capabilities.
func (s *Stream) readable() bool { return s.flags&flagRead != 0 }
func (s *Stream) writable() bool { return s.flags&flagWrite != 0 }

// device reports whether the stream is backed by character callbacks.
func (s *Stream) device() bool {
	return s.file == nil && s.flags&flagBuffer == 0
}

// Count returns the logical number of bytes transferred through the
// stream. For bounded write buffers this keeps counting past capacity, so
// it reports the length the output would have had.
func (s *Stream) Count() int64 {
	return s.count
}

// EOF reports whether the stream has seen end of input.
func (s *Stream) EOF() bool {
	return s.flags&flagEOF != 0
}

// Err reports whether the stream has seen a hard error.
func (s *Stream) Err() bool {
	return s.flags&flagErr != 0
}

// ClearErr resets the end-of-stream and error flags.
func (s *Stream) ClearErr() {
	s.flags &^= flagEOF | flagErr
}

// ReadByte fetches the next byte. A pending push-back byte is consumed
// first; otherwise the byte comes from the bound backend. End of input is
// io.EOF with the stream's EOF flag set; a device failure sets the error
// flag instead.
func (s *Stream) ReadByte() (byte, error) {
	if !s.readable() {
		return 0, ErrBadDescriptor
	}
	if s.flags&flagUnget != 0 {
		s.flags &^= flagUnget
		s.count++
		return s.unget, nil
	}
	b, err := s.backend.getByte()
	if err != nil {
		if err == io.EOF {
			s.flags |= flagEOF
		} else {
			s.flags |= flagErr
		}
		return 0, err
	}
	s.count++
	return b, nil
}

// WriteByte stores one byte through the bound backend.
func (s *Stream) WriteByte(c byte) error {
	if !s.writable() {
		return ErrBadDescriptor
	}
	if err := s.backend.putByte(c); err != nil {
		s.flags |= flagErr
		return err
	}
	s.count++
	return nil
}

// UngetByte pushes c back so the next ReadByte returns it. At most one
// byte may be pending; a second push-back before an intervening read is
// rejected, as is push-back on a non-readable stream. Push-back is only
// honored on console streams; regular file streams refuse it.
func (s *Stream) UngetByte(c byte) error {
	if !s.atty {
		return ErrBadDescriptor
	}
	if !s.readable() {
		return ErrBadDescriptor
	}
	if s.flags&flagUnget != 0 {
		return ErrInvalidArgument
	}
	s.flags |= flagUnget
	s.flags &^= flagEOF
	s.unget = c
	s.count--
	return nil
}

// dropUnget discards a pending push-back byte, restoring the counter. Any
// operation that repositions or flushes the stream calls this.
func (s *Stream) dropUnget() {
	if s.flags&flagUnget != 0 {
		s.flags &^= flagUnget
		s.count++
	}
}

// ReadLine reads bytes until a newline or end of input, applying
// backspace editing, and returns the line without its terminator. End of
// input before any byte is read returns io.EOF.
func (s *Stream) ReadLine(max int) (string, error) {
	buf := make([]byte, 0, 64)
	for len(buf) < max {
		c, err := s.ReadByte()
		if err != nil {
			if len(buf) == 0 {
				return "", err
			}
			break
		}
		if c == '\n' {
			break
		}
		if c == 0x08 {
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
			}
			continue
		}
		buf = append(buf, c)
	}
	return string(buf), nil
}

// WriteString stores str one byte at a time, stopping at the first
// failure.
func (s *Stream) WriteString(str string) error {
	for i := 0; i < len(str); i++ {
		if err := s.WriteByte(str[i]); err != nil {
			return err
		}
	}
	return nil
}

// deviceBackend dispatches to character-device callbacks.
type deviceBackend struct {
	get GetFunc
	put PutFunc
}

func (d *deviceBackend) getByte() (byte, error) {
	if d.get == nil {
		return 0, ErrBadDescriptor
	}
	return d.get()
}

func (d *deviceBackend) putByte(c byte) error {
	if d.put == nil {
		return ErrBadDescriptor
	}
	return d.put(c)
}

// fileBackend moves single bytes through an owned driver handle. The read
// path normalizes line endings: CR, LF, and CRLF all surface as a single
// newline, using a one-byte raw lookahead with seek-back. The lookahead is
// below the stream's push-back slot and never interacts with it.
type fileBackend struct {
	f fatfs.File
}

func (fb *fileBackend) getByte() (byte, error) {
	var b [1]byte
	n, res := fb.f.Read(b[:])
	if !res.OK() {
		return 0, errnoFromResult(res)
	}
	if n == 0 {
		return 0, io.EOF
	}
	if b[0] != '\r' {
		return b[0], nil
	}
	// Peek one byte ahead. A following LF is folded into this newline;
	// anything else is put back for the next fetch. A bare CR at end of
	// input still counts as a line boundary.
	pos := fb.f.Tell()
	n, res = fb.f.Read(b[:])
	if !res.OK() || n == 0 {
		return '\n', nil
	}
	if b[0] != '\n' {
		_ = fb.f.Seek(pos)
	}
	return '\n', nil
}

func (fb *fileBackend) putByte(c byte) error {
	b := [1]byte{c}
	n, res := fb.f.Write(b[:])
	if !res.OK() {
		return errnoFromResult(res)
	}
	if n != 1 {
		return ErrIO
	}
	return nil
}

// bufferBackend serves a bounded in-memory byte buffer. Reads stop at the
// first NUL or the end of the slice. Writes copy while capacity remains
// but keep succeeding past it, so the stream's counter records the length
// the output would have had.
type bufferBackend struct {
	buf  []byte
	rpos int
	wlen int
}

func (bb *bufferBackend) getByte() (byte, error) {
	if bb.rpos >= len(bb.buf) || bb.buf[bb.rpos] == 0 {
		return 0, io.EOF
	}
	c := bb.buf[bb.rpos]
	bb.rpos++
	return c, nil
}

func (bb *bufferBackend) putByte(c byte) error {
	if bb.wlen < len(bb.buf) {
		bb.buf[bb.wlen] = c
	}
	bb.wlen++
	return nil
}

// NewReadBuffer returns a readable stream over an in-memory buffer. Input
// ends at the first NUL byte or the end of the slice.
func NewReadBuffer(data []byte) *Stream {
	return &Stream{
		flags:   flagRead | flagBuffer,
		backend: &bufferBackend{buf: data},
	}
}

// NewWriteBuffer returns a writable stream over a bounded buffer. Writes
// beyond the buffer's length are discarded but still counted, so Count
// after writing reports the size the full output required.
func NewWriteBuffer(buf []byte) *Stream {
	return &Stream{
		flags:   flagWrite | flagBuffer,
		backend: &bufferBackend{buf: buf},
	}
}
