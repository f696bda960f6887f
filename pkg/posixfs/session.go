// Package posixfs provides a POSIX-like descriptor and stream layer for
// environments without a host operating system. Integer descriptors index
// a fixed-size table; each active slot owns one Stream backed by either a
// character device or an exclusive file handle from a fatfs driver.
//
// All state lives in a Session. Sessions are single-threaded by design:
// there is no internal locking, and callers must serialize access to a
// session and its streams.
package posixfs

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/posixfs/pkg/posixfs/fatfs"
)

const (
	// MaxFiles is the descriptor table capacity, reserved slots included.
	MaxFiles = 16

	// Stdin, Stdout, and Stderr are the permanently reserved console
	// descriptors. They are device-backed, never file-backed.
	Stdin  = 0
	Stdout = 1
	Stderr = 2
)

const reservedSlots = 3

// Session owns the descriptor table, the last-error cell, and the single
// shared directory cursor.
type Session struct {
	fs      fatfs.FileSystem
	table   [MaxFiles]*Stream
	lastErr Errno
	dir     fatfs.Dir
	entry   DirEntry
	log     zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger attaches a logger to the session. Without it the session
// stays silent.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.log = logger
	}
}

// NewSession creates a session over a driver. The console slots stay
// unbound until RegisterDevice is called; operations on unbound slots
// report ErrBadDescriptor.
func NewSession(fsys fatfs.FileSystem, opts ...Option) *Session {
	s := &Session{
		fs:  fsys,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterDevice binds character-device callbacks to the reserved console
// slots: the first input-capable device becomes standard input, the first
// output-capable device becomes both standard output and standard error.
// Either callback may be nil; passing both nil is an error. The created
// stream is returned so callers can use it directly.
func (s *Session) RegisterDevice(get GetFunc, put PutFunc) (*Stream, error) {
	if get == nil && put == nil {
		return nil, ErrInvalidArgument
	}
	stream := &Stream{
		backend: &deviceBackend{get: get, put: put},
		atty:    true,
	}
	if get != nil {
		stream.flags |= flagRead
		if s.table[Stdin] == nil {
			s.table[Stdin] = stream
		}
	}
	if put != nil {
		stream.flags |= flagWrite
		if s.table[Stdout] == nil {
			s.table[Stdout] = stream
		}
		if s.table[Stderr] == nil {
			s.table[Stderr] = stream
		}
	}
	return stream, nil
}

// IsTTY reports whether fd is one of the reserved console descriptors.
func (s *Session) IsTTY(fd int) bool {
	return fd >= Stdin && fd <= Stderr
}

// Errno returns the taxonomy value recorded by the most recent failing
// operation, or ErrOK if the most recent operation succeeded.
func (s *Session) Errno() Errno {
	return s.lastErr
}

// ClearErrno resets the last-error cell.
func (s *Session) ClearErrno() {
	s.lastErr = ErrOK
}

// fail records e in the last-error cell and returns it.
func (s *Session) fail(e Errno) error {
	s.lastErr = e
	return e
}

// failResult translates a driver result, records it, and returns it.
func (s *Session) failResult(res fatfs.Result) error {
	return s.fail(errnoFromResult(res))
}

// Stream returns the stream paired with fd.
func (s *Session) Stream(fd int) (*Stream, error) {
	stream, errno := s.lookup(fd)
	if errno != ErrOK {
		return nil, errno
	}
	return stream, nil
}

// Fileno recovers the descriptor paired with a stream by identity scan.
func (s *Session) Fileno(stream *Stream) (int, error) {
	if stream == nil {
		return -1, ErrBadDescriptor
	}
	for fd, candidate := range s.table {
		if candidate == stream {
			return fd, nil
		}
	}
	return -1, ErrBadDescriptor
}

// lookup is the bounds-checked table access every operation goes through.
func (s *Session) lookup(fd int) (*Stream, Errno) {
	if fd < 0 || fd >= MaxFiles {
		return nil, ErrBadDescriptor
	}
	stream := s.table[fd]
	if stream == nil {
		return nil, ErrBadDescriptor
	}
	return stream, ErrOK
}

// allocate scans past the reserved slots for the first free descriptor.
func (s *Session) allocate() (int, Errno) {
	for fd := reservedSlots; fd < MaxFiles; fd++ {
		if s.table[fd] == nil {
			return fd, ErrOK
		}
	}
	return -1, ErrTooManyOpen
}

// release destroys the stream in a non-reserved slot, closing any owned
// file handle, and clears the slot. Reserved and unallocated slots are
// rejected.
func (s *Session) release(fd int) Errno {
	if s.IsTTY(fd) {
		return ErrBadDescriptor
	}
	stream, errno := s.lookup(fd)
	if errno != ErrOK {
		return errno
	}
	if stream.file != nil {
		_ = stream.file.Close()
		stream.file = nil
	}
	s.table[fd] = nil
	return ErrOK
}

// fileStream returns the file-backed stream for fd, rejecting console and
// device-backed descriptors.
func (s *Session) fileStream(fd int) (*Stream, Errno) {
	if s.IsTTY(fd) {
		return nil, ErrBadDescriptor
	}
	stream, errno := s.lookup(fd)
	if errno != ErrOK {
		return nil, errno
	}
	if stream.file == nil {
		return nil, ErrBadDescriptor
	}
	return stream, ErrOK
}

// Perror writes "msg: <last error text>" through the standard error
// stream. With no output device bound it does nothing.
func (s *Session) Perror(msg string) {
	stream := s.table[Stderr]
	if stream == nil {
		return
	}
	text := Strerror(int(s.lastErr))
	if msg != "" {
		_ = stream.WriteString(msg)
		_ = stream.WriteString(": ")
	}
	_ = stream.WriteString(text)
	_ = stream.WriteByte('\n')
}

var _ io.ByteReader = (*Stream)(nil)
var _ io.ByteWriter = (*Stream)(nil)
