package posixfs

import (
	"io"
	"time"

	"github.com/arthur-debert/posixfs/pkg/posixfs/fatfs"
)

// OpenFlag is the POSIX-style open flag set accepted by Open.
type OpenFlag int

const (
	// Access modes. Exactly one applies, selected by the low two bits.
	OpenReadOnly  OpenFlag = 0x0
	OpenWriteOnly OpenFlag = 0x1
	OpenReadWrite OpenFlag = 0x2

	openAccessMask OpenFlag = 0x3

	// OpenCreate creates the file if it does not exist.
	OpenCreate OpenFlag = 0x40
	// OpenTruncate discards existing contents; only meaningful with
	// OpenCreate.
	OpenTruncate OpenFlag = 0x200
	// OpenAppend positions the stream at end of file after opening.
	OpenAppend OpenFlag = 0x400
)

// FileInfo is the result of Stat.
type FileInfo struct {
	Name     string
	Size     int64
	ModTime  time.Time
	IsDir    bool
	ReadOnly bool
}

// Open opens path and returns a new descriptor. The access mode selects
// the stream direction; OpenCreate with OpenTruncate replaces existing
// contents, OpenCreate alone keeps them. With OpenAppend the stream is
// positioned at end of file. On any failure every partially allocated
// resource is rolled back before the error is returned.
func (s *Session) Open(path string, flags OpenFlag) (int, error) {
	s.lastErr = ErrOK

	var mode fatfs.Mode
	switch flags & openAccessMask {
	case OpenReadWrite:
		mode = fatfs.ModeRead | fatfs.ModeWrite
	case OpenReadOnly:
		mode = fatfs.ModeRead
	default:
		mode = fatfs.ModeWrite
	}
	if flags&OpenCreate != 0 {
		if flags&OpenTruncate != 0 {
			mode |= fatfs.ModeCreateAlways
		} else {
			mode |= fatfs.ModeOpenAlways
		}
	}

	fd, errno := s.allocate()
	if errno != ErrOK {
		return -1, s.fail(errno)
	}

	fh, res := s.fs.Open(path, mode)
	if !res.OK() {
		s.log.Warn().Str("path", path).Stringer("result", res).Msg("open failed")
		return -1, s.failResult(res)
	}

	if flags&OpenAppend != 0 {
		if res := fh.Seek(fh.Size()); !res.OK() {
			_ = fh.Close()
			return -1, s.failResult(res)
		}
	}

	stream := &Stream{
		file:    fh,
		backend: &fileBackend{f: fh},
	}
	switch flags & openAccessMask {
	case OpenReadWrite:
		stream.flags = flagRead | flagWrite
	case OpenReadOnly:
		stream.flags = flagRead
	default:
		stream.flags = flagWrite
	}
	s.table[fd] = stream

	s.log.Debug().Str("path", path).Int("fd", fd).Msg("open")
	return fd, nil
}

// Fopen opens path with an fopen-style mode string ("r", "w+", "a", ...).
func (s *Session) Fopen(path, mode string) (int, error) {
	flags, err := ParseMode(mode)
	if err != nil {
		s.lastErr = ErrInvalidArgument
		return -1, err
	}
	return s.Open(path, flags)
}

// Close flushes and closes the file handle paired with fd. The descriptor
// slot is released even when the close fails; the failure is still
// surfaced.
func (s *Session) Close(fd int) error {
	s.lastErr = ErrOK
	stream, errno := s.fileStream(fd)
	if errno != ErrOK {
		return s.fail(errno)
	}
	res := stream.file.Close()
	stream.file = nil
	s.table[fd] = nil
	if !res.OK() {
		return s.failResult(res)
	}
	s.log.Debug().Int("fd", fd).Msg("close")
	return nil
}

// Read reads up to len(p) bytes into p and returns the count actually
// obtained. Console reads fetch bytes one at a time and stop early at end
// of input; file reads delegate to the driver's block primitive. Reading
// a write-only descriptor is ErrBadDescriptor.
func (s *Session) Read(fd int, p []byte) (int, error) {
	s.lastErr = ErrOK
	stream, errno := s.lookup(fd)
	if errno != ErrOK {
		return -1, s.fail(errno)
	}
	if stream.device() {
		if !stream.readable() {
			return -1, s.fail(ErrBadDescriptor)
		}
		stream.dropUnget()
		n := 0
		for n < len(p) {
			c, err := stream.ReadByte()
			if err != nil {
				break
			}
			p[n] = c
			n++
		}
		return n, nil
	}
	n, res := stream.file.Read(p)
	if !res.OK() {
		return -1, s.failResult(res)
	}
	return n, nil
}

// Write writes len(p) bytes from p and returns the count accepted.
// Console writes push one byte at a time and stop at the first byte the
// device refuses; file writes delegate to the driver's block primitive.
// Writing a read-only descriptor is ErrBadDescriptor.
func (s *Session) Write(fd int, p []byte) (int, error) {
	s.lastErr = ErrOK
	stream, errno := s.lookup(fd)
	if errno != ErrOK {
		return -1, s.fail(errno)
	}
	if stream.device() {
		if !stream.writable() {
			return -1, s.fail(ErrBadDescriptor)
		}
		n := 0
		for n < len(p) {
			if err := stream.WriteByte(p[n]); err != nil {
				break
			}
			n++
		}
		return n, nil
	}
	n, res := stream.file.Write(p)
	if !res.OK() {
		return -1, s.failResult(res)
	}
	return n, nil
}

// Seek repositions a file-backed descriptor and returns the new absolute
// position. whence is io.SeekStart, io.SeekCurrent, or io.SeekEnd. Device
// descriptors cannot seek. Any pending push-back byte is discarded. After
// the driver seek the resulting position is verified against the request;
// a mismatch reports ErrSeekMismatch.
func (s *Session) Seek(fd int, offset int64, whence int) (int64, error) {
	s.lastErr = ErrOK
	stream, errno := s.fileStream(fd)
	if errno != ErrOK {
		return -1, s.fail(errno)
	}
	stream.dropUnget()

	pos := offset
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		pos += stream.file.Tell()
	case io.SeekEnd:
		pos += stream.file.Size()
	default:
		return -1, s.fail(ErrInvalidArgument)
	}

	if res := stream.file.Seek(pos); !res.OK() {
		return -1, s.failResult(res)
	}
	if got := stream.file.Tell(); got != pos {
		s.log.Warn().Int64("want", pos).Int64("got", got).Msg("seek mismatch")
		return -1, s.fail(ErrSeekMismatch)
	}
	return pos, nil
}

// Tell returns the current position of a file-backed descriptor.
func (s *Session) Tell(fd int) (int64, error) {
	s.lastErr = ErrOK
	stream, errno := s.fileStream(fd)
	if errno != ErrOK {
		return -1, s.fail(errno)
	}
	return stream.file.Tell(), nil
}

// Getpos returns the current position, Setpos restores one, and Rewind
// moves to the start of the file. Rewind is best-effort: its failure is
// not reported.
func (s *Session) Getpos(fd int) (int64, error) {
	return s.Tell(fd)
}

// Setpos seeks to an absolute position previously obtained from Getpos.
func (s *Session) Setpos(fd int, pos int64) error {
	_, err := s.Seek(fd, pos, io.SeekStart)
	return err
}

// Rewind repositions fd at the start of the file, ignoring failure.
func (s *Session) Rewind(fd int) {
	_, _ = s.Seek(fd, 0, io.SeekStart)
}

// Ftruncate cuts the open file at length. The seek and the truncate must
// both succeed; the first failure is surfaced.
func (s *Session) Ftruncate(fd int, length int64) error {
	s.lastErr = ErrOK
	stream, errno := s.fileStream(fd)
	if errno != ErrOK {
		return s.fail(errno)
	}
	stream.dropUnget()
	if res := stream.file.Seek(length); !res.OK() {
		return s.failResult(res)
	}
	if res := stream.file.Truncate(); !res.OK() {
		return s.failResult(res)
	}
	return nil
}

// Truncate cuts the named file at length.
func (s *Session) Truncate(path string, length int64) error {
	s.lastErr = ErrOK
	fh, res := s.fs.Open(path, fatfs.ModeRead|fatfs.ModeWrite)
	if !res.OK() {
		return s.failResult(res)
	}
	defer func() { _ = fh.Close() }()
	if res := fh.Seek(length); !res.OK() {
		return s.failResult(res)
	}
	if res := fh.Truncate(); !res.OK() {
		return s.failResult(res)
	}
	return nil
}

// Syncfs flushes cached data and metadata for one file-backed descriptor,
// discarding any pending push-back byte.
func (s *Session) Syncfs(fd int) error {
	s.lastErr = ErrOK
	stream, errno := s.fileStream(fd)
	if errno != ErrOK {
		return s.fail(errno)
	}
	stream.dropUnget()
	if res := stream.file.Sync(); !res.OK() {
		return s.failResult(res)
	}
	return nil
}

// Sync flushes every open file-backed descriptor. Individual failures are
// swallowed; the sweep always completes.
func (s *Session) Sync() {
	for fd := reservedSlots; fd < MaxFiles; fd++ {
		stream := s.table[fd]
		if stream == nil || stream.file == nil {
			continue
		}
		_ = s.Syncfs(fd)
	}
}

// Stat returns information about the named file. The driver does not
// enumerate the volume root, so "/" and "." are answered directly as
// directories.
func (s *Session) Stat(path string) (FileInfo, error) {
	s.lastErr = ErrOK
	if path == "/" || path == "." {
		return FileInfo{Name: path, IsDir: true}, nil
	}
	info, res := s.fs.Stat(path)
	if !res.OK() {
		return FileInfo{}, s.failResult(res)
	}
	return FileInfo{
		Name:     info.Name,
		Size:     info.Size,
		ModTime:  fatfs.TimeFromStamp(info.Date, info.Time),
		IsDir:    info.IsDir(),
		ReadOnly: info.ReadOnly(),
	}, nil
}

// Mkdir creates a directory.
func (s *Session) Mkdir(path string) error {
	s.lastErr = ErrOK
	if res := s.fs.Mkdir(path); !res.OK() {
		return s.failResult(res)
	}
	return nil
}

// Rmdir removes an empty directory.
func (s *Session) Rmdir(path string) error {
	s.lastErr = ErrOK
	if res := s.fs.Unlink(path); !res.OK() {
		return s.failResult(res)
	}
	return nil
}

// Unlink removes a file.
func (s *Session) Unlink(path string) error {
	s.lastErr = ErrOK
	if res := s.fs.Unlink(path); !res.OK() {
		return s.failResult(res)
	}
	return nil
}

// Rename moves oldpath to newpath.
func (s *Session) Rename(oldpath, newpath string) error {
	s.lastErr = ErrOK
	if res := s.fs.Rename(oldpath, newpath); !res.OK() {
		return s.failResult(res)
	}
	return nil
}

// Chdir changes the directory relative paths resolve against.
func (s *Session) Chdir(path string) error {
	s.lastErr = ErrOK
	if res := s.fs.Chdir(path); !res.OK() {
		return s.failResult(res)
	}
	return nil
}

// Getcwd returns the current directory.
func (s *Session) Getcwd() (string, error) {
	s.lastErr = ErrOK
	cwd, res := s.fs.Getcwd()
	if !res.OK() {
		return "", s.failResult(res)
	}
	return cwd, nil
}

// Chmod sets or clears the read-only attribute, the only permission bit
// the driver models.
func (s *Session) Chmod(path string, readOnly bool) error {
	s.lastErr = ErrOK
	var attr fatfs.Attr
	if readOnly {
		attr = fatfs.AttrReadOnly
	}
	if res := s.fs.Chmod(path, attr, fatfs.AttrReadOnly); !res.OK() {
		return s.failResult(res)
	}
	return nil
}

// Utime sets the modification stamp of path, truncated to the stamp's
// 2-second resolution.
func (s *Session) Utime(path string, mtime time.Time) error {
	s.lastErr = ErrOK
	date, tm := fatfs.StampFromTime(mtime)
	if res := s.fs.Utime(path, date, tm); !res.OK() {
		return s.failResult(res)
	}
	return nil
}
