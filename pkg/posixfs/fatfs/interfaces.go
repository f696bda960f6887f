// Package fatfs defines the contract between the posixfs translation layer
// and an embedded FAT-style filesystem driver. Every primitive returns a
// Result from a closed code set instead of a Go error; the translation layer
// owns the mapping from Result codes to caller-visible errors.
//
// Two implementations ship with the package: MemFS, an in-memory tree used
// by tests and scratch sessions, and OSFS, which projects a host directory
// through the same contract.
package fatfs

// Result is the closed set of status codes a driver may return.
type Result int

const (
	ResultOK Result = iota
	ResultDiskErr
	ResultNotReady
	ResultNoFile
	ResultNoPath
	ResultInvalidName
	ResultDenied
	ResultExist
	ResultInvalidObject
	ResultWriteProtected
	ResultInvalidDrive
	ResultNotEnabled
	ResultNoFilesystem
	ResultMkfsAborted
	ResultTimeout
	ResultLocked
	ResultNotEnoughCore
	ResultTooManyOpen
	ResultInvalidParameter
)

// resultCount is the number of defined Result codes.
const resultCount = int(ResultInvalidParameter) + 1

var resultNames = [resultCount]string{
	"ok",
	"disk error",
	"drive not ready",
	"no such file",
	"no such path",
	"invalid name",
	"access denied",
	"already exists",
	"invalid object",
	"write protected",
	"invalid drive",
	"volume not enabled",
	"no filesystem",
	"mkfs aborted",
	"timeout",
	"locked",
	"not enough core",
	"too many open files",
	"invalid parameter",
}

func (r Result) String() string {
	if r < 0 || int(r) >= resultCount {
		return "unknown result"
	}
	return resultNames[r]
}

// OK reports whether the result signals success.
func (r Result) OK() bool {
	return r == ResultOK
}

// Mode is the set of open-mode bits accepted by FileSystem.Open.
// The zero value opens an existing file for neither reading nor writing,
// which no caller wants; combine ModeRead and/or ModeWrite with at most one
// of the create dispositions.
type Mode uint8

const (
	// ModeRead opens the file for reading.
	ModeRead Mode = 1 << iota
	// ModeWrite opens the file for writing.
	ModeWrite
	// ModeCreateNew creates the file and fails with ResultExist if it
	// already exists.
	ModeCreateNew
	// ModeCreateAlways creates the file, truncating any existing contents.
	ModeCreateAlways
	// ModeOpenAlways opens the file, creating it empty if it is missing.
	ModeOpenAlways
)

// Attr is the directory-entry attribute bit set.
type Attr uint8

const (
	AttrReadOnly Attr = 1 << iota
	AttrHidden
	AttrSystem
	AttrArchive
	AttrDirectory
)

// FileInfo describes one directory entry. Date and Time carry the packed
// on-disk stamp; see TimeFromStamp to decode it.
type FileInfo struct {
	Name string
	Size int64
	Date uint16
	Time uint16
	Attr Attr
}

// IsDir reports whether the entry is a directory.
func (fi FileInfo) IsDir() bool {
	return fi.Attr&AttrDirectory != 0
}

// ReadOnly reports whether the entry carries the read-only attribute.
func (fi FileInfo) ReadOnly() bool {
	return fi.Attr&AttrReadOnly != 0
}

// FileSystem is the path-keyed half of the driver contract. Paths use
// forward slashes; a leading slash is the volume root and relative paths
// resolve against the driver's current directory.
type FileSystem interface {
	// Open opens or creates the file at path, returning an exclusive
	// handle. The handle stays valid until Close.
	Open(path string, mode Mode) (File, Result)

	// Stat returns the directory entry for path.
	Stat(path string) (FileInfo, Result)

	// OpenDir starts an enumeration of the directory at path.
	OpenDir(path string) (Dir, Result)

	// Mkdir creates a directory.
	Mkdir(path string) Result

	// Unlink removes a file or an empty directory.
	Unlink(path string) Result

	// Rename moves oldpath to newpath.
	Rename(oldpath, newpath string) Result

	// Chmod sets the attribute bits selected by mask to attr.
	Chmod(path string, attr, mask Attr) Result

	// Utime sets the packed modification stamp of path.
	Utime(path string, date, tm uint16) Result

	// Chdir changes the directory relative paths resolve against.
	Chdir(path string) Result

	// Getcwd returns the current directory.
	Getcwd() (string, Result)
}

// File is an open file handle. Handles are exclusively owned: exactly one
// stream holds a handle from Open until it calls Close.
type File interface {
	// Read reads up to len(p) bytes from the current position. Reading at
	// end of file returns (0, ResultOK); a zero count with an OK result is
	// the end-of-file signal.
	Read(p []byte) (int, Result)

	// Write writes len(p) bytes at the current position, extending the
	// file as needed.
	Write(p []byte) (int, Result)

	// Seek moves the position to offset bytes from the start of the file.
	// Seeking past the end of a writable file extends it with zeros.
	Seek(offset int64) Result

	// Tell returns the current position.
	Tell() int64

	// Size returns the current file size.
	Size() int64

	// Truncate cuts the file at the current position.
	Truncate() Result

	// Sync flushes cached data and metadata for this handle.
	Sync() Result

	// Close flushes and releases the handle.
	Close() Result
}

// Dir is a directory enumeration handle.
type Dir interface {
	// Next returns the next entry. End of enumeration is signalled by an
	// entry with an empty Name and ResultOK.
	Next() (FileInfo, Result)

	// Close releases the enumeration.
	Close() Result
}
