package fatfs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
)

// OSFS projects a host directory through the FileSystem contract. Paths are
// confined to the root; host errors are folded into the Result code set.
type OSFS struct {
	root string
	cwd  string // slash path relative to root, "" is the root itself
}

// NewOSFS creates a FileSystem backed by the host directory at root.
func NewOSFS(root string) *OSFS {
	return &OSFS{root: root}
}

// rel resolves a volume path to a slash path relative to the root.
func (o *OSFS) rel(p string) (string, Result) {
	if p == "" {
		return "", ResultInvalidName
	}
	if !strings.HasPrefix(p, "/") {
		p = o.cwd + "/" + p
	}
	p = path.Clean("/" + p)[1:]
	if p == "" {
		p = "."
	}
	if !fs.ValidPath(p) {
		return "", ResultInvalidName
	}
	return p, ResultOK
}

// host resolves a volume path to a host filesystem path.
func (o *OSFS) host(p string) (string, Result) {
	rel, res := o.rel(p)
	if !res.OK() {
		return "", res
	}
	return filepath.Join(o.root, filepath.FromSlash(rel)), ResultOK
}

// resultFromError folds a host error into the Result code set.
func resultFromError(err error) Result {
	if err == nil {
		return ResultOK
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ResultNoFile
	case errors.Is(err, fs.ErrExist):
		return ResultExist
	case errors.Is(err, fs.ErrPermission):
		return ResultDenied
	case errors.Is(err, fs.ErrClosed):
		return ResultInvalidObject
	case errors.Is(err, fs.ErrInvalid):
		return ResultInvalidParameter
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOTDIR:
			return ResultNoPath
		case syscall.EISDIR:
			return ResultDenied
		case syscall.EROFS:
			return ResultWriteProtected
		case syscall.EMFILE, syscall.ENFILE:
			return ResultTooManyOpen
		case syscall.ENOMEM:
			return ResultNotEnoughCore
		case syscall.EBUSY:
			return ResultLocked
		case syscall.ETIMEDOUT:
			return ResultTimeout
		case syscall.ENOSPC:
			return ResultNotEnabled
		case syscall.ENXIO, syscall.ENODEV:
			return ResultInvalidDrive
		case syscall.ENAMETOOLONG:
			return ResultInvalidName
		case syscall.EINVAL:
			return ResultInvalidParameter
		}
	}
	return ResultDiskErr
}

// infoFromOS converts host file info into a directory entry.
func infoFromOS(info fs.FileInfo) FileInfo {
	date, tm := StampFromTime(info.ModTime())
	var attr Attr
	if info.IsDir() {
		attr |= AttrDirectory
	}
	if info.Mode().Perm()&0o200 == 0 {
		attr |= AttrReadOnly
	}
	return FileInfo{
		Name: info.Name(),
		Size: info.Size(),
		Date: date,
		Time: tm,
		Attr: attr,
	}
}

// Open implements FileSystem.
func (o *OSFS) Open(p string, mode Mode) (File, Result) {
	host, res := o.host(p)
	if !res.OK() {
		return nil, res
	}
	var flag int
	switch {
	case mode&ModeRead != 0 && mode&ModeWrite != 0:
		flag = os.O_RDWR
	case mode&ModeWrite != 0:
		flag = os.O_WRONLY
	default:
		flag = os.O_RDONLY
	}
	switch {
	case mode&ModeCreateNew != 0:
		flag |= os.O_CREATE | os.O_EXCL
	case mode&ModeCreateAlways != 0:
		flag |= os.O_CREATE | os.O_TRUNC
	case mode&ModeOpenAlways != 0:
		flag |= os.O_CREATE
	}
	f, err := os.OpenFile(host, flag, 0o644)
	if err != nil {
		return nil, resultFromError(err)
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		_ = f.Close()
		return nil, ResultDenied
	}
	return &osFile{f: f}, ResultOK
}

// Stat implements FileSystem.
func (o *OSFS) Stat(p string) (FileInfo, Result) {
	host, res := o.host(p)
	if !res.OK() {
		return FileInfo{}, res
	}
	info, err := os.Stat(host)
	if err != nil {
		return FileInfo{}, resultFromError(err)
	}
	return infoFromOS(info), ResultOK
}

// OpenDir implements FileSystem.
func (o *OSFS) OpenDir(p string) (Dir, Result) {
	host, res := o.host(p)
	if !res.OK() {
		return nil, res
	}
	f, err := os.Open(host)
	if err != nil {
		return nil, resultFromError(err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, resultFromError(err)
	}
	if !info.IsDir() {
		_ = f.Close()
		return nil, ResultNoPath
	}
	return &osDir{f: f}, ResultOK
}

// Mkdir implements FileSystem.
func (o *OSFS) Mkdir(p string) Result {
	host, res := o.host(p)
	if !res.OK() {
		return res
	}
	return resultFromError(os.Mkdir(host, 0o755))
}

// Unlink implements FileSystem. Non-empty directories are refused by the
// host with an error that folds to ResultDenied.
func (o *OSFS) Unlink(p string) Result {
	host, res := o.host(p)
	if !res.OK() {
		return res
	}
	err := os.Remove(host)
	var errno syscall.Errno
	if errors.As(err, &errno) && (errno == syscall.ENOTEMPTY || errno == syscall.EEXIST) {
		return ResultDenied
	}
	return resultFromError(err)
}

// Rename implements FileSystem. An existing target is refused rather than
// replaced, matching the driver contract.
func (o *OSFS) Rename(oldpath, newpath string) Result {
	oldHost, res := o.host(oldpath)
	if !res.OK() {
		return res
	}
	newHost, res := o.host(newpath)
	if !res.OK() {
		return res
	}
	if _, err := os.Lstat(newHost); err == nil {
		return ResultExist
	}
	return resultFromError(os.Rename(oldHost, newHost))
}

// Chmod implements FileSystem. Only the read-only attribute has a host
// representation; other bits are accepted and ignored.
func (o *OSFS) Chmod(p string, attr, mask Attr) Result {
	if mask&AttrReadOnly == 0 {
		return ResultOK
	}
	host, res := o.host(p)
	if !res.OK() {
		return res
	}
	perm := os.FileMode(0o644)
	if attr&AttrReadOnly != 0 {
		perm = 0o444
	}
	return resultFromError(os.Chmod(host, perm))
}

// Utime implements FileSystem.
func (o *OSFS) Utime(p string, date, tm uint16) Result {
	host, res := o.host(p)
	if !res.OK() {
		return res
	}
	t := TimeFromStamp(date, tm)
	return resultFromError(os.Chtimes(host, t, t))
}

// Chdir implements FileSystem.
func (o *OSFS) Chdir(p string) Result {
	rel, res := o.rel(p)
	if !res.OK() {
		return res
	}
	info, err := os.Stat(filepath.Join(o.root, filepath.FromSlash(rel)))
	if err != nil {
		return resultFromError(err)
	}
	if !info.IsDir() {
		return ResultNoPath
	}
	if rel == "." {
		rel = ""
	}
	o.cwd = rel
	return ResultOK
}

// Getcwd implements FileSystem.
func (o *OSFS) Getcwd() (string, Result) {
	return "/" + o.cwd, ResultOK
}

type osFile struct {
	f   *os.File
	pos int64
}

func (f *osFile) Read(p []byte) (int, Result) {
	n, err := f.f.Read(p)
	f.pos += int64(n)
	if err == io.EOF {
		return n, ResultOK
	}
	return n, resultFromError(err)
}

func (f *osFile) Write(p []byte) (int, Result) {
	n, err := f.f.Write(p)
	f.pos += int64(n)
	return n, resultFromError(err)
}

func (f *osFile) Seek(offset int64) Result {
	pos, err := f.f.Seek(offset, io.SeekStart)
	if err != nil {
		return resultFromError(err)
	}
	f.pos = pos
	return ResultOK
}

func (f *osFile) Tell() int64 {
	return f.pos
}

func (f *osFile) Size() int64 {
	info, err := f.f.Stat()
	if err != nil {
		return 0
	}
	return info.Size()
}

func (f *osFile) Truncate() Result {
	return resultFromError(f.f.Truncate(f.pos))
}

func (f *osFile) Sync() Result {
	return resultFromError(f.f.Sync())
}

func (f *osFile) Close() Result {
	return resultFromError(f.f.Close())
}

type osDir struct {
	f *os.File
}

func (d *osDir) Next() (FileInfo, Result) {
	entries, err := d.f.ReadDir(1)
	if err == io.EOF || len(entries) == 0 {
		return FileInfo{}, ResultOK
	}
	if err != nil {
		return FileInfo{}, resultFromError(err)
	}
	info, err := entries[0].Info()
	if err != nil {
		return FileInfo{}, resultFromError(err)
	}
	return infoFromOS(info), ResultOK
}

func (d *osDir) Close() Result {
	return resultFromError(d.f.Close())
}
