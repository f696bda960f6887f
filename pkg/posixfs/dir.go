package posixfs

import "io"

// MaxNameLen is the capacity of the shared directory entry record. Longer
// names are truncated on copy.
const MaxNameLen = 64

// DirEntry is the record ReadDir fills in. The session owns a single
// instance; every ReadDir call overwrites it.
type DirEntry struct {
	Name  string
	Size  int64
	IsDir bool
}

// OpenDir binds the session's directory cursor to path. The session holds
// exactly one cursor: starting a new traversal silently ends any previous
// one and reuses its storage.
func (s *Session) OpenDir(path string) error {
	s.lastErr = ErrOK
	if s.dir != nil {
		_ = s.dir.Close()
		s.dir = nil
	}
	d, res := s.fs.OpenDir(path)
	if !res.OK() {
		return s.failResult(res)
	}
	s.dir = d
	return nil
}

// ReadDir advances the cursor and returns the shared entry record,
// overwritten with the next name. End of traversal is io.EOF. Calling
// ReadDir without an open traversal is ErrBadDescriptor.
func (s *Session) ReadDir() (*DirEntry, error) {
	s.lastErr = ErrOK
	if s.dir == nil {
		return nil, s.fail(ErrBadDescriptor)
	}
	info, res := s.dir.Next()
	if !res.OK() {
		return nil, s.failResult(res)
	}
	if info.Name == "" {
		return nil, io.EOF
	}
	name := info.Name
	if len(name) > MaxNameLen {
		name = name[:MaxNameLen]
	}
	s.entry = DirEntry{
		Name:  name,
		Size:  info.Size,
		IsDir: info.IsDir(),
	}
	return &s.entry, nil
}

// CloseDir releases the cursor's underlying resources.
func (s *Session) CloseDir() error {
	s.lastErr = ErrOK
	if s.dir == nil {
		return s.fail(ErrBadDescriptor)
	}
	res := s.dir.Close()
	s.dir = nil
	if !res.OK() {
		return s.failResult(res)
	}
	return nil
}
