package fatfs

// ReadOnly wraps a FileSystem and refuses every mutating call with
// ResultWriteProtected, the same code a write-protected drive reports.
type ReadOnly struct {
	FS FileSystem
}

// NewReadOnly wraps fsys in a write-protecting layer.
func NewReadOnly(fsys FileSystem) *ReadOnly {
	return &ReadOnly{FS: fsys}
}

// Open implements FileSystem. Write and create modes are refused.
func (r *ReadOnly) Open(path string, mode Mode) (File, Result) {
	if mode&ModeWrite != 0 || mode&(ModeCreateNew|ModeCreateAlways|ModeOpenAlways) != 0 {
		return nil, ResultWriteProtected
	}
	return r.FS.Open(path, mode)
}

// Stat implements FileSystem.
func (r *ReadOnly) Stat(path string) (FileInfo, Result) {
	return r.FS.Stat(path)
}

// OpenDir implements FileSystem.
func (r *ReadOnly) OpenDir(path string) (Dir, Result) {
	return r.FS.OpenDir(path)
}

// Mkdir implements FileSystem.
func (r *ReadOnly) Mkdir(string) Result {
	return ResultWriteProtected
}

// Unlink implements FileSystem.
func (r *ReadOnly) Unlink(string) Result {
	return ResultWriteProtected
}

// Rename implements FileSystem.
func (r *ReadOnly) Rename(string, string) Result {
	return ResultWriteProtected
}

// Chmod implements FileSystem.
func (r *ReadOnly) Chmod(string, Attr, Attr) Result {
	return ResultWriteProtected
}

// Utime implements FileSystem.
func (r *ReadOnly) Utime(string, uint16, uint16) Result {
	return ResultWriteProtected
}

// Chdir implements FileSystem.
func (r *ReadOnly) Chdir(path string) Result {
	return r.FS.Chdir(path)
}

// Getcwd implements FileSystem.
func (r *ReadOnly) Getcwd() (string, Result) {
	return r.FS.Getcwd()
}
