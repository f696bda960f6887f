package fatfs

import (
	"sort"
	"strings"
	"time"
)

// MemFS is an in-memory FileSystem implementation honoring the full Result
// contract, including attribute bits, packed stamps, and write protection.
// It backs tests and scratch sessions.
type MemFS struct {
	root      *memNode
	cwd       []string
	protected bool
	now       func() time.Time
}

type memNode struct {
	name     string
	attr     Attr
	date     uint16
	tm       uint16
	data     []byte
	children map[string]*memNode // non-nil iff directory
}

func (n *memNode) isDir() bool {
	return n.children != nil
}

func (n *memNode) info() FileInfo {
	size := int64(len(n.data))
	if n.isDir() {
		size = 0
	}
	return FileInfo{
		Name: n.name,
		Size: size,
		Date: n.date,
		Time: n.tm,
		Attr: n.attr,
	}
}

// NewMemFS creates an empty in-memory volume rooted at "/".
func NewMemFS() *MemFS {
	return &MemFS{
		root: &memNode{
			name:     "/",
			attr:     AttrDirectory,
			children: map[string]*memNode{},
		},
		now: time.Now,
	}
}

// SetClock replaces the clock used to stamp created and modified entries.
func (m *MemFS) SetClock(now func() time.Time) {
	m.now = now
}

// SetProtected toggles volume-level write protection. While protected,
// every mutating call returns ResultWriteProtected.
func (m *MemFS) SetProtected(protected bool) {
	m.protected = protected
}

func (m *MemFS) stamp(n *memNode) {
	n.date, n.tm = StampFromTime(m.now())
}

// splitPath returns the path components of path, resolved against the
// current directory when relative. An empty string is invalid.
func (m *MemFS) splitPath(path string) ([]string, Result) {
	if path == "" {
		return nil, ResultInvalidName
	}
	var comps []string
	if !strings.HasPrefix(path, "/") {
		comps = append(comps, m.cwd...)
	}
	for _, c := range strings.Split(path, "/") {
		switch c {
		case "", ".":
		case "..":
			if len(comps) > 0 {
				comps = comps[:len(comps)-1]
			}
		default:
			comps = append(comps, c)
		}
	}
	return comps, ResultOK
}

// resolve walks path to its node. A missing leaf is ResultNoFile; a missing
// or non-directory intermediate component is ResultNoPath.
func (m *MemFS) resolve(path string) (*memNode, Result) {
	comps, res := m.splitPath(path)
	if !res.OK() {
		return nil, res
	}
	node := m.root
	for i, c := range comps {
		if !node.isDir() {
			return nil, ResultNoPath
		}
		child, ok := node.children[c]
		if !ok {
			if i == len(comps)-1 {
				return nil, ResultNoFile
			}
			return nil, ResultNoPath
		}
		node = child
	}
	return node, ResultOK
}

// resolveParent walks path to the directory containing its leaf entry.
func (m *MemFS) resolveParent(path string) (*memNode, string, Result) {
	comps, res := m.splitPath(path)
	if !res.OK() {
		return nil, "", res
	}
	if len(comps) == 0 {
		return nil, "", ResultInvalidName
	}
	node := m.root
	for _, c := range comps[:len(comps)-1] {
		child, ok := node.children[c]
		if !ok || !child.isDir() {
			return nil, "", ResultNoPath
		}
		node = child
	}
	return node, comps[len(comps)-1], ResultOK
}

// Open implements FileSystem.
func (m *MemFS) Open(path string, mode Mode) (File, Result) {
	creating := mode&(ModeCreateNew|ModeCreateAlways|ModeOpenAlways) != 0
	if m.protected && (mode&ModeWrite != 0 || creating) {
		return nil, ResultWriteProtected
	}
	parent, name, res := m.resolveParent(path)
	if !res.OK() {
		return nil, res
	}
	if !parent.isDir() {
		return nil, ResultNoPath
	}
	node, exists := parent.children[name]
	switch {
	case exists:
		if node.isDir() {
			return nil, ResultDenied
		}
		if node.attr&AttrReadOnly != 0 && mode&ModeWrite != 0 {
			return nil, ResultDenied
		}
		if mode&ModeCreateNew != 0 {
			return nil, ResultExist
		}
		if mode&ModeCreateAlways != 0 {
			node.data = nil
			m.stamp(node)
		}
	case creating:
		node = &memNode{name: name}
		m.stamp(node)
		parent.children[name] = node
	default:
		return nil, ResultNoFile
	}
	return &memFile{
		fs:       m,
		node:     node,
		readable: mode&ModeRead != 0,
		writable: mode&ModeWrite != 0,
	}, ResultOK
}

// Stat implements FileSystem.
func (m *MemFS) Stat(path string) (FileInfo, Result) {
	node, res := m.resolve(path)
	if !res.OK() {
		return FileInfo{}, res
	}
	return node.info(), ResultOK
}

// OpenDir implements FileSystem.
func (m *MemFS) OpenDir(path string) (Dir, Result) {
	node, res := m.resolve(path)
	if !res.OK() {
		return nil, res
	}
	if !node.isDir() {
		return nil, ResultNoPath
	}
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return &memDir{dir: node, names: names}, ResultOK
}

// Mkdir implements FileSystem.
func (m *MemFS) Mkdir(path string) Result {
	if m.protected {
		return ResultWriteProtected
	}
	parent, name, res := m.resolveParent(path)
	if !res.OK() {
		return res
	}
	if !parent.isDir() {
		return ResultNoPath
	}
	if _, exists := parent.children[name]; exists {
		return ResultExist
	}
	node := &memNode{
		name:     name,
		attr:     AttrDirectory,
		children: map[string]*memNode{},
	}
	m.stamp(node)
	parent.children[name] = node
	return ResultOK
}

// Unlink implements FileSystem. Directories must be empty.
func (m *MemFS) Unlink(path string) Result {
	if m.protected {
		return ResultWriteProtected
	}
	parent, name, res := m.resolveParent(path)
	if !res.OK() {
		return res
	}
	node, exists := parent.children[name]
	if !exists {
		return ResultNoFile
	}
	if node.attr&AttrReadOnly != 0 {
		return ResultDenied
	}
	if node.isDir() && len(node.children) > 0 {
		return ResultDenied
	}
	delete(parent.children, name)
	return ResultOK
}

// Rename implements FileSystem.
func (m *MemFS) Rename(oldpath, newpath string) Result {
	if m.protected {
		return ResultWriteProtected
	}
	oldParent, oldName, res := m.resolveParent(oldpath)
	if !res.OK() {
		return res
	}
	node, exists := oldParent.children[oldName]
	if !exists {
		return ResultNoFile
	}
	newParent, newName, res := m.resolveParent(newpath)
	if !res.OK() {
		return res
	}
	if !newParent.isDir() {
		return ResultNoPath
	}
	if _, exists := newParent.children[newName]; exists {
		return ResultExist
	}
	delete(oldParent.children, oldName)
	node.name = newName
	newParent.children[newName] = node
	return ResultOK
}

// Chmod implements FileSystem.
func (m *MemFS) Chmod(path string, attr, mask Attr) Result {
	if m.protected {
		return ResultWriteProtected
	}
	node, res := m.resolve(path)
	if !res.OK() {
		return res
	}
	node.attr = attr&mask | node.attr&^mask
	return ResultOK
}

// Utime implements FileSystem.
func (m *MemFS) Utime(path string, date, tm uint16) Result {
	if m.protected {
		return ResultWriteProtected
	}
	node, res := m.resolve(path)
	if !res.OK() {
		return res
	}
	node.date, node.tm = date, tm
	return ResultOK
}

// Chdir implements FileSystem.
func (m *MemFS) Chdir(path string) Result {
	comps, res := m.splitPath(path)
	if !res.OK() {
		return res
	}
	node := m.root
	for _, c := range comps {
		child, ok := node.children[c]
		if !ok || !child.isDir() {
			return ResultNoPath
		}
		node = child
	}
	m.cwd = comps
	return ResultOK
}

// Getcwd implements FileSystem.
func (m *MemFS) Getcwd() (string, Result) {
	return "/" + strings.Join(m.cwd, "/"), ResultOK
}

type memFile struct {
	fs       *MemFS
	node     *memNode
	pos      int64
	readable bool
	writable bool
	closed   bool
}

func (f *memFile) Read(p []byte) (int, Result) {
	if f.closed {
		return 0, ResultInvalidObject
	}
	if !f.readable {
		return 0, ResultDenied
	}
	if f.pos >= int64(len(f.node.data)) {
		return 0, ResultOK
	}
	n := copy(p, f.node.data[f.pos:])
	f.pos += int64(n)
	return n, ResultOK
}

func (f *memFile) Write(p []byte) (int, Result) {
	if f.closed {
		return 0, ResultInvalidObject
	}
	if !f.writable {
		return 0, ResultDenied
	}
	end := f.pos + int64(len(p))
	for int64(len(f.node.data)) < end {
		f.node.data = append(f.node.data, 0)
	}
	copy(f.node.data[f.pos:end], p)
	f.pos = end
	f.fs.stamp(f.node)
	return len(p), ResultOK
}

func (f *memFile) Seek(offset int64) Result {
	if f.closed {
		return ResultInvalidObject
	}
	if offset < 0 {
		return ResultInvalidParameter
	}
	if offset > int64(len(f.node.data)) {
		if !f.writable {
			f.pos = int64(len(f.node.data))
			return ResultOK
		}
		for int64(len(f.node.data)) < offset {
			f.node.data = append(f.node.data, 0)
		}
	}
	f.pos = offset
	return ResultOK
}

func (f *memFile) Tell() int64 {
	return f.pos
}

func (f *memFile) Size() int64 {
	return int64(len(f.node.data))
}

func (f *memFile) Truncate() Result {
	if f.closed {
		return ResultInvalidObject
	}
	if !f.writable {
		return ResultDenied
	}
	f.node.data = f.node.data[:f.pos]
	f.fs.stamp(f.node)
	return ResultOK
}

func (f *memFile) Sync() Result {
	if f.closed {
		return ResultInvalidObject
	}
	return ResultOK
}

func (f *memFile) Close() Result {
	if f.closed {
		return ResultInvalidObject
	}
	f.closed = true
	return ResultOK
}

type memDir struct {
	dir    *memNode
	names  []string
	next   int
	closed bool
}

func (d *memDir) Next() (FileInfo, Result) {
	if d.closed {
		return FileInfo{}, ResultInvalidObject
	}
	for d.next < len(d.names) {
		name := d.names[d.next]
		d.next++
		node, ok := d.dir.children[name]
		if !ok {
			continue // removed mid-enumeration
		}
		return node.info(), ResultOK
	}
	return FileInfo{}, ResultOK
}

func (d *memDir) Close() Result {
	if d.closed {
		return ResultInvalidObject
	}
	d.closed = true
	return ResultOK
}
