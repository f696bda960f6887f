package fatfs_test

import (
	"testing"
	"time"

	"github.com/arthur-debert/posixfs/pkg/posixfs/fatfs"
)

func newTestFS(t *testing.T) *fatfs.MemFS {
	t.Helper()
	m := fatfs.NewMemFS()
	m.SetClock(func() time.Time {
		return time.Date(2020, time.March, 14, 9, 26, 53, 0, time.UTC)
	})
	return m
}

func writeFile(t *testing.T, m *fatfs.MemFS, path, data string) {
	t.Helper()
	f, res := m.Open(path, fatfs.ModeWrite|fatfs.ModeCreateAlways)
	if !res.OK() {
		t.Fatalf("create %s: %v", path, res)
	}
	if _, res := f.Write([]byte(data)); !res.OK() {
		t.Fatalf("write %s: %v", path, res)
	}
	if res := f.Close(); !res.OK() {
		t.Fatalf("close %s: %v", path, res)
	}
}

func TestMemFSOpen(t *testing.T) {
	t.Run("create and read back", func(t *testing.T) {
		m := newTestFS(t)
		writeFile(t, m, "/hello.txt", "hello")

		f, res := m.Open("/hello.txt", fatfs.ModeRead)
		if !res.OK() {
			t.Fatalf("open: %v", res)
		}
		buf := make([]byte, 16)
		n, res := f.Read(buf)
		if !res.OK() || string(buf[:n]) != "hello" {
			t.Errorf("read = %q (%v), want %q", buf[:n], res, "hello")
		}
		// A second read is the end-of-file signal: zero bytes, ok.
		n, res = f.Read(buf)
		if !res.OK() || n != 0 {
			t.Errorf("read at EOF = (%d, %v), want (0, ok)", n, res)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		m := newTestFS(t)
		if _, res := m.Open("/nope", fatfs.ModeRead); res != fatfs.ResultNoFile {
			t.Errorf("result = %v, want %v", res, fatfs.ResultNoFile)
		}
	})

	t.Run("missing path component", func(t *testing.T) {
		m := newTestFS(t)
		if _, res := m.Open("/no/dir/file", fatfs.ModeRead); res != fatfs.ResultNoPath {
			t.Errorf("result = %v, want %v", res, fatfs.ResultNoPath)
		}
	})

	t.Run("create new refuses existing", func(t *testing.T) {
		m := newTestFS(t)
		writeFile(t, m, "/f", "x")
		if _, res := m.Open("/f", fatfs.ModeWrite|fatfs.ModeCreateNew); res != fatfs.ResultExist {
			t.Errorf("result = %v, want %v", res, fatfs.ResultExist)
		}
	})

	t.Run("create always truncates", func(t *testing.T) {
		m := newTestFS(t)
		writeFile(t, m, "/f", "long contents")
		writeFile(t, m, "/f", "~")
		info, res := m.Stat("/f")
		if !res.OK() || info.Size != 1 {
			t.Errorf("size after truncating create = %d (%v), want 1", info.Size, res)
		}
	})

	t.Run("open always keeps contents", func(t *testing.T) {
		m := newTestFS(t)
		writeFile(t, m, "/f", "keep")
		f, res := m.Open("/f", fatfs.ModeRead|fatfs.ModeWrite|fatfs.ModeOpenAlways)
		if !res.OK() {
			t.Fatalf("open: %v", res)
		}
		if size := f.Size(); size != 4 {
			t.Errorf("size = %d, want 4", size)
		}
	})

	t.Run("directory refused", func(t *testing.T) {
		m := newTestFS(t)
		if res := m.Mkdir("/d"); !res.OK() {
			t.Fatalf("mkdir: %v", res)
		}
		if _, res := m.Open("/d", fatfs.ModeRead); res != fatfs.ResultDenied {
			t.Errorf("result = %v, want %v", res, fatfs.ResultDenied)
		}
	})

	t.Run("read-only attribute denies write", func(t *testing.T) {
		m := newTestFS(t)
		writeFile(t, m, "/f", "x")
		if res := m.Chmod("/f", fatfs.AttrReadOnly, fatfs.AttrReadOnly); !res.OK() {
			t.Fatalf("chmod: %v", res)
		}
		if _, res := m.Open("/f", fatfs.ModeWrite); res != fatfs.ResultDenied {
			t.Errorf("result = %v, want %v", res, fatfs.ResultDenied)
		}
		if _, res := m.Open("/f", fatfs.ModeRead); !res.OK() {
			t.Errorf("read open after chmod: %v", res)
		}
	})
}

func TestMemFSFile(t *testing.T) {
	t.Run("seek extends writable file", func(t *testing.T) {
		m := newTestFS(t)
		f, res := m.Open("/f", fatfs.ModeRead|fatfs.ModeWrite|fatfs.ModeCreateAlways)
		if !res.OK() {
			t.Fatalf("open: %v", res)
		}
		if res := f.Seek(8); !res.OK() {
			t.Fatalf("seek: %v", res)
		}
		if f.Size() != 8 || f.Tell() != 8 {
			t.Errorf("size/tell = %d/%d, want 8/8", f.Size(), f.Tell())
		}
	})

	t.Run("seek clamps read-only file", func(t *testing.T) {
		m := newTestFS(t)
		writeFile(t, m, "/f", "abc")
		f, _ := m.Open("/f", fatfs.ModeRead)
		if res := f.Seek(100); !res.OK() {
			t.Fatalf("seek: %v", res)
		}
		if f.Tell() != 3 {
			t.Errorf("tell = %d, want clamp to size 3", f.Tell())
		}
	})

	t.Run("truncate at position", func(t *testing.T) {
		m := newTestFS(t)
		writeFile(t, m, "/f", "abcdef")
		f, _ := m.Open("/f", fatfs.ModeRead|fatfs.ModeWrite)
		if res := f.Seek(2); !res.OK() {
			t.Fatalf("seek: %v", res)
		}
		if res := f.Truncate(); !res.OK() {
			t.Fatalf("truncate: %v", res)
		}
		if f.Size() != 2 {
			t.Errorf("size = %d, want 2", f.Size())
		}
	})

	t.Run("closed handle is invalid", func(t *testing.T) {
		m := newTestFS(t)
		writeFile(t, m, "/f", "x")
		f, _ := m.Open("/f", fatfs.ModeRead)
		if res := f.Close(); !res.OK() {
			t.Fatalf("close: %v", res)
		}
		if _, res := f.Read(make([]byte, 1)); res != fatfs.ResultInvalidObject {
			t.Errorf("read after close = %v, want %v", res, fatfs.ResultInvalidObject)
		}
		if res := f.Close(); res != fatfs.ResultInvalidObject {
			t.Errorf("double close = %v, want %v", res, fatfs.ResultInvalidObject)
		}
	})
}

func TestMemFSDirectories(t *testing.T) {
	t.Run("enumeration", func(t *testing.T) {
		m := newTestFS(t)
		writeFile(t, m, "/b.txt", "b")
		writeFile(t, m, "/a.txt", "a")
		if res := m.Mkdir("/sub"); !res.OK() {
			t.Fatalf("mkdir: %v", res)
		}

		d, res := m.OpenDir("/")
		if !res.OK() {
			t.Fatalf("opendir: %v", res)
		}
		var names []string
		for {
			info, res := d.Next()
			if !res.OK() {
				t.Fatalf("next: %v", res)
			}
			if info.Name == "" {
				break
			}
			names = append(names, info.Name)
		}
		want := []string{"a.txt", "b.txt", "sub"}
		if len(names) != len(want) {
			t.Fatalf("names = %v, want %v", names, want)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
			}
		}
	})

	t.Run("unlink non-empty directory denied", func(t *testing.T) {
		m := newTestFS(t)
		if res := m.Mkdir("/d"); !res.OK() {
			t.Fatalf("mkdir: %v", res)
		}
		writeFile(t, m, "/d/f", "x")
		if res := m.Unlink("/d"); res != fatfs.ResultDenied {
			t.Errorf("unlink = %v, want %v", res, fatfs.ResultDenied)
		}
		if res := m.Unlink("/d/f"); !res.OK() {
			t.Fatalf("unlink file: %v", res)
		}
		if res := m.Unlink("/d"); !res.OK() {
			t.Errorf("unlink empty dir: %v", res)
		}
	})

	t.Run("chdir resolves relative paths", func(t *testing.T) {
		m := newTestFS(t)
		if res := m.Mkdir("/d"); !res.OK() {
			t.Fatalf("mkdir: %v", res)
		}
		writeFile(t, m, "/d/f", "x")
		if res := m.Chdir("/d"); !res.OK() {
			t.Fatalf("chdir: %v", res)
		}
		cwd, res := m.Getcwd()
		if !res.OK() || cwd != "/d" {
			t.Errorf("getcwd = %q (%v), want /d", cwd, res)
		}
		if _, res := m.Stat("f"); !res.OK() {
			t.Errorf("relative stat: %v", res)
		}
		if res := m.Chdir("f"); res != fatfs.ResultNoPath {
			t.Errorf("chdir to file = %v, want %v", res, fatfs.ResultNoPath)
		}
	})
}

func TestMemFSRename(t *testing.T) {
	m := newTestFS(t)
	writeFile(t, m, "/old", "data")
	writeFile(t, m, "/taken", "x")

	if res := m.Rename("/old", "/taken"); res != fatfs.ResultExist {
		t.Errorf("rename onto existing = %v, want %v", res, fatfs.ResultExist)
	}
	if res := m.Rename("/old", "/new"); !res.OK() {
		t.Fatalf("rename: %v", res)
	}
	if _, res := m.Stat("/old"); res != fatfs.ResultNoFile {
		t.Errorf("stat old = %v, want %v", res, fatfs.ResultNoFile)
	}
	info, res := m.Stat("/new")
	if !res.OK() || info.Name != "new" || info.Size != 4 {
		t.Errorf("stat new = %+v (%v)", info, res)
	}
}

func TestMemFSWriteProtection(t *testing.T) {
	m := newTestFS(t)
	writeFile(t, m, "/f", "x")
	m.SetProtected(true)

	if _, res := m.Open("/f", fatfs.ModeWrite); res != fatfs.ResultWriteProtected {
		t.Errorf("open for write = %v, want %v", res, fatfs.ResultWriteProtected)
	}
	if res := m.Mkdir("/d"); res != fatfs.ResultWriteProtected {
		t.Errorf("mkdir = %v, want %v", res, fatfs.ResultWriteProtected)
	}
	if res := m.Unlink("/f"); res != fatfs.ResultWriteProtected {
		t.Errorf("unlink = %v, want %v", res, fatfs.ResultWriteProtected)
	}
	if _, res := m.Open("/f", fatfs.ModeRead); !res.OK() {
		t.Errorf("read open on protected volume: %v", res)
	}
}

func TestMemFSStamps(t *testing.T) {
	m := newTestFS(t)
	writeFile(t, m, "/f", "x")

	info, res := m.Stat("/f")
	if !res.OK() {
		t.Fatalf("stat: %v", res)
	}
	got := fatfs.TimeFromStamp(info.Date, info.Time)
	// The clock's 53rd second truncates to 52.
	want := time.Date(2020, time.March, 14, 9, 26, 52, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("mtime = %v, want %v", got, want)
	}

	date, tm := fatfs.StampFromTime(time.Date(1999, time.December, 31, 23, 59, 58, 0, time.UTC))
	if res := m.Utime("/f", date, tm); !res.OK() {
		t.Fatalf("utime: %v", res)
	}
	info, _ = m.Stat("/f")
	if info.Date != date || info.Time != tm {
		t.Errorf("stamp after utime = (%#x, %#x), want (%#x, %#x)",
			info.Date, info.Time, date, tm)
	}
}
