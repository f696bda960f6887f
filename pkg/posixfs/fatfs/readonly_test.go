package fatfs_test

import (
	"testing"

	"github.com/arthur-debert/posixfs/pkg/posixfs/fatfs"
)

func TestReadOnly(t *testing.T) {
	m := newTestFS(t)
	writeFile(t, m, "/f", "data")
	r := fatfs.NewReadOnly(m)

	t.Run("reads pass through", func(t *testing.T) {
		if _, res := r.Open("/f", fatfs.ModeRead); !res.OK() {
			t.Errorf("open: %v", res)
		}
		if info, res := r.Stat("/f"); !res.OK() || info.Size != 4 {
			t.Errorf("stat = %+v (%v)", info, res)
		}
		d, res := r.OpenDir("/")
		if !res.OK() {
			t.Fatalf("opendir: %v", res)
		}
		_ = d.Close()
	})

	t.Run("writes refused", func(t *testing.T) {
		if _, res := r.Open("/f", fatfs.ModeWrite); res != fatfs.ResultWriteProtected {
			t.Errorf("open write = %v, want %v", res, fatfs.ResultWriteProtected)
		}
		if _, res := r.Open("/new", fatfs.ModeRead|fatfs.ModeOpenAlways); res != fatfs.ResultWriteProtected {
			t.Errorf("open create = %v, want %v", res, fatfs.ResultWriteProtected)
		}
		if res := r.Mkdir("/d"); res != fatfs.ResultWriteProtected {
			t.Errorf("mkdir = %v, want %v", res, fatfs.ResultWriteProtected)
		}
		if res := r.Unlink("/f"); res != fatfs.ResultWriteProtected {
			t.Errorf("unlink = %v, want %v", res, fatfs.ResultWriteProtected)
		}
		if res := r.Rename("/f", "/g"); res != fatfs.ResultWriteProtected {
			t.Errorf("rename = %v, want %v", res, fatfs.ResultWriteProtected)
		}
	})
}
