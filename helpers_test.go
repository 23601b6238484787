package lui

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// testDescriptor lays six 10x30 button slices out on a 60x30 texture.
const testDescriptor = `# test atlas
size 60 30
btn_left 0 0 10 30
btn_mid 10 0 10 30
btn_right 20 0 10 30
btn_left_hover 30 0 10 30
btn_mid_hover 40 0 10 30
btn_right_hover 50 0 12 30
`

const (
	testAtlasW = 64
	testAtlasH = 32
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPool(t *testing.T, opts ...PoolOption) *AtlasPool {
	t.Helper()
	opts = append([]PoolOption{WithLogger(discardLogger())}, opts...)
	return NewAtlasPool(opts...)
}

// newLoadedPool returns a pool with the test atlas registered as "default".
func newLoadedPool(t *testing.T, opts ...PoolOption) *AtlasPool {
	t.Helper()
	p := newTestPool(t, opts...)
	if err := p.AddAtlas(DefaultAtlasName, []byte(testDescriptor), newSolidTexture(testAtlasW, testAtlasH)); err != nil {
		t.Fatalf("AddAtlas: %v", err)
	}
	return p
}

func solidImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 40, G: 120, B: 255, A: 255})
		}
	}
	return img
}

func newSolidTexture(w, h int) *Texture {
	return NewTextureFromImage(solidImage(w, h))
}

// writePNG writes a w x h PNG to dir/name and returns its path.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, solidImage(w, h)); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// mustPanicWith runs fn and fails unless it panics with an error matching target.
func mustPanicWith(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic wrapping %v", target)
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %v (%T) is not an error", r, r)
		}
		if !isErr(err, target) {
			t.Fatalf("panic error = %v, want %v", err, target)
		}
	}()
	fn()
}
