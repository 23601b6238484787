package lui

import (
	"io/fs"
	"path/filepath"
	"testing"
)

func TestNewAtlas_RegionUVs(t *testing.T) {
	a, err := NewAtlas("ui", newSolidTexture(64, 32), map[string]RegionRect{
		"half": {X: 32, Y: 0, Width: 32, Height: 16},
	})
	if err != nil {
		t.Fatalf("NewAtlas: %v", err)
	}
	r, err := a.Region("half")
	if err != nil {
		t.Fatalf("Region: %v", err)
	}
	if r.UVStart != (Vec2{0.5, 0}) {
		t.Errorf("UVStart = %v, want {0.5 0}", r.UVStart)
	}
	if r.UVEnd != (Vec2{1, 0.5}) {
		t.Errorf("UVEnd = %v, want {1 0.5}", r.UVEnd)
	}
	if r.Size() != (Vec2{32, 16}) {
		t.Errorf("Size = %v, want {32 16}", r.Size())
	}
	if r.Atlas != "ui" || r.Name != "half" {
		t.Errorf("Atlas/Name = %q/%q, want ui/half", r.Atlas, r.Name)
	}
	if r.String() != "ui:half" {
		t.Errorf("String = %q, want ui:half", r.String())
	}
}

func TestNewAtlas_RegionOutsideTexture(t *testing.T) {
	_, err := NewAtlas("ui", newSolidTexture(16, 16), map[string]RegionRect{
		"wide": {X: 8, Y: 0, Width: 16, Height: 16},
	})
	if !isErr(err, ErrAtlasParse) {
		t.Errorf("err = %v, want ErrAtlasParse", err)
	}
}

func TestNewAtlas_InvalidRegionSize(t *testing.T) {
	tests := []struct {
		name string
		rect RegionRect
	}{
		{"negative width", RegionRect{X: 10, Y: 0, Width: -5, Height: 4}},
		{"zero size", RegionRect{}},
		{"negative origin", RegionRect{X: -1, Y: 0, Width: 4, Height: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAtlas("ui", newSolidTexture(64, 32), map[string]RegionRect{"bad": tt.rect})
			if !isErr(err, ErrAtlasParse) {
				t.Errorf("err = %v, want ErrAtlasParse", err)
			}
		})
	}
}

func TestAtlasPool_AddAtlasRejectsMalformedJSON(t *testing.T) {
	p := newTestPool(t)
	desc := `{"frames":{"bad":{"frame":{"x":10,"y":0,"w":-5,"h":0}},"empty":{}}}`
	if err := p.AddAtlas("j", []byte(desc), newSolidTexture(64, 32)); !isErr(err, ErrAtlasParse) {
		t.Fatalf("AddAtlas err = %v, want ErrAtlasParse", err)
	}
	if _, err := p.Atlas("j"); !isErr(err, ErrAtlasNotFound) {
		t.Errorf("Atlas(j) err = %v, want ErrAtlasNotFound", err)
	}
}

func TestAtlas_RegionMissing(t *testing.T) {
	p := newLoadedPool(t)
	a, err := p.Atlas(DefaultAtlasName)
	if err != nil {
		t.Fatalf("Atlas: %v", err)
	}
	if _, err := a.Region("nope"); !isErr(err, ErrRegionNotFound) {
		t.Errorf("err = %v, want ErrRegionNotFound", err)
	}
	if a.Has("nope") {
		t.Error("Has(nope) = true")
	}
	if !a.Has("btn_left") {
		t.Error("Has(btn_left) = false")
	}
	names := a.Names()
	if len(names) != 6 || names[0] != "btn_left" {
		t.Errorf("Names = %v, want 6 sorted names starting with btn_left", names)
	}
}

func TestAtlasPool_LoadAtlasFromFiles(t *testing.T) {
	dir := t.TempDir()
	desc := writeFile(t, dir, "Res/atlas.txt", testDescriptor)
	img := writePNG(t, dir, "Res/atlas.png", testAtlasW, testAtlasH)

	p := newTestPool(t)
	if err := p.LoadAtlas(DefaultAtlasName, desc, img); err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	r, err := p.Resolve("", "btn_left")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Size() != (Vec2{10, 30}) {
		t.Errorf("Size = %v, want {10 30}", r.Size())
	}
	if r.Texture.Path != filepath.Clean(img) {
		t.Errorf("Texture.Path = %q, want %q", r.Texture.Path, img)
	}
	if p.Textures().Len() != 1 {
		t.Errorf("texture cache = %d, want 1", p.Textures().Len())
	}
}

func TestAtlasPool_ReloadPicksUpChangedImage(t *testing.T) {
	dir := t.TempDir()
	desc := writeFile(t, dir, "atlas.txt", testDescriptor)
	img := writePNG(t, dir, "atlas.png", testAtlasW, testAtlasH)

	p := newTestPool(t)
	if err := p.LoadAtlas(DefaultAtlasName, desc, img); err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	before, _ := p.Atlas(DefaultAtlasName)

	writePNG(t, dir, "atlas.png", 2*testAtlasW, testAtlasH)
	if err := p.LoadAtlas(DefaultAtlasName, desc, img); err != nil {
		t.Fatalf("reload: %v", err)
	}
	after, _ := p.Atlas(DefaultAtlasName)
	if after.Texture() == before.Texture() {
		t.Fatal("reload reused the stale cached texture")
	}
	if got := after.Texture().Width(); got != 2*testAtlasW {
		t.Errorf("texture width = %d, want %d", got, 2*testAtlasW)
	}
	r, err := p.Resolve("", "btn_left")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := 10.0 / float64(2*testAtlasW); r.UVEnd.X != want {
		t.Errorf("UVEnd.X = %v, want %v", r.UVEnd.X, want)
	}
}

func TestAtlasPool_LoadAtlasErrors(t *testing.T) {
	dir := t.TempDir()
	desc := writeFile(t, dir, "atlas.txt", testDescriptor)
	bad := writeFile(t, dir, "bad.txt", "btn 0 0\n")
	img := writePNG(t, dir, "atlas.png", testAtlasW, testAtlasH)
	notImage := writeFile(t, dir, "fake.png", "not a png")
	small := writePNG(t, dir, "small.png", 8, 8)

	tests := []struct {
		name      string
		desc, img string
		wantErr   error
	}{
		{"missing descriptor", filepath.Join(dir, "none.txt"), img, ErrAtlasFileNotFound},
		{"missing image", desc, filepath.Join(dir, "none.png"), ErrAtlasFileNotFound},
		{"malformed descriptor", bad, img, ErrAtlasParse},
		{"undecodable image", desc, notImage, ErrTextureLoadFailed},
		{"regions outside image", desc, small, ErrAtlasParse},
		{"unreadable descriptor", dir, img, ErrAtlasFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPool(t)
			err := p.LoadAtlas("ui", tt.desc, tt.img)
			if !isErr(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != ErrAtlasParse && isErr(err, ErrAtlasParse) {
				t.Errorf("err = %v, I/O failure reported as ErrAtlasParse", err)
			}
			if p.Len() != 0 {
				t.Errorf("pool has %d atlases after failed load", p.Len())
			}
		})
	}
}

func TestAtlasPool_LoadAtlasMissingDescriptorKeepsCause(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir, "atlas.png", testAtlasW, testAtlasH)
	p := newTestPool(t)
	err := p.LoadAtlas("ui", filepath.Join(dir, "none.txt"), img)
	if !isErr(err, ErrAtlasFileNotFound) {
		t.Errorf("err = %v, want ErrAtlasFileNotFound", err)
	}
	if !isErr(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist in chain", err)
	}
}

func TestAtlasPool_ResolveErrors(t *testing.T) {
	p := newLoadedPool(t)
	if _, err := p.Resolve("missing", "btn_left"); !isErr(err, ErrAtlasNotFound) {
		t.Errorf("unknown atlas err = %v, want ErrAtlasNotFound", err)
	}
	if _, err := p.Resolve("", "missing"); !isErr(err, ErrRegionNotFound) {
		t.Errorf("unknown region err = %v, want ErrRegionNotFound", err)
	}

	empty := newTestPool(t)
	if _, err := empty.Resolve("", "btn_left"); !isErr(err, ErrAtlasNotFound) {
		t.Errorf("no default atlas err = %v, want ErrAtlasNotFound", err)
	}
}

func TestAtlasPool_DefaultAndNamedResolveEqual(t *testing.T) {
	p := newLoadedPool(t)
	a, err := p.Resolve("", "btn_mid")
	if err != nil {
		t.Fatalf("Resolve default: %v", err)
	}
	b, err := p.Resolve(DefaultAtlasName, "btn_mid")
	if err != nil {
		t.Fatalf("Resolve named: %v", err)
	}
	if a != b {
		t.Errorf("default %+v != named %+v", a, b)
	}
}

func TestAtlasPool_DuplicateReplace(t *testing.T) {
	p := newLoadedPool(t)
	old, _ := p.Resolve("", "btn_left")

	if err := p.AddAtlas(DefaultAtlasName, []byte("btn_left 0 0 4 4\n"), newSolidTexture(8, 8)); err != nil {
		t.Fatalf("AddAtlas replace: %v", err)
	}
	r, err := p.Resolve("", "btn_left")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Size() != (Vec2{4, 4}) {
		t.Errorf("replaced region size = %v, want {4 4}", r.Size())
	}
	if old.Size() != (Vec2{10, 30}) {
		t.Errorf("previously resolved region changed: %v", old.Size())
	}
	if p.Len() != 1 {
		t.Errorf("Len = %d, want 1", p.Len())
	}
}

func TestAtlasPool_DuplicateReject(t *testing.T) {
	p := newLoadedPool(t, WithDuplicatePolicy(DuplicateReject))
	err := p.AddAtlas(DefaultAtlasName, []byte("btn_left 0 0 4 4\n"), newSolidTexture(8, 8))
	if !isErr(err, ErrDuplicateAtlas) {
		t.Fatalf("err = %v, want ErrDuplicateAtlas", err)
	}
	r, _ := p.Resolve("", "btn_left")
	if r.Size() != (Vec2{10, 30}) {
		t.Errorf("rejected load changed region: %v", r.Size())
	}
}

func TestAtlasPool_DefaultAtlasOption(t *testing.T) {
	p := newTestPool(t, WithDefaultAtlas("ui"))
	if err := p.AddAtlas("ui", []byte(testDescriptor), newSolidTexture(testAtlasW, testAtlasH)); err != nil {
		t.Fatalf("AddAtlas: %v", err)
	}
	if _, err := p.Resolve("", "btn_left"); err != nil {
		t.Errorf("Resolve via custom default: %v", err)
	}
}

func TestAtlasPool_RemoveAndClear(t *testing.T) {
	p := newLoadedPool(t)
	if err := p.AddAtlas("extra", []byte("x 0 0 1 1\n"), newSolidTexture(2, 2)); err != nil {
		t.Fatalf("AddAtlas: %v", err)
	}
	if names := p.Names(); len(names) != 2 || names[0] != DefaultAtlasName || names[1] != "extra" {
		t.Errorf("Names = %v", names)
	}
	p.Remove("extra")
	if _, err := p.Atlas("extra"); !isErr(err, ErrAtlasNotFound) {
		t.Errorf("after Remove err = %v, want ErrAtlasNotFound", err)
	}
	p.Clear()
	if p.Len() != 0 {
		t.Errorf("Len after Clear = %d", p.Len())
	}
}

func TestAtlasPool_EmptyName(t *testing.T) {
	p := newTestPool(t)
	if err := p.AddAtlas("", []byte(testDescriptor), newSolidTexture(testAtlasW, testAtlasH)); err == nil {
		t.Error("expected error for empty atlas name")
	}
}

func TestDefaultPool_Singleton(t *testing.T) {
	defer SetDefaultPool(nil)
	SetDefaultPool(nil)
	a := DefaultPool()
	b := DefaultPool()
	if a == nil || a != b {
		t.Fatal("DefaultPool should return the same non-nil pool")
	}

	custom := newTestPool(t)
	SetDefaultPool(custom)
	if DefaultPool() != custom {
		t.Error("SetDefaultPool not honored")
	}
	SetDefaultPool(nil)
	if DefaultPool() != a {
		t.Error("SetDefaultPool(nil) should restore the lazily created pool")
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    DuplicatePolicy
		wantErr bool
	}{
		{"", DuplicateReplace, false},
		{"replace", DuplicateReplace, false},
		{"reject", DuplicateReject, false},
		{"ignore", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuplicatePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlaceholderRegion(t *testing.T) {
	r := PlaceholderRegion()
	if !r.IsPlaceholder() {
		t.Error("IsPlaceholder = false")
	}
	if r.Texture != PlaceholderTexture() {
		t.Error("placeholder region should use the placeholder texture")
	}
	if r.Size() != (Vec2{1, 1}) {
		t.Errorf("Size = %v, want {1 1}", r.Size())
	}
	if r.UVStart != (Vec2{0, 0}) || r.UVEnd != (Vec2{1, 1}) {
		t.Errorf("UVs = %v-%v, want full texture", r.UVStart, r.UVEnd)
	}
}
