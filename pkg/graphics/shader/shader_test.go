package shader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	src := Default()
	for _, name := range []string{"uMVPMatrix", "uTexMatrix", "aPosition", "aTexCoord"} {
		if !strings.Contains(src.Vertex, name) {
			t.Errorf("vertex stage has no %v", name)
		}
	}
	for _, name := range []string{"sTexture", "uBlendRect", "uBlendInvWidth", "uAlpha", "uGamma", "uIsLeft", "uMode", "uResolution"} {
		if !strings.Contains(src.Fragment, name) {
			t.Errorf("fragment stage has no %v", name)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	frag := filepath.Join(dir, "custom.frag")
	if err := os.WriteFile(frag, []byte("void main() {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := Load("", frag)
	if err != nil {
		t.Fatal(err)
	}
	if src.Vertex != Default().Vertex || src.Fragment != "void main() {}" {
		t.Errorf("loaded %+v", src)
	}
	if _, err := Load(filepath.Join(dir, "missing.vert"), ""); err == nil {
		t.Errorf("missing file loaded")
	}
}
