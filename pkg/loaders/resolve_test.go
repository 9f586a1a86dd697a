package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func TestResolveScene(t *testing.T) {
	s, err := ResolveScene("plane")
	if err != nil {
		t.Fatalf("ResolveScene(plane) failed: %v", err)
	}
	if _, ok := s.Primitive("floor"); !ok {
		t.Error("Expected the built-in plane scene")
	}

	path := filepath.Join(t.TempDir(), "custom.yml")
	if err := os.WriteFile(path, []byte(testSceneYAML), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}
	s, err = ResolveScene(path)
	if err != nil {
		t.Fatalf("ResolveScene(%s) failed: %v", path, err)
	}
	if len(s.GetPrimitives()) != 2 {
		t.Errorf("Expected 2 primitives from file, got %d", len(s.GetPrimitives()))
	}

	for _, id := range []string{"no-such-scene", "file:no-such-file"} {
		if _, err := ResolveScene(id); !errors.Is(err, scene.ErrNotFound) {
			t.Errorf("ResolveScene(%q): expected scene.ErrNotFound, got %v", id, err)
		}
	}
}
