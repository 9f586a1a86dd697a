package loaders

import (
	"fmt"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ResolveScene returns the scene for an id as listed by scene.ListAllScenes:
// a built-in name, "file:<name>" for a file in the scenes directory, or a path
// to a scene file.
func ResolveScene(id string) (*scene.Scene, error) {
	if name, ok := strings.CutPrefix(id, "file:"); ok {
		files, err := scene.ListSceneFiles()
		if err != nil {
			return nil, err
		}
		for _, info := range files {
			if info.ID == id {
				return LoadScene(info.FilePath)
			}
		}
		return nil, fmt.Errorf("%w: scene file %q", scene.ErrNotFound, name)
	}

	if scene.IsSceneFile(id) {
		return LoadScene(id)
	}

	return scene.NewBuiltin(id)
}
