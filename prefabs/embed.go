package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

var (
	dirMu   sync.RWMutex
	diskDir = "prefabs"
)

// SetDir changes the on-disk override directory. An empty dir disables
// overrides so only the embedded copies are used.
func SetDir(dir string) {
	dirMu.Lock()
	defer dirMu.Unlock()
	diskDir = dir
}

// Dir returns the on-disk override directory.
func Dir() string {
	dirMu.RLock()
	defer dirMu.RUnlock()
	return diskDir
}

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if path, ok := diskPrefabPath(clean); ok {
		if data, err := os.ReadFile(path); err == nil {
			return data, nil
		}
	}
	return ScriptsFS.ReadFile(clean)
}

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if path, ok := diskPrefabPath(clean); ok {
		if data, err := os.ReadFile(path); err == nil {
			return data, nil
		}
	}
	return PrefabsFS.ReadFile(clean)
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "prefabs/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return fmt.Sprintf("scripts/%s", s)
}

func diskPrefabPath(clean string) (string, bool) {
	dir := Dir()
	if dir == "" || clean == "" {
		return "", false
	}
	return filepath.Join(dir, filepath.FromSlash(clean)), true
}
