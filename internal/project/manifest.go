package project

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	pserr "proofscope/internal/errors"
)

// ManifestName is the optional per-project manifest file.
const ManifestName = "proofscope.toml"

// Manifest declares project metadata the file system cannot provide:
// the display name, the logical namespace the .v tree maps to, and
// discovery overrides.
type Manifest struct {
	Name      string `toml:"name"`
	Namespace string `toml:"namespace"`

	// SrcDirs restricts source discovery to these directories,
	// relative to root. Empty means the whole tree.
	SrcDirs []string `toml:"src_dirs"`
	Ignore  []string `toml:"ignore"`
	GlobDir string   `toml:"glob_dir"`
}

// LoadManifest reads proofscope.toml from root. A missing manifest is
// not an error; the zero manifest is returned.
func LoadManifest(root string) (*Manifest, error) {
	path := filepath.Join(root, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{Name: filepath.Base(absOrSame(root))}, nil
		}
		return nil, pserr.New(pserr.ManifestInvalid, "cannot read "+ManifestName, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, pserr.New(pserr.ManifestInvalid, "cannot parse "+ManifestName, err)
	}
	if m.Name == "" {
		m.Name = filepath.Base(absOrSame(root))
	}
	return &m, nil
}

func absOrSame(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
