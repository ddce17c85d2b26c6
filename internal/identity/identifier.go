package identity

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jeanhaley32/bluepill/internal/constants"
)

// Docker repository names only allow [a-z0-9] joined by '.', '_', '__' or runs of '-'.
var separatorRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Maximum length kept from the directory basename
const maxBaseLength = 100

// DefaultIdentifier implements Deriver for the process working directory.
type DefaultIdentifier struct {
	getwd func() (string, error)
}

// NewDeriver creates a Deriver bound to the process working directory.
func NewDeriver() *DefaultIdentifier {
	return &DefaultIdentifier{getwd: os.Getwd}
}

func (d *DefaultIdentifier) Derive(explicit string) (Identity, error) {
	cwd, err := d.getwd()
	if err != nil {
		return Identity{}, fmt.Errorf("failed to get current directory: %w", err)
	}
	return FromDir(explicit, ResolveDir(cwd)), nil
}

// ResolveDir returns the absolute, symlink-free form of dir. Resolution steps that
// fail leave the path as far as it got.
func ResolveDir(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		dir = real
	}
	return dir
}

// FromDir derives the identity of an already resolved directory.
func FromDir(explicit, dir string) Identity {
	if explicit != "" {
		return Identity{
			Dir:           dir,
			ContainerName: explicit,
			ImageName:     explicit,
			Hostname:      explicit,
		}
	}

	name := UniqueName(dir)
	return Identity{
		Dir:           dir,
		ContainerName: name,
		ImageName:     name,
		Hostname:      filepath.Base(dir),
	}
}

// UniqueName returns bluepill-<basename>-<md5(dir)>.
// Examples:
//   - /home/me/src/api -> bluepill-api-<32 hex chars>
//   - /home/me/My Project -> bluepill-my-project-<32 hex chars>
func UniqueName(dir string) string {
	sum := md5.Sum([]byte(dir))
	return fmt.Sprintf("%s-%s-%s", constants.AppName, sanitizeName(filepath.Base(dir)), hex.EncodeToString(sum[:]))
}

// sanitizeName converts a directory basename to a valid image name component.
func sanitizeName(name string) string {
	name = strings.ToLower(name)

	// Single '.' and '_' are legal between alphanumerics, everything else becomes '-'
	name = separatorRegex.ReplaceAllStringFunc(name, func(sep string) string {
		switch sep {
		case ".", "_", "__":
			return sep
		}
		return "-"
	})

	name = strings.Trim(name, "-._")

	if len(name) > maxBaseLength {
		name = strings.TrimRight(name[:maxBaseLength], "-._")
	}

	if name == "" {
		name = "root"
	}

	return name
}
