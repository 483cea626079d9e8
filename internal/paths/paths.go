// Package paths resolves chime's configuration directories.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// DirName is the per-project configuration directory.
const DirName = ".chime"

// redirectFile inside a .chime directory names another directory to use
// instead, so several stories can share one configuration.
const redirectFile = "redirect"

// ResolveChimeDir returns the .chime directory for a project. A path that
// already ends in .chime is kept. If the directory holds a redirect file,
// its target is returned; relative targets are resolved against the .chime
// directory.
func ResolveChimeDir(dir string) string {
	dir = filepath.Clean(dir)
	if filepath.Base(dir) != DirName {
		dir = filepath.Join(dir, DirName)
	}

	data, err := os.ReadFile(filepath.Join(dir, redirectFile))
	if err != nil {
		return dir
	}
	target := strings.TrimSpace(string(data))
	if target == "" {
		return dir
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	return filepath.Clean(target)
}

// UserConfigDir returns $XDG_CONFIG_HOME/chime, falling back to
// ~/.config/chime. It returns "" when no home directory is known.
func UserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "chime")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chime")
}
