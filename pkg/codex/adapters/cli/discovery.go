package cli

import (
	"fmt"
	"strings"
)

// findCLI locates the codex binary.
// A path containing a separator is used as-is; a bare name is searched
// for in PATH.
func (a *Adapter) findCLI() (string, error) {
	name := a.options.Path()
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, '\\') {
		return name, nil
	}

	path, err := a.lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", name, err)
	}

	return path, nil
}
