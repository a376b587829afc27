package openapi

import (
	"fmt"
	"path/filepath"
	"sort"
)

// FindDocuments lists the YAML documents directly under dir, sorted by path.
func FindDocuments(dir string) ([]string, error) {
	var files []string

	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf(`failed to resolve documents using glob "%s": %w`, pattern, err)
		}
		files = append(files, matches...)
	}

	sort.Strings(files)
	return files, nil
}
