package template

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry describes a template found on disk.
type Entry struct {
	Name        string // path relative to its directory, without extension, with forward slashes
	Dir         string
	Description string
}

// List recursively scans templateDirs for .toml files. A name found in several
// directories is reported once, from the last directory, matching Find.
// Missing directories are skipped. Entries are sorted by name.
func List(templateDirs []string) ([]Entry, error) {
	entries := make(map[string]Entry)

	for _, dir := range templateDirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".toml") {
				return nil
			}

			relPath, err := filepath.Rel(dir, path)
			if err != nil {
				return nil
			}
			name := filepath.ToSlash(strings.TrimSuffix(relPath, ".toml"))

			entry := Entry{Name: name, Dir: dir}
			if tmpl, err := LoadTemplate(path); err == nil {
				entry.Description = tmpl.Description
			}
			entries[name] = entry
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking template directory %s: %v", dir, err)
		}
	}

	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
