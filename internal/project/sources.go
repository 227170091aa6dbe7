package project

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// skippedDirs are directory names never descended into when collecting
// sources: package managers, build output and VCS metadata.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"artifacts":    true,
	"cache":        true,
	"out":          true,
	"broadcast":    true,
}

// collectSources walks the given subdirectories of root and returns
// every .sol file, keyed by slash-separated path relative to root. A
// nil subdirs walks root itself.
func collectSources(root string, subdirs []string) (map[string]string, error) {
	if len(subdirs) == 0 {
		subdirs = []string{"."}
	}

	sources := make(map[string]string)
	for _, sub := range subdirs {
		dir := filepath.Join(root, sub)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}

		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if d.IsDir() {
				if skippedDirs[name] || (strings.HasPrefix(name, ".") && path != dir) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(name, ".sol") {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read source %s: %w", rel, err)
			}
			sources[filepath.ToSlash(rel)] = string(content)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
		}
	}

	if len(sources) == 0 {
		return nil, &NoSourcesError{Dir: root}
	}
	return sources, nil
}

// readRemappingsFile parses a remappings.txt: one prefix=target mapping
// per line, blank lines and # comments skipped. A missing file is not
// an error.
func readRemappingsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read remappings: %w", err)
	}
	defer f.Close()

	var remappings []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		remappings = append(remappings, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read remappings: %w", err)
	}
	return remappings, nil
}

// mergeRemappings joins remapping lists in order, dropping duplicates.
func mergeRemappings(lists ...[]string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, list := range lists {
		for _, r := range list {
			if !seen[r] {
				seen[r] = true
				merged = append(merged, r)
			}
		}
	}
	return merged
}

// cloneSettings copies caller settings so loaders can add keys without
// mutating the caller's map.
func cloneSettings(settings map[string]any) map[string]any {
	cloned := make(map[string]any, len(settings))
	for k, v := range settings {
		cloned[k] = v
	}
	return cloned
}
