// Package migrate gates process readiness on verified, migrated storage.
//
// A Migrator probes the store once, then applies every pending migration in
// version order. Nothing is retried: the first failure is returned to the
// caller, which is expected to abort startup.
package migrate

import (
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Migration is one versioned schema change.
type Migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

// String returns the file-style identifier, e.g. "000001_create_users".
func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

// fileNamePattern matches golang-migrate style file names.
var fileNamePattern = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)

// Load reads NNNNNN_name.up.sql / NNNNNN_name.down.sql pairs from the root of
// fsys and returns them sorted by version.
func Load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := make(map[int64]*Migration)
	hasUp := make(map[int64]bool)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		// Non-SQL files such as Go sources are ignored.
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		match := fileNamePattern.FindStringSubmatch(name)
		if match == nil {
			return nil, fmt.Errorf("invalid migration file name %q", name)
		}

		version, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid migration version in %q: %w", name, err)
		}

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %q: %w", name, err)
		}

		m, ok := byVersion[version]
		if !ok {
			m = &Migration{Version: version, Name: match[2]}
			byVersion[version] = m
		} else if m.Name != match[2] {
			return nil, fmt.Errorf("duplicate migration version %d: %q and %q", version, m.Name, match[2])
		}

		switch match[3] {
		case "up":
			if hasUp[version] {
				return nil, fmt.Errorf("duplicate up migration for version %d", version)
			}
			m.UpSQL = string(body)
			hasUp[version] = true
		case "down":
			m.DownSQL = string(body)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for version, m := range byVersion {
		if !hasUp[version] {
			return nil, fmt.Errorf("migration %s has no up file", m)
		}
		migrations = append(migrations, *m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}
