package assets

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed cues.yaml
var CuesYAML []byte

//go:embed migrations/*.sql
var FS embed.FS

// Migrations returns the embedded migration file names in lexical order,
// relative to FS (e.g. "migrations/001_best_score.sql").
func Migrations() ([]string, error) {
	names, err := fs.Glob(FS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// ReadMigration returns the SQL text of one migration.
func ReadMigration(name string) (string, error) {
	b, err := FS.ReadFile(name)
	return string(b), err
}
