// Package db holds the SQL schema migrations applied at startup.
package db

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Migration struct {
	Name string
	SQL  string
}

// Up returns the *.up.sql migrations in ascending name order.
func Up() ([]Migration, error) {
	return load(".up.sql", false)
}

// Down returns the *.down.sql migrations in descending name order.
func Down() ([]Migration, error) {
	return load(".down.sql", true)
}

func load(suffix string, reverse bool) ([]Migration, error) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if reverse {
		for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
			names[i], names[j] = names[j], names[i]
		}
	}

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(migrations, "migrations/"+name)
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: name, SQL: string(content)})
	}
	return out, nil
}
