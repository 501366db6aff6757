// Package assets embeds the default game data and the database migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed wheel.yaml phrases.yaml sql/*.sql
var FS embed.FS

// WheelConfig returns the bundled wheel configuration (YAML).
func WheelConfig() ([]byte, error) {
	return FS.ReadFile("wheel.yaml")
}

// PhraseBank returns the bundled phrase bank (YAML).
func PhraseBank() ([]byte, error) {
	return FS.ReadFile("phrases.yaml")
}

// Migrations returns the SQL migration files rooted at their directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		panic(err) // the directory is embedded at build time
	}
	return sub
}
