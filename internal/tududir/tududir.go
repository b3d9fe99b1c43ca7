// Package tududir provides constants and utilities for the .tudu directory structure.
package tududir

import (
	"path/filepath"

	"github.com/nibzard/tudu/internal/kv"
)

const (
	// Dir is the name of the tudu state directory.
	Dir = ".tudu"

	// DefaultStoreDir holds one file per key for the file backend (inside .tudu).
	DefaultStoreDir = "store"

	// DefaultDBFile is the sqlite database (inside .tudu).
	DefaultDBFile = "tudu.db"

	// DefaultConfigFile is the project config file name (inside .tudu).
	DefaultConfigFile = "tudu.toml"
)

// StorePath returns the default store location for backend within a work
// directory. The memory backend has no location.
func StorePath(workDir, backend string) string {
	switch backend {
	case kv.BackendMemory:
		return ""
	case kv.BackendSQLite:
		return joinPath(workDir, DefaultDBFile)
	default:
		return joinPath(workDir, DefaultStoreDir)
	}
}

// ConfigPath returns the full path to the config file within a work directory.
func ConfigPath(workDir string) string {
	return joinPath(workDir, DefaultConfigFile)
}

// DirPath returns the full path to the .tudu directory within a work directory.
func DirPath(workDir string) string {
	if workDir == "." || workDir == "" {
		return Dir
	}
	return filepath.Join(workDir, Dir)
}

func joinPath(workDir, file string) string {
	return filepath.Join(DirPath(workDir), file)
}
