package utils

import (
	"os"
	"path/filepath"

	"github.com/AzielCF/az-planner/config"
)

// GetMediaStoragePath returns the directory for generated plan media,
// creating it on first use.
func GetMediaStoragePath(planID string) string {
	path := filepath.Join(config.PathMedia, planID)
	_ = os.MkdirAll(path, 0755)
	return path
}

// EnsureStorageDirectories creates the base directories the service writes to.
func EnsureStorageDirectories() error {
	for _, d := range []string{config.PathStorages, config.PathMedia} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}
