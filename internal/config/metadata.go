package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DefaultMetadataFile — файл метаданных пакета по умолчанию.
const DefaultMetadataFile = "package.json"

// PackageMetadata — поля package.json, нужные для релиза.
type PackageMetadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ReadPackageMetadata читает JSON объект с полем version.
//
// version обязателен и должен быть семантической версией (1.2.3, 1.2.3-rc.1).
// Префикс "v" не допускается: тег релиза строится как "v" + version.
func ReadPackageMetadata(path string) (*PackageMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigurationMissingError{
				What: "package metadata",
				Path: path,
				Err:  err,
			}
		}
		return nil, fmt.Errorf("read package metadata: %w", err)
	}

	var meta PackageMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	meta.Version = strings.TrimSpace(meta.Version)
	if meta.Version == "" {
		return nil, fmt.Errorf("%w: %s: version is required", ErrInvalidConfig, path)
	}
	if err := ValidateVersion(meta.Version); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	return &meta, nil
}

// ValidateVersion проверяет, что строка — строгая семантическая версия.
func ValidateVersion(version string) error {
	if strings.HasPrefix(version, "v") {
		return fmt.Errorf("version %q must not start with 'v'", version)
	}
	if _, err := semver.StrictNewVersion(version); err != nil {
		return fmt.Errorf("version %q is not a semantic version: %w", version, err)
	}
	return nil
}
