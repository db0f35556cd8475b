package config

import (
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

// FileType selects the parser used by FileProvider.
type FileType string

const (
	FileTypeYAML FileType = "yaml"
	FileTypeTOML FileType = "toml"
	FileTypeJSON FileType = "json"
)

func (f FileType) String() string {
	return string(f)
}

func (f FileType) Valid() error {
	switch f {
	case FileTypeJSON, FileTypeYAML, FileTypeTOML:
		return nil
	default:
		return errors.New("invalid config file type", errors.CategoryValidation).
			WithTextCode("INVALID_FILE_TYPE").
			WithMetadata(map[string]any{
				"file_type": string(f),
				"valid_types": []string{
					string(FileTypeJSON),
					string(FileTypeYAML),
					string(FileTypeTOML),
				},
			})
	}
}

// Parser returns the koanf parser for f, or an error for an unknown type.
func (f FileType) Parser() (koanf.Parser, error) {
	switch f {
	case FileTypeJSON:
		return json.Parser(), nil
	case FileTypeTOML:
		return toml.Parser(), nil
	case FileTypeYAML:
		return yaml.Parser(), nil
	}
	return nil, f.Valid()
}

// FileTypeOf infers the file type from the extension of path. Unknown
// extensions fall back to fallback, or JSON.
func FileTypeOf(path string, fallback ...FileType) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FileTypeTOML
	case ".json":
		return FileTypeJSON
	case ".yaml", ".yml":
		return FileTypeYAML
	}

	if len(fallback) > 0 {
		return fallback[0]
	}

	return FileTypeJSON
}
