package service

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// Format of an options file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from the file extension. Unknown extensions are read as YAML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// LoadOptionsFile reads options from a YAML, TOML or JSON file. Keys use the same names
// as OptionsFromMap. The authenticator is not part of the file and must be set by the caller.
func LoadOptionsFile(path string) (Options, error) {
	if path == "" {
		return Options{}, ErrOptionsFile.Msg("options file path is required")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Options{}, ErrOptionsFile.MsgErr("unable to read options file "+path, err)
	}
	return ParseOptions(content, FormatOf(path))
}

// ParseOptions decodes content in the given format and hands the result to OptionsFromMap.
func ParseOptions(content []byte, format Format) (Options, error) {
	m := make(map[string]any)
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.Decode(string(content), &m)
	case FormatJSON:
		err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(content, &m)
	case FormatYAML:
		err = yaml.Unmarshal(content, &m)
	default:
		return Options{}, ErrOptionsFile.Msg("unsupported options format " + string(format))
	}
	if err != nil {
		return Options{}, ErrOptionsFile.MsgErr("unable to parse "+string(format)+" options: "+err.Error(), err)
	}
	return OptionsFromMap(m)
}
