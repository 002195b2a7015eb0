package file

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFile reads settings from a TOML file.
//
// Keys are the configuration variable names in any case. Tables may be used
// to group keys and do not change the name, so
//
//	[retrieval]
//	top_k = 5
//
// sets TOP_K.
type ConfigFile struct {
	path string
}

// NewConfigFile creates a reader for the file at path.
func NewConfigFile(path string) *ConfigFile {
	return &ConfigFile{path: path}
}

// Path returns the configuration file path.
func (f *ConfigFile) Path() string {
	return f.path
}

// Vars parses the file and returns its values keyed by upper-case variable name.
func (f *ConfigFile) Vars() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}

	out := make(map[string]string)
	flattenMap(loaded, out)
	return out, nil
}

// flattenMap copies leaf values of nested tables into out, dropping table names.
func flattenMap(m map[string]any, out map[string]string) {
	for key, value := range m {
		if nested, ok := value.(map[string]any); ok {
			flattenMap(nested, out)
			continue
		}
		out[strings.ToUpper(key)] = scalar(value)
	}
}

func scalar(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, scalar(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}
