// Package config loads and stores the bluepill settings file.
//
// The file is a flat JSON object. A missing or unreadable file never blocks a
// command: Load falls back to defaults and logs what went wrong.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/gofrs/flock"

	"github.com/jeanhaley32/bluepill/internal/constants"
)

// ErrUnknownKey is returned by Get and Set for keys that are not config fields.
var ErrUnknownKey = errors.New("unknown config key")

// Config holds the user settings.
type Config struct {
	// DefaultImage is the source image for new bluepill images.
	DefaultImage string `json:"default_image"`
}

// Entry is one key/value pair as shown by `config list`.
type Entry struct {
	Key   string
	Value string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{DefaultImage: constants.DefaultImage}
}

// Load reads the config file at path. A missing file yields the defaults, and so
// does an unreadable or malformed one after the failure is logged.
func Load(path string, logger *slog.Logger) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Error("error reading config file", "path", path, "error", err)
		}
		return Default()
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		logger.Error("error loading config file", "path", path, "error", err)
		return Default()
	}

	return cfg
}

// Save writes the config to path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock config file: %w", err)
	}
	defer lock.Unlock()

	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Keys returns the config keys in declaration order.
func (c *Config) Keys() []string {
	t := reflect.TypeOf(*c)
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if key := fieldKey(t.Field(i)); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// List returns every key with its current value.
func (c *Config) List() []Entry {
	keys := c.Keys()
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		value, _ := c.Get(key)
		entries = append(entries, Entry{Key: key, Value: value})
	}
	return entries
}

// Get returns the value stored under key.
func (c *Config) Get(key string) (string, error) {
	field, err := c.field(key)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(field.Interface()), nil
}

// Set stores value under key. The change is not persisted until Save.
func (c *Config) Set(key, value string) error {
	field, err := c.field(key)
	if err != nil {
		return err
	}
	if field.Kind() != reflect.String {
		return fmt.Errorf("config key %q has unsupported type %s", key, field.Kind())
	}
	field.SetString(value)
	return nil
}

func (c *Config) field(key string) (reflect.Value, error) {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if fieldKey(t.Field(i)) == key {
			return v.Field(i), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// fieldKey returns the JSON name of a field, or "" when it is not serialized.
func fieldKey(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}
