package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/lispmeta/internal/adapters/driven/config"
	"github.com/custodia-labs/lispmeta/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// FileName is the name of the configuration file inside the config dir.
const FileName = "config.toml"

// ConfigStore persists configuration as TOML. Dot-separated keys map to
// nested tables, so "import.max_file_size" is written as max_file_size
// under [import].
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	values config.Values
}

// DefaultDir returns ~/.lispmeta.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: home directory: %w", err)
	}
	return filepath.Join(home, ".lispmeta"), nil
}

// NewConfigStore opens the config file in dir, or in DefaultDir when dir
// is empty. The directory is created if needed; a missing file yields an
// empty store.
func NewConfigStore(dir string) (*ConfigStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	values, err := readFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}

	return &ConfigStore{
		path:   filepath.Join(dir, FileName),
		values: values,
	}, nil
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *ConfigStore) GetString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.String(key)
}

func (s *ConfigStore) GetInt(key string) int {
	return int(s.GetInt64(key))
}

func (s *ConfigStore) GetInt64(key string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Int64(key)
}

func (s *ConfigStore) GetFloat(key string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Float(key)
}

func (s *ConfigStore) GetBool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Bool(key)
}

func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Keys()
}

// Set stores value under key and rewrites the file.
func (s *ConfigStore) Set(key string, value any) error {
	return s.SetAll(map[string]any{key: value})
}

// SetAll applies values and rewrites the file once. On failure the
// in-memory values are left as they were.
func (s *ConfigStore) SetAll(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.values.Clone()
	for k, v := range values {
		next[k] = v
	}
	if err := writeFile(s.path, next); err != nil {
		return err
	}
	s.values = next
	return nil
}

// Path returns the config file path.
func (s *ConfigStore) Path() string {
	return s.path
}

func readFile(path string) (config.Values, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Values{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	values := config.Values{}
	flatten(tree, "", values)
	return values, nil
}

// writeFile writes through a temp file in the same directory so a failed
// write never truncates the existing config.
func writeFile(path string, values config.Values) error {
	tree, err := nest(values)
	if err != nil {
		return err
	}
	data, err := toml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("config: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// flatten copies the leaves of tree into out under dotted keys.
func flatten(tree map[string]any, prefix string, out config.Values) {
	for k, v := range tree {
		if prefix != "" {
			k = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(sub, k, out)
			continue
		}
		out[k] = v
	}
}

// nest is the inverse of flatten. A key that is both a leaf and a table
// prefix ("index" and "index.workers") cannot be represented in TOML.
func nest(values config.Values) (map[string]any, error) {
	tree := make(map[string]any)

	for _, key := range values.Keys() {
		parts := strings.Split(key, ".")
		node := tree
		for _, part := range parts[:len(parts)-1] {
			switch child := node[part].(type) {
			case nil:
				sub := make(map[string]any)
				node[part] = sub
				node = sub
			case map[string]any:
				node = child
			default:
				return nil, fmt.Errorf("config: key %q conflicts with value %q", key, part)
			}
		}

		leaf := parts[len(parts)-1]
		if _, isTable := node[leaf].(map[string]any); isTable {
			return nil, fmt.Errorf("config: key %q conflicts with table of the same name", key)
		}
		node[leaf] = values[key]
	}

	return tree, nil
}
