package driven

// ConfigStore holds flat, dot-keyed configuration values
// ("index.workers"). Typed getters return the zero value when the key is
// missing or holds an incompatible type; callers decide on defaults.
type ConfigStore interface {
	// Get returns the raw value and whether the key exists.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	GetInt64(key string) int64
	GetFloat(key string) float64
	GetBool(key string) bool

	// Keys returns every configured key, sorted.
	Keys() []string

	// Set stores one value and persists it.
	Set(key string, value any) error

	// SetAll stores every value in one update. Either all values are
	// persisted or the store is left unchanged.
	SetAll(values map[string]any) error

	// Path returns where the configuration is persisted, or "" when it is
	// not backed by a file.
	Path() string
}
