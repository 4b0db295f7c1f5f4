package domain

import "sort"

// Key identifies a metadata attribute extracted from a file header.
type Key string

// Recognised metadata keys. The set is closed: importers never
// produce a key outside it.
const (
	KeyAuthor     Key = "author"
	KeyTitle      Key = "title"
	KeyKeywords   Key = "keywords"
	KeyAbstract   Key = "abstract"
	KeyVersion    Key = "version"
	KeyLicense    Key = "license"
	KeyCopyright  Key = "copyright"
	KeyMaintainer Key = "maintainer"
	KeyCreated    Key = "created"
	KeyURL        Key = "url"
)

// Keys returns every recognised key in a stable order.
func Keys() []Key {
	return []Key{
		KeyAuthor,
		KeyTitle,
		KeyKeywords,
		KeyAbstract,
		KeyVersion,
		KeyLicense,
		KeyCopyright,
		KeyMaintainer,
		KeyCreated,
		KeyURL,
	}
}

// IsValid returns true if the key is one of the recognised keys.
func (k Key) IsValid() bool {
	for _, known := range Keys() {
		if k == known {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (k Key) String() string {
	return string(k)
}

// Attributes maps metadata keys to the values extracted for them.
// The map is owned by the caller of an import; importers only populate it.
type Attributes map[Key]string

// SortedKeys returns the keys present in the map, sorted alphabetically.
func (a Attributes) SortedKeys() []Key {
	keys := make([]Key, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Clone returns a shallow copy of the map. A nil map clones to nil.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	dst := make(Attributes, len(a))
	for k, v := range a {
		dst[k] = v
	}
	return dst
}

// StringMap converts the attributes to a plain string map,
// suitable for JSON output and storage.
func (a Attributes) StringMap() map[string]string {
	out := make(map[string]string, len(a))
	for k, v := range a {
		out[string(k)] = v
	}
	return out
}
