package translate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"resumake/internal/cv"
)

// ContentHash keys a cached translation: the hash covers the serialized
// source and the target language, so any source edit invalidates it.
func ContentHash(srcYAML []byte, lang string) string {
	h := sha256.New()
	h.Write(srcYAML)
	h.Write([]byte{0})
	h.Write([]byte(lang))
	return hex.EncodeToString(h.Sum(nil))
}

// cacheEntry is the on-disk cache format, one file per language.
type cacheEntry struct {
	SourceHash string `yaml:"source_hash"`
	Lang       string `yaml:"lang"`
	Translated string `yaml:"translated"`
}

// Cache stores translated CVs under the output directory, one dotfile per
// target language.
type Cache struct {
	dir string
}

// NewCache creates a cache rooted at dir. The directory is created lazily
// on the first Store.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Path returns the cache file location for a language.
func (c *Cache) Path(lang string) string {
	return filepath.Join(c.dir, fmt.Sprintf(".cv_%s_cache.yaml", lang))
}

// Lookup returns the cached translation when the stored source hash
// matches. Unparseable or mismatched entries are treated as misses.
func (c *Cache) Lookup(lang, hash string) (*cv.Document, bool) {
	entry, ok := c.read(lang)
	if !ok || entry.SourceHash != hash {
		return nil, false
	}
	doc, err := cv.Parse([]byte(entry.Translated))
	if err != nil {
		return nil, false
	}
	return doc, true
}

// LookupAny returns whatever cached translation exists for the language,
// regardless of source hash. Used as a fallback when no provider is
// available.
func (c *Cache) LookupAny(lang string) (*cv.Document, bool) {
	entry, ok := c.read(lang)
	if !ok {
		return nil, false
	}
	doc, err := cv.Parse([]byte(entry.Translated))
	if err != nil {
		return nil, false
	}
	return doc, true
}

// Store writes a translation to the cache.
func (c *Cache) Store(lang, hash, translatedYAML string) error {
	if err := os.MkdirAll(c.dir, 0750); err != nil {
		return err
	}
	data, err := yaml.Marshal(cacheEntry{
		SourceHash: hash,
		Lang:       lang,
		Translated: translatedYAML,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(c.Path(lang), data, 0600)
}

// Invalidate removes the cached translation for a language. Missing files
// are not an error.
func (c *Cache) Invalidate(lang string) error {
	err := os.Remove(c.Path(lang))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *Cache) read(lang string) (cacheEntry, bool) {
	data, err := os.ReadFile(c.Path(lang))
	if err != nil {
		return cacheEntry{}, false
	}
	var entry cacheEntry
	if err := yaml.Unmarshal(data, &entry); err != nil {
		return cacheEntry{}, false
	}
	if entry.Translated == "" {
		return cacheEntry{}, false
	}
	return entry, true
}
