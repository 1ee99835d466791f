package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape"
)

// extractionCache memoizes raw extractions. Keys include the file's
// modification time and size, so an entry is never served for a file that
// changed after it was cached.
type extractionCache struct {
	lru *lru.LRU[string, *sheetshape.Extraction]
}

func newExtractionCache(size int, ttl time.Duration) *extractionCache {
	if size <= 0 {
		return nil
	}
	return &extractionCache{lru: lru.NewLRU[string, *sheetshape.Extraction](size, nil, ttl)}
}

// cacheKey identifies an extraction of path. ok is false when the file cannot be
// stat'ed; such requests bypass the cache.
func cacheKey(path, sheet string, headerRow, maxRows int) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s|%d|%d|%s|%d|%d",
		abs, info.ModTime().UnixNano(), info.Size(), sheet, headerRow, maxRows), true
}

func (c *extractionCache) get(key string) (*sheetshape.Extraction, bool) {
	if c == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

func (c *extractionCache) add(key string, x *sheetshape.Extraction) {
	if c == nil {
		return
	}
	c.lru.Add(key, x)
}

func (c *extractionCache) len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
