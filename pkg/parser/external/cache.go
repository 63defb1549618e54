package external

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/fsutil"
)

const cacheFileMode os.FileMode = 0o600

// Cache stores parser dumps on disk as MessagePack, keyed by the parser
// command line and the source content.
type Cache struct {
	dir  string
	salt string
}

// DefaultCacheDir returns the per-user parse cache location.
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve user cache dir: %w", err)
	}
	return filepath.Join(base, "rbfix", "parse"), nil
}

// OpenCache opens (creating if needed) a cache rooted at dir. An empty dir
// uses DefaultCacheDir.
func OpenCache(dir string, command []string) (*Cache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultCacheDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Cache{
		dir:  dir,
		salt: fmt.Sprintf("v%d\x00%s", ast.DumpVersion, strings.Join(command, "\x00")),
	}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) path(content []byte) string {
	h := sha256.New()
	h.Write([]byte(c.salt))
	h.Write([]byte{0})
	h.Write(content)
	key := hex.EncodeToString(h.Sum(nil))
	return filepath.Join(c.dir, key[:2], key+".msgpack")
}

// Get returns the cached dump for content. Unreadable or corrupt entries
// count as misses.
func (c *Cache) Get(content []byte) (*ast.Dump, bool) {
	data, err := os.ReadFile(c.path(content))
	if err != nil {
		return nil, false
	}
	dump, err := ast.DecodeMsgpack(data)
	if err != nil {
		return nil, false
	}
	return dump, true
}

// Put stores dump as the entry for content.
func (c *Cache) Put(ctx context.Context, content []byte, dump *ast.Dump) error {
	data, err := ast.EncodeMsgpack(dump)
	if err != nil {
		return err
	}

	path := c.path(content)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create cache shard: %w", err)
	}
	return fsutil.WriteAtomic(ctx, path, data, cacheFileMode)
}
