// Package cache memoizes compiled regular expressions.
//
// Compiling a pattern is far more expensive than most searches, and
// interpreters or linters tend to compile the same few literals over and
// over. A Cache keys compiled regexes by a farmhash fingerprint of
// (pattern, flags) and stores them in a ristretto cache weighted by
// pattern length.
//
// Example:
//
//	c, err := cache.New(cache.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//	re, err := c.Literal(`/\d+/g`)
package cache

import (
	"github.com/dgraph-io/ristretto/v2"
	farm "github.com/dgryski/go-farm"

	"github.com/coregx/ecmaregex"
)

// Config configures a Cache.
type Config struct {
	// MaxCost bounds the total cost of cached regexes in bytes. The cost of
	// one regex is the length of its pattern plus its HeapBytes; a regex
	// costing more than MaxCost is never kept.
	// Default: 16 << 20
	MaxCost int64

	// NumCounters is the number of admission counters, ideally ten times
	// the number of entries expected when the cache is full.
	// Default: 1 << 16
	NumCounters int64

	// Metrics enables hit and miss counting.
	// Default: true
	Metrics bool

	// Compile is the configuration used for every compilation.
	Compile ecmaregex.Config
}

// DefaultConfig returns a configuration suitable for a few thousand
// patterns.
func DefaultConfig() Config {
	return Config{
		MaxCost:     16 << 20,
		NumCounters: 1 << 16,
		Metrics:     true,
		Compile:     ecmaregex.DefaultConfig(),
	}
}

// Cache is a concurrency-safe store of compiled regexes.
type Cache struct {
	store  *ristretto.Cache[uint64, *ecmaregex.Regex]
	config Config
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// New creates a cache. Errors come from an invalid ristretto or compile
// configuration.
func New(config Config) (*Cache, error) {
	if err := config.Compile.Validate(); err != nil {
		return nil, err
	}
	store, err := ristretto.NewCache(&ristretto.Config[uint64, *ecmaregex.Regex]{
		NumCounters:        config.NumCounters,
		MaxCost:            config.MaxCost,
		BufferItems:        64,
		Metrics:            config.Metrics,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{store: store, config: config}, nil
}

// Key returns the cache key of (pattern, flags).
func Key(pattern string, flags ecmaregex.Flags) uint64 {
	buf := make([]byte, 0, len(pattern)+1)
	buf = append(buf, byte(flags))
	buf = append(buf, pattern...)
	return farm.Fingerprint64(buf)
}

// Compile returns the compiled form of pattern under flags, compiling and
// caching it on a miss. Compile errors are returned and not cached.
func (c *Cache) Compile(pattern string, flags ecmaregex.Flags) (*ecmaregex.Regex, error) {
	key := Key(pattern, flags)
	if re, ok := c.store.Get(key); ok && re.String() == pattern && re.Flags() == flags {
		return re, nil
	}
	re, err := ecmaregex.CompileWithConfig(pattern, flags, c.config.Compile)
	if err != nil {
		return nil, err
	}
	c.store.Set(key, re, int64(len(pattern)+re.HeapBytes()))
	return re, nil
}

// Literal is like Compile for a /pattern/flags literal.
func (c *Cache) Literal(literal string) (*ecmaregex.Regex, error) {
	pattern, flags, err := ecmaregex.SplitLiteral(literal)
	if err != nil {
		return nil, err
	}
	return c.Compile(pattern, flags)
}

// Wait blocks until pending writes are visible to Compile.
func (c *Cache) Wait() {
	c.store.Wait()
}

// Stats returns hit and miss counts. They are zero when metrics are
// disabled.
func (c *Cache) Stats() Stats {
	m := c.store.Metrics
	if m == nil {
		return Stats{}
	}
	return Stats{Hits: m.Hits(), Misses: m.Misses()}
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.store.Clear()
}

// Close stops the cache's background goroutines.
func (c *Cache) Close() {
	c.store.Close()
}
