// Package rules matches parsed commands against configured rules and folds
// per-command results into one decision. Matching and evaluation are pure;
// the only state is a compile cache for regular expressions and globs, safe
// for concurrent readers.
package rules

import (
	"regexp"
	"sync"

	"github.com/gobwas/glob"
)

// patternCache memoizes compiled patterns keyed by pattern text. Failed
// compilations are cached too: an invalid pattern in a rule is hit on every
// evaluation and must stay cheap.
type patternCache struct {
	mu      sync.RWMutex
	regexps map[string]*regexp.Regexp // nil entry = invalid pattern
	globs   map[string]glob.Glob      // nil entry = invalid pattern
}

var cache = &patternCache{
	regexps: make(map[string]*regexp.Regexp),
	globs:   make(map[string]glob.Glob),
}

// compileRegexp returns the compiled pattern, or nil if it is invalid.
func (c *patternCache) compileRegexp(pattern string) *regexp.Regexp {
	c.mu.RLock()
	re, ok := c.regexps[pattern]
	c.mu.RUnlock()
	if ok {
		return re
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}
	c.mu.Lock()
	c.regexps[pattern] = re
	c.mu.Unlock()
	return re
}

// compileGlob returns the compiled glob, or nil if it is invalid. Globs are
// compiled with '/' as separator so that * stays within one path component
// while ** crosses directories.
func (c *patternCache) compileGlob(pattern string) glob.Glob {
	c.mu.RLock()
	g, ok := c.globs[pattern]
	c.mu.RUnlock()
	if ok {
		return g
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		g = nil
	}
	c.mu.Lock()
	c.globs[pattern] = g
	c.mu.Unlock()
	return g
}
