package highlighter

import (
	"fmt"
	"time"

	"github.com/bethropolis/tidemark/internal/highlighter/lang"
	"github.com/bethropolis/tidemark/internal/logger"
	gocache "github.com/patrickmn/go-cache"
	sitter "github.com/smacker/go-tree-sitter"
)

const (
	queryExpiration      = 30 * time.Minute
	queryCleanupInterval = 10 * time.Minute
)

// Compiled queries are shared by every session of a language. Evicted
// queries are left to the finalizer since a session may still hold one.
var queries = newQueryCache()

func newQueryCache() *gocache.Cache {
	c := gocache.New(queryExpiration, queryCleanupInterval)
	c.OnEvicted(func(key string, _ any) {
		logger.DebugTagf("highlighter", "Query cache: evicted query for %s", key)
	})
	return c
}

// queryFor returns the compiled highlight query of l.
func queryFor(l *lang.Language) (*sitter.Query, error) {
	if v, ok := queries.Get(l.Name); ok {
		if q, ok := v.(*sitter.Query); ok {
			logger.DebugTagf("highlighter", "Query cache hit for %s", l.Name)
			return q, nil
		}
	}

	src, err := l.GetQuery()
	if err != nil {
		return nil, err
	}
	q, err := sitter.NewQuery(src, l.TreeSitterLang)
	if err != nil {
		return nil, fmt.Errorf("query parse failed for %s: %w", l.Name, err)
	}
	queries.Set(l.Name, q, gocache.DefaultExpiration)
	return q, nil
}
