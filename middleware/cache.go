// cache.go - Response cache for GET endpoints

package middleware

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"time"

	"hotel-bookings-backend/cache"

	"github.com/gin-gonic/gin"
)

// TagsFunc names the cache tags a response belongs to. It runs before the
// handler, so it can only use the request and what earlier middleware set.
type TagsFunc func(c *gin.Context) []string

type bodyWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheResponse serves successful GET responses from store for ttl. Responses
// are keyed by path, query and the authenticated user. With a nil store the
// middleware does nothing. Cache errors are logged and the request goes on.
func CacheResponse(store cache.Store, ttl time.Duration, tags TagsFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := responseKey(c)

		body, ok, err := store.Get(ctx, key)
		if err != nil {
			log.Printf("[CACHE] get %s: %v", key, err)
		} else if ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		var t []string
		if tags != nil {
			t = tags(c)
		}
		// Taken before the handler reads anything, so a write that lands
		// while it runs keeps its stale answer out of the cache.
		gen, err := store.Generation(ctx, t...)
		if err != nil {
			log.Printf("[CACHE] generation %v: %v", t, err)
			c.Next()
			return
		}

		w := &bodyWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		if w.Status() != http.StatusOK || c.IsAborted() {
			return
		}
		if _, err := store.SetIfCurrent(ctx, key, w.body.Bytes(), ttl, gen, t...); err != nil {
			log.Printf("[CACHE] set %s: %v", key, err)
		}
	}
}

func responseKey(c *gin.Context) string {
	var uid uint
	if user := CurrentUser(c); user != nil {
		uid = user.ID
	}
	// Encode sorts the parameters, so their order in the URL does not matter.
	return fmt.Sprintf("%s:%s?%s:user=%d", c.Request.Method, c.Request.URL.Path, c.Request.URL.Query().Encode(), uid)
}
