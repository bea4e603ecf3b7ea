package querycache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key identifica una colección cacheada, p.ej. Key{"pets", ownerID}.
type Key []string

func (k Key) String() string {
	return strings.Join(k, "\x1f")
}

// hasPrefix reporta si k está "bajo" prefix (mismos primeros elementos).
func (k Key) hasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

type entry struct {
	key       Key
	value     any
	fetchedAt time.Time
}

// Cache guarda resultados de lecturas por clave y deduplica fetches en vuelo.
// Invalidate marca entradas como stale: la siguiente lectura vuelve al backend.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	// gen sube en cada invalidación; un fetch iniciado antes no repuebla.
	gen   map[string]uint64
	group singleflight.Group

	ttl time.Duration
	now func() time.Time
}

// New crea un cache. ttl <= 0 => las entradas viven hasta ser invalidadas.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		gen:     make(map[string]uint64),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Read devuelve el valor cacheado bajo key o lo obtiene con fetch.
// Lecturas concurrentes de la misma clave comparten un único fetch.
func Read[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	ks := key.String()

	if v, ok := c.lookup(ks); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	startGen := c.generation(ks)

	// El fetch compartido no depende del request que lo inició: si ese
	// request se cancela, los demás lectores igual reciben el valor.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(ks, func() (any, error) {
		out, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.store(key, ks, out, startGen)
		return out, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return zero, res.Err
	}

	typed, ok := res.Val.(T)
	if !ok {
		return zero, nil
	}
	return typed, nil
}

// Invalidate elimina la entrada exacta (exact=true) o todas las que cuelgan
// del prefijo. Devuelve cuántas entradas se descartaron.
func (c *Cache) Invalidate(key Key, exact bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	if exact {
		ks := key.String()
		if _, ok := c.entries[ks]; ok {
			delete(c.entries, ks)
			n++
		}
		c.gen[ks]++
		c.group.Forget(ks)
		return n
	}

	for ks, e := range c.entries {
		if e.key.hasPrefix(key) {
			delete(c.entries, ks)
			n++
		}
	}
	// también claves sin entrada pero con fetch en vuelo
	for ks := range c.gen {
		if Key(strings.Split(ks, "\x1f")).hasPrefix(key) {
			c.gen[ks]++
			c.group.Forget(ks)
		}
	}
	return n
}

// Len devuelve la cantidad de entradas vigentes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) lookup(ks string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[ks]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(e.fetchedAt) > c.ttl {
		delete(c.entries, ks)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) generation(ks string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.gen[ks]
	if !ok {
		c.gen[ks] = 0
	}
	return g
}

func (c *Cache) store(key Key, ks string, v any, startGen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen[ks] != startGen {
		return
	}
	c.entries[ks] = entry{
		key:       append(Key(nil), key...),
		value:     v,
		fetchedAt: c.now(),
	}
}
