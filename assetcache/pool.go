package assetcache

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/substrate/arena"
	"github.com/vkngwrapper/substrate/handle"
	"github.com/vkngwrapper/substrate/hashmap"
	"github.com/vkngwrapper/substrate/slotmap"
	"golang.org/x/exp/slog"
)

type recordPtr[T any] interface {
	*T
	refs() *uint32
}

// pool is a ref-counted slot map of records with an optional path index
type pool[T any, P recordPtr[T]] struct {
	records *slotmap.Typed[T]
	paths   *hashmap.Typed[handle.Handle]
}

func newPool[T any, P recordPtr[T]](logger *slog.Logger, a *arena.Arena, kind string) (*pool[T, P], error) {
	records, err := slotmap.NewTyped[T](logger, a, initialCapacity)
	if err != nil {
		return nil, errors.Wrapf(err, "%s records", kind)
	}

	paths, err := hashmap.NewTyped[handle.Handle](logger, a)
	if err != nil {
		return nil, errors.Wrapf(err, "%s path cache", kind)
	}

	return &pool[T, P]{records: records, paths: paths}, nil
}

// acquire returns the handle cached for path, taking a reference on its record
func (p *pool[T, P]) acquire(path string) (handle.Handle, bool) {
	h, ok := p.paths.Lookup(path)
	if !ok {
		return handle.Invalid, false
	}

	if !p.retain(h) {
		// The record is gone, so the path entry is stale
		p.paths.Remove(path)
		return handle.Invalid, false
	}
	return h, true
}

// retain takes a reference on the record h refers to
func (p *pool[T, P]) retain(h handle.Handle) bool {
	value := p.records.Get(h)
	if value == nil {
		return false
	}

	*P(value).refs()++
	return true
}

// add inserts value with a single reference and caches path for it, unless path is empty. If
// either insert fails, nothing is added and handle.Invalid is returned.
func (p *pool[T, P]) add(path string, value T) handle.Handle {
	*P(&value).refs() = 1

	h := p.records.Insert(value)
	if !h.IsValid() || path == "" {
		return h
	}

	if !p.paths.Insert(path, h) {
		p.records.Remove(h)
		return handle.Invalid
	}
	return h
}

func (p *pool[T, P]) get(h handle.Handle) *T {
	return p.records.Get(h)
}

// release drops a reference on the record h refers to. When the last reference is dropped,
// the record and its path are removed and a copy of the record is returned.
func (p *pool[T, P]) release(h handle.Handle) (T, bool) {
	var removed T

	value := p.records.Get(h)
	if value == nil {
		return removed, false
	}

	refs := P(value).refs()
	if *refs == 0 {
		return removed, false
	}

	*refs--
	if *refs > 0 {
		return removed, false
	}

	removed = *value
	p.records.Remove(h)
	p.forget(h)
	return removed, true
}

func (p *pool[T, P]) forget(h handle.Handle) {
	var path string
	found := false
	p.paths.Each(func(key string, value *handle.Handle) bool {
		if *value == h {
			path = key
			found = true
			return false
		}
		return true
	})

	if found {
		p.paths.Remove(path)
	}
}

// drain removes every record, calling fn with each one first
func (p *pool[T, P]) drain(fn func(record *T)) {
	var handles []handle.Handle
	p.records.Each(func(h handle.Handle, record *T) bool {
		fn(record)
		handles = append(handles, h)
		return true
	})

	for _, h := range handles {
		p.records.Remove(h)
	}
	p.paths.Clear()
}

func (p *pool[T, P]) count() uint32 {
	return p.records.Count()
}
