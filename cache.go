package framez

import (
	"reflect"
	"sync"
)

var (
	// typeCache stores the string representation of types to avoid repeated reflection.
	typeCache = make(map[reflect.Type]string)
	// cacheMu protects concurrent access to the type cache.
	cacheMu sync.RWMutex
)

// dynamicTypeName returns the cached string representation of v's dynamic
// type, for labeling values (like a registered Filter) only known through
// an interface.
func dynamicTypeName(v interface{}) string {
	typ := reflect.TypeOf(v)

	cacheMu.RLock()
	if name, ok := typeCache[typ]; ok {
		cacheMu.RUnlock()
		return name
	}
	cacheMu.RUnlock()

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if name, ok := typeCache[typ]; ok {
		return name
	}
	name := typ.String()
	typeCache[typ] = name
	return name
}