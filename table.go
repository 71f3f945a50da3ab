package framez

// NPos is the "append" sentinel for Table positions (spec §4.D), mirroring
// table.cpp's npos.
const NPos = ^uint64(0)

type tableEntry struct {
	key   *string
	value interface{}
}

// Table is the ordered, keyed property map carried by every Frame (spec
// §3/§4.D). Insertion order is preserved; keys are optional. Table is not
// safe for concurrent read/write — callers coordinate through the
// usurp-or-clone convention the way Frame.Props does.
type Table struct {
	refcounted
	entries []tableEntry
}

// NewTable creates an empty Table with the given initial capacity hint.
func NewTable(reserveCapacity int) *Table {
	t := &Table{refcounted: newRefcounted()}
	if reserveCapacity > 0 {
		t.entries = make([]tableEntry, 0, reserveCapacity)
	}
	return t
}

func (t *Table) normRef(ref uint64) uint64 {
	if ref == NPos {
		return uint64(len(t.entries))
	}
	return ref
}

func (t *Table) expand(length uint64) {
	if length > uint64(len(t.entries)) {
		grown := make([]tableEntry, length)
		copy(grown, t.entries)
		t.entries = grown
	}
}

// Size returns the number of entries.
func (t *Table) Size() int { return len(t.entries) }

// Get returns the value at ref, or nil if ref is out of range.
func (t *Table) Get(ref uint64) interface{} {
	ref = t.normRef(ref)
	if ref >= uint64(len(t.entries)) {
		return nil
	}
	return t.entries[ref].value
}

// Set stores a value at ref, expanding the table if necessary. NPos
// appends.
func (t *Table) Set(ref uint64, value interface{}) {
	ref = t.normRef(ref)
	t.expand(ref + 1)
	t.entries[ref].value = value
}

// GetKey returns the key at ref, or nil if ref is out of range or unkeyed.
func (t *Table) GetKey(ref uint64) *string {
	ref = t.normRef(ref)
	if ref >= uint64(len(t.entries)) {
		return nil
	}
	return t.entries[ref].key
}

// SetKey assigns (or clears, with a nil key) the key at ref.
func (t *Table) SetKey(ref uint64, key *string) {
	ref = t.normRef(ref)
	t.expand(ref + 1)
	t.entries[ref].key = key
}

// GetRef returns the position of the first entry with the given key, or
// NPos if none matches.
func (t *Table) GetRef(key string) uint64 {
	for i := range t.entries {
		if t.entries[i].key != nil && *t.entries[i].key == key {
			return uint64(i)
		}
	}
	return NPos
}

// Clone returns a shallow copy of the entry vector: table.cpp's `clone`
// copies (key, value) pairs but leaves each value handle shared — the
// ref-counted values underneath remain shared until something downstream
// mutates them through their own usurp-or-clone.
func (t *Table) Clone() *Table {
	cloned := &Table{refcounted: newRefcounted()}
	cloned.entries = make([]tableEntry, len(t.entries))
	copy(cloned.entries, t.entries)
	return cloned
}

type tableSnapshotEntry struct {
	Key   *string     `msgpack:"key"`
	Value interface{} `msgpack:"value"`
}

// MarshalSnapshot encodes the table's (key, value) pairs with msgpack for
// debug dumps and test fixtures. It is
// not on the hot path and not used for persistence — the engine keeps no
// durable state (spec §6).
func (t *Table) MarshalSnapshot() ([]byte, error) {
	snap := make([]tableSnapshotEntry, len(t.entries))
	for i, e := range t.entries {
		snap[i] = tableSnapshotEntry{Key: e.key, Value: e.value}
	}
	return Encode(snap)
}

// UnmarshalTableSnapshot decodes a snapshot produced by MarshalSnapshot
// into a fresh Table.
func UnmarshalTableSnapshot(data []byte) (*Table, error) {
	snap, err := Decode[[]tableSnapshotEntry](data)
	if err != nil {
		return nil, err
	}
	t := NewTable(len(snap))
	t.entries = make([]tableEntry, len(snap))
	for i, e := range snap {
		t.entries[i] = tableEntry{key: e.Key, value: e.Value}
	}
	return t, nil
}
