package framez

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Encode serializes a value of type T to bytes using msgpack encoding.
// Used for debug snapshots (Table.MarshalSnapshot) — never on the
// frame-scheduling hot path.
func Encode[T any](value T) ([]byte, error) {
	return msgpack.Marshal(value)
}

// Decode deserializes bytes into a value of type T using msgpack decoding.
func Decode[T any](data []byte) (T, error) {
	var value T
	err := msgpack.Unmarshal(data, &value)
	return value, err
}