// Package roundtrip checks that two YAML texts carry the same data.
//
// Both sides are loaded into plain Go values and dumped again with
// gopkg.in/yaml.v3, which sorts mapping keys and picks one rendering per
// value. Texts whose redumps match load to equal data, whatever their layout,
// quoting or comments.
package roundtrip

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Redump loads every document of src and dumps it again. A stream without
// documents loads as a single null.
func Redump(src []byte) ([]byte, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))

	var out bytes.Buffer
	enc := yaml.NewEncoder(&out)
	enc.SetIndent(2)

	docs := 0
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("roundtrip: load: %w", err)
		}
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("roundtrip: dump: %w", err)
		}
		docs++
	}
	if docs == 0 {
		if err := enc.Encode(nil); err != nil {
			return nil, fmt.Errorf("roundtrip: dump: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("roundtrip: dump: %w", err)
	}
	return out.Bytes(), nil
}

// Equal reports whether a and b load to the same data.
func Equal(a, b []byte) (bool, error) {
	ra, err := Redump(a)
	if err != nil {
		return false, err
	}
	rb, err := Redump(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ra, rb), nil
}
