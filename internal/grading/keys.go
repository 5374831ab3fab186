package grading

import (
	"fmt"
	"strings"
)

// Unit identifies one of the two grading periods of a course.
type Unit int

const (
	Unit1 Unit = 1
	Unit2 Unit = 2
)

// Criterion identifies one weighted component of a unit.
type Criterion string

const (
	// ContinuousAssessment is the "cc" component.
	ContinuousAssessment Criterion = "cc"
	// Practice is the "cp" component.
	Practice Criterion = "cp"
	// Attitude is the "ca" component.
	Attitude Criterion = "ca"
)

// Units lists both units in order.
var Units = [...]Unit{Unit1, Unit2}

// Criteria lists the criteria in canonical order.
var Criteria = [...]Criterion{ContinuousAssessment, Practice, Attitude}

// KeyCount is the number of (unit, criterion) pairs.
const KeyCount = len(Units) * len(Criteria)

// Key addresses one criterion of one unit.
type Key struct {
	Unit      Unit
	Criterion Criterion
}

// Keys returns all keys in canonical order: u1_cc, u1_cp, u1_ca, u2_cc, u2_cp, u2_ca.
func Keys() [KeyCount]Key {
	var keys [KeyCount]Key
	i := 0
	for _, u := range Units {
		for _, c := range Criteria {
			keys[i] = Key{Unit: u, Criterion: c}
			i++
		}
	}
	return keys
}

// Valid reports whether the key refers to a known unit and criterion.
func (k Key) Valid() bool {
	return k.Unit.Valid() && k.Criterion.Valid()
}

// Index returns the position of the key in fixed-size tables, or -1 when invalid.
func (k Key) Index() int {
	if !k.Valid() {
		return -1
	}
	return (int(k.Unit)-1)*len(Criteria) + k.Criterion.index()
}

// String renders the key as u<unit>_<criterion>.
func (k Key) String() string {
	return fmt.Sprintf("u%d_%s", int(k.Unit), k.Criterion)
}

// MarshalText encodes the key for JSON map keys.
func (k Key) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid grade key %v", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes u1_cc or u1-cc spellings.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKey parses a key written as u1_cc or u1-cc (case-insensitive).
func ParseKey(raw string) (Key, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	for _, k := range Keys() {
		if k.String() == normalized {
			return k, nil
		}
	}
	return Key{}, fmt.Errorf("unknown grade key %q", raw)
}

// Valid reports whether u is Unit1 or Unit2.
func (u Unit) Valid() bool {
	return u == Unit1 || u == Unit2
}

// Valid reports whether c is one of cc, cp, ca.
func (c Criterion) Valid() bool {
	return c.index() >= 0
}

func (c Criterion) index() int {
	for i, known := range Criteria {
		if known == c {
			return i
		}
	}
	return -1
}
