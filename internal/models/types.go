package models

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeKey is the normalized category of a line
type TypeKey uint8

// Type keys double as bits of a TypeSet
const (
	TypeIC       TypeKey = 1
	TypeRegio    TypeKey = 2
	TypeMetro    TypeKey = 4
	TypeOnDemand TypeKey = 8
)

// OnDemandPrefix marks on-demand lines by id
const OnDemandPrefix = "NŻ"

// TypeKeys lists every type key in display order
var TypeKeys = []TypeKey{TypeIC, TypeRegio, TypeMetro, TypeOnDemand}

var typeNames = map[TypeKey]string{
	TypeIC:       "IC",
	TypeRegio:    "REGIO",
	TypeMetro:    "METRO",
	TypeOnDemand: "ON_DEMAND",
}

var typeLabels = map[TypeKey]string{
	TypeIC:       "InterCity",
	TypeRegio:    "Regionalne",
	TypeMetro:    "Metro",
	TypeOnDemand: "Na żądanie",
}

// String returns the canonical key, e.g. "ON_DEMAND"
func (t TypeKey) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TypeKey(%d)", uint8(t))
}

// Label returns the human readable name of the type
func (t TypeKey) Label() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return t.String()
}

// MarshalText implements encoding.TextMarshaler
func (t TypeKey) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *TypeKey) UnmarshalText(b []byte) error {
	k, err := ParseTypeKey(string(b))
	if err != nil {
		return err
	}
	*t = k
	return nil
}

// ParseTypeKey parses a canonical key such as "METRO" (case-insensitive)
func ParseTypeKey(s string) (TypeKey, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == key {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown line type %q", s)
}

// ClassifyLine derives the type key of a line from its id and free-form category
func ClassifyLine(lineID, category string) TypeKey {
	cat := strings.ToUpper(category)
	switch {
	case strings.Contains(cat, "METRO"):
		return TypeMetro
	case strings.Contains(cat, "IC"):
		return TypeIC
	case strings.Contains(cat, "REGIO"):
		return TypeRegio
	case strings.HasPrefix(lineID, OnDemandPrefix), strings.Contains(cat, "ON"):
		return TypeOnDemand
	default:
		return TypeRegio
	}
}

// LineType returns the stored type of a line, classifying it when the
// line was never normalized
func LineType(id string, line *Line) TypeKey {
	if line == nil {
		return ClassifyLine(id, "")
	}
	if line.Type != 0 {
		return line.Type
	}
	return ClassifyLine(id, line.Category)
}

// TypeSet is a set of line types stored as a bitmask
type TypeSet uint8

// AllTypes contains every type key
const AllTypes = TypeSet(TypeIC | TypeRegio | TypeMetro | TypeOnDemand)

// NewTypeSet builds a set from keys
func NewTypeSet(keys ...TypeKey) TypeSet {
	var s TypeSet
	for _, k := range keys {
		s = s.With(k)
	}
	return s
}

// Has reports whether the set contains the key
func (s TypeSet) Has(k TypeKey) bool {
	return k != 0 && uint8(s)&uint8(k) == uint8(k)
}

// With returns the set with the key added
func (s TypeSet) With(k TypeKey) TypeSet {
	return TypeSet(uint8(s) | uint8(k))
}

// Without returns the set with the key removed
func (s TypeSet) Without(k TypeKey) TypeSet {
	return TypeSet(uint8(s) &^ uint8(k))
}

// Empty reports whether no type is selected
func (s TypeSet) Empty() bool {
	return s&AllTypes == 0
}

// Keys returns the selected keys in display order
func (s TypeSet) Keys() []TypeKey {
	var keys []TypeKey
	for _, k := range TypeKeys {
		if s.Has(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// String returns a comma separated list of keys
func (s TypeSet) String() string {
	keys := s.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return strings.Join(names, ",")
}

// Hex returns the mask in upper-case hexadecimal
func (s TypeSet) Hex() string {
	return strings.ToUpper(strconv.FormatUint(uint64(s&AllTypes), 16))
}

// ParseTypeSet accepts either a decimal bitmask ("6") or a comma separated
// list of keys ("REGIO,METRO").
func ParseTypeSet(v string) (TypeSet, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	if mask, err := strconv.ParseUint(v, 10, 8); err == nil {
		return TypeSet(mask) & AllTypes, nil
	}
	var s TypeSet
	for _, part := range strings.Split(v, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, err := ParseTypeKey(part)
		if err != nil {
			return 0, err
		}
		s = s.With(k)
	}
	return s, nil
}

// ParseTypeSetHex parses a hexadecimal bitmask
func ParseTypeSetHex(v string) (TypeSet, error) {
	mask, err := strconv.ParseUint(strings.TrimSpace(v), 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid type mask %q: %w", v, err)
	}
	return TypeSet(mask) & AllTypes, nil
}

// Priority selects what the route search minimizes first
type Priority int

const (
	// PriorityTransfers minimizes transfers, then stops
	PriorityTransfers Priority = iota
	// PriorityStops minimizes stops, then transfers
	PriorityStops
)

// String returns "transfers" or "stops"
func (p Priority) String() string {
	if p == PriorityStops {
		return "stops"
	}
	return "transfers"
}

// Code returns the single letter form used in permalinks
func (p Priority) Code() string {
	if p == PriorityStops {
		return "s"
	}
	return "t"
}

// MarshalText implements encoding.TextMarshaler
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePriority accepts "transfers", "stops" or their single letter codes
func ParsePriority(v string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "t", "transfers":
		return PriorityTransfers, nil
	case "s", "stops":
		return PriorityStops, nil
	}
	return PriorityTransfers, fmt.Errorf("unknown priority %q", v)
}
