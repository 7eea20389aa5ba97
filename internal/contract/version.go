// Package contract enumerates the TON wallet contract versions and
// computes their addresses from a public key.
package contract

import (
	"strings"

	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// Version identifies a wallet contract code revision.
type Version int

// Known versions, oldest first. The order is the probing order.
const (
	V1R1 Version = iota + 1
	V1R2
	V1R3
	V2R1
	V2R2
	V3R1
	V3R2
	V4R1
	V4R2
)

// Latest is used for new wallets and as the probing fallback.
const Latest = V4R2

//nolint:gochecknoglobals // immutable lookup tables
var (
	versionNames = map[Version]string{
		V1R1: "simpleR1",
		V1R2: "simpleR2",
		V1R3: "simpleR3",
		V2R1: "v2R1",
		V2R2: "v2R2",
		V3R1: "v3R1",
		V3R2: "v3R2",
		V4R1: "v4R1",
		V4R2: "v4R2",
	}

	versionAliases = map[string]Version{
		"v1r1": V1R1,
		"v1r2": V1R2,
		"v1r3": V1R3,
	}
)

// Known returns every supported version, oldest first.
func Known() []Version {
	return []Version{V1R1, V1R2, V1R3, V2R1, V2R2, V3R1, V3R2, V4R1, V4R2}
}

// String returns the identifier stored in wallet records.
func (v Version) String() string {
	if name, ok := versionNames[v]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether v is a known version.
func (v Version) Valid() bool {
	_, ok := versionNames[v]
	return ok
}

// ParseVersion accepts record identifiers ("simpleR1", "v4R2") and the
// v1 aliases ("v1R1"), case-insensitively.
func ParseVersion(s string) (Version, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for v, name := range versionNames {
		if strings.ToLower(name) == key {
			return v, nil
		}
	}
	if v, ok := versionAliases[key]; ok {
		return v, nil
	}
	return 0, sigilerr.WithDetails(sigilerr.ErrUnknownVersion, map[string]string{"version": s})
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, sigilerr.ErrUnknownVersion
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
