package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrUnsupportedVersion is returned when a schema document carries a major
// version this package cannot read.
var ErrUnsupportedVersion = errors.New("unsupported schema version")

// MajorVersion returns the major component of a "MAJOR.MINOR.PATCH" version.
func MajorVersion(v string) (int, error) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" {
		return 0, fmt.Errorf("%w: empty version", ErrUnsupportedVersion)
	}
	major, _, _ := strings.Cut(v, ".")
	n, err := strconv.Atoi(major)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: malformed version %q", ErrUnsupportedVersion, v)
	}
	return n, nil
}

// CheckVersion reports whether a document written with version v can be
// read. Any minor or patch level of the current major version is accepted.
func CheckVersion(v string) error {
	got, err := MajorVersion(v)
	if err != nil {
		return err
	}
	want, _ := MajorVersion(Version)
	if got != want {
		return fmt.Errorf("%w: %s (reader supports %d.x)", ErrUnsupportedVersion, v, want)
	}
	return nil
}

// Encode writes s as indented JSON.
func Encode(w io.Writer, s *Schema) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Decode reads a schema document and refuses unknown major versions.
func Decode(r io.Reader) (*Schema, error) {
	var s Schema
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	if err := CheckVersion(s.Version); err != nil {
		return nil, err
	}
	return &s, nil
}
