// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package framework

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadVersion reports a framework version string the adapter cannot
// parse.
var ErrBadVersion = errors.New("framework: malformed version")

// MinVersion is the oldest framework release the adapter targets.
// Older releases had a different compile signature and are not
// supported.
var MinVersion = Version{Major: 2}

// Version is a wrapped-framework release version. The zero value
// compares lower than any real release.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a framework version string such as "2.2.4" or
// "2.3.0-rc1". Anything after the first pre-release or build suffix is
// ignored; gating only ever looks at the numeric triple.
func ParseVersion(s string) (Version, error) {
	core := s
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}

	parts := strings.Split(core, ".")
	if len(parts) == 0 || len(parts) > 3 || parts[0] == "" {
		return Version{}, fmt.Errorf("%w: %q", ErrBadVersion, s)
	}

	var v Version
	dst := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrBadVersion, s)
		}
		*dst[i] = n
	}
	return v, nil
}

// MustParseVersion is ParseVersion that panics on malformed input.
// Intended for version literals in framework bindings.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// AtLeast reports whether v is major.minor.patch or newer.
func (v Version) AtLeast(major, minor, patch int) bool {
	if v.Major != major {
		return v.Major > major
	}
	if v.Minor != minor {
		return v.Minor > minor
	}
	return v.Patch >= patch
}

// Less reports whether v precedes o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

// String returns the dotted form, e.g. "2.2.4".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
