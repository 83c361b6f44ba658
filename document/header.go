package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a major.minor.patch triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses "major.minor.patch" leniently: missing or
// non-numeric components are zero.
func ParseVersion(s string) Version {
	var v Version
	if s == "" {
		return v
	}
	parts := strings.Split(s, ".")
	for i, dst := range []*int{&v.Major, &v.Minor, &v.Patch} {
		if i >= len(parts) {
			break
		}
		if n, err := strconv.Atoi(parts[i]); err == nil {
			*dst = n
		}
	}
	return v
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1.
func (v Version) Compare(o Version) int {
	for _, d := range [...]int{v.Major - o.Major, v.Minor - o.Minor, v.Patch - o.Patch} {
		switch {
		case d < 0:
			return -1
		case d > 0:
			return 1
		}
	}
	return 0
}

// ExpansionMode selects how scene nodes are composed with their geometry.
type ExpansionMode int

const (
	// WorldSpaceGeometry is used by object model 2 and earlier, where
	// transforms were baked into the geometry.
	WorldSpaceGeometry ExpansionMode = iota
	// LocalGeometry is used by every later object model.
	LocalGeometry
)

func (m ExpansionMode) String() string {
	switch m {
	case WorldSpaceGeometry:
		return "world-space"
	case LocalGeometry:
		return "local"
	default:
		return fmt.Sprintf("ExpansionMode(%d)", int(m))
	}
}

// Header identifies the file format and object model versions.
type Header struct {
	FileVersion        Version
	ObjectModelVersion Version
}

// Supported header strings, oldest first. The last one is current.
var SupportedHeaders = []string{
	"vim:0.9:objectmodel:2.0",
	"vim:2.1.0:objectmodel:3.0.0",
	"vim:0.9:objectmodel:3.0.1",
	"vim:0.9:objectmodel:3.0.2",
	"vim:0.9:objectmodel:3.0.3",
	"vim:0.9:objectmodel:3.0.4",
	"vim:0.9:objectmodel:3.1.0",
	"vim:0.9:objectmodel:3.1.1",
	"vim:0.9:objectmodel:3.2.0",
	"vim:0.9:objectmodel:3.3.0",
	"vim:0.9:objectmodel:3.4.0",
	"vim:0.9:objectmodel:3.5.0",
}

// supportedHeaders holds SupportedHeaders parsed, in the same order.
var supportedHeaders = func() []Header {
	hs := make([]Header, len(SupportedHeaders))
	for i, s := range SupportedHeaders {
		h, err := ParseHeader(s)
		if err != nil {
			panic(err)
		}
		hs[i] = h
	}
	return hs
}()

// CurrentHeader returns the header written by default.
func CurrentHeader() Header {
	return supportedHeaders[len(supportedHeaders)-1]
}

// ParseHeader parses "vim:<file version>:objectmodel:<object model version>".
func ParseHeader(s string) (Header, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return Header{}, fmt.Errorf("%w: expected four parts in %q", ErrMalformedHeader, s)
	}
	if parts[0] != "vim" {
		return Header{}, fmt.Errorf("%w: expected %q to start with \"vim\"", ErrMalformedHeader, s)
	}
	if parts[2] != "objectmodel" {
		return Header{}, fmt.Errorf("%w: expected object model in %q", ErrMalformedHeader, s)
	}
	return Header{
		FileVersion:        ParseVersion(parts[1]),
		ObjectModelVersion: ParseVersion(parts[3]),
	}, nil
}

// String renders the header the way SupportedHeaders spells it, so
// "vim:0.9:objectmodel:3.5.0" keeps its two-part file version. Other headers
// render every version with three components.
func (h Header) String() string {
	if i := h.supportedIndex(); i >= 0 {
		return SupportedHeaders[i]
	}
	return fmt.Sprintf("vim:%s:objectmodel:%s", h.FileVersion, h.ObjectModelVersion)
}

// IsSupported reports whether the header matches one of SupportedHeaders.
func (h Header) IsSupported() bool {
	return h.supportedIndex() >= 0
}

func (h Header) supportedIndex() int {
	for i, sh := range supportedHeaders {
		if sh == h {
			return i
		}
	}
	return -1
}

// ExpansionMode returns the scene expansion mode for the object model.
func (h Header) ExpansionMode() ExpansionMode {
	if h.ObjectModelVersion.Major <= 2 {
		return WorldSpaceGeometry
	}
	return LocalGeometry
}
