// Package srcscan extracts HID report descriptor byte tables from driver
// source text. Descriptors for synthesized devices live in C files as
// `static const UCHAR Name[] = { 0x05, 0x01, ... };` initializers; this
// package pulls the raw bytes back out so they can be fed to the
// interpreter without compiling anything.
package srcscan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRe  = regexp.MustCompile(`(?m)//.*?$`)
	byteLiteralRe  = regexp.MustCompile(`^(?:0[xX][0-9a-fA-F]+|[0-9]+)$`)
)

// StripComments removes C/C++ comments. Block comments go first so a //
// inside a block comment cannot eat the rest of a line.
func StripComments(src string) string {
	src = blockCommentRe.ReplaceAllString(src, "")
	return lineCommentRe.ReplaceAllString(src, "")
}

// ExtractByteArray locates the byte-array initializer for name and decodes
// its elements. Elements must be plain integer literals in 0..255; macro
// names or expressions are rejected rather than guessed at.
func ExtractByteArray(src, name string) ([]byte, error) {
	src = StripComments(src)

	declRe, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\s*\[[^\]]*\]\s*=\s*\{`)
	if err != nil {
		return nil, fmt.Errorf("srcscan: bad array name %q: %w", name, err)
	}
	loc := declRe.FindStringIndex(src)
	if loc == nil {
		return nil, fmt.Errorf("srcscan: no byte array initializer found for %q", name)
	}
	body := src[loc[1]:]
	end := strings.IndexByte(body, '}')
	if end < 0 {
		return nil, fmt.Errorf("srcscan: unterminated initializer for %q", name)
	}
	body = body[:end]

	var out []byte
	for _, field := range strings.Split(body, ",") {
		lit := strings.TrimSpace(field)
		if lit == "" {
			continue // trailing comma
		}
		if !byteLiteralRe.MatchString(lit) {
			return nil, fmt.Errorf("srcscan: %q element %q is not an integer literal", name, lit)
		}
		v, err := strconv.ParseUint(lit, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("srcscan: %q element %q: %w", name, lit, err)
		}
		if v > 0xFF {
			return nil, fmt.Errorf("srcscan: %q element %q does not fit in a byte", name, lit)
		}
		out = append(out, byte(v))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("srcscan: initializer for %q is empty", name)
	}
	return out, nil
}
