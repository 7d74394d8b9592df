package property

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// reservedEscapes are the characters whose escapes stay encoded in a key,
// so "/a%2Fb" and "/a/b" name different properties.
const reservedEscapes = ";/?:@&=+$,#"

var errMalformedEscape = errors.New("malformed escape sequence")

// PropertyName extracts the property key from a raw request path: everything
// after the first '/', URL-decoded. It reports false when nothing follows the
// slash or the remainder is not validly escaped.
func PropertyName(rawPath string) (string, bool) {
	i := strings.IndexByte(rawPath, '/')
	if i < 0 {
		return "", false
	}
	rest := rawPath[i+1:]
	if rest == "" {
		return "", false
	}
	name, err := decodeURI(rest)
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

// decodeURI decodes percent escapes except those of reservedEscapes, which
// are kept exactly as written. Escaped bytes at or above 0x80 must form
// valid UTF-8 sequences.
func decodeURI(s string) (string, error) {
	if strings.IndexByte(s, '%') < 0 {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '%' {
			b.WriteByte(s[i])
			i++
			continue
		}

		c, ok := unhex(s, i)
		if !ok {
			return "", errMalformedEscape
		}
		if c < utf8.RuneSelf {
			if strings.IndexByte(reservedEscapes, c) >= 0 {
				b.WriteString(s[i : i+3])
			} else {
				b.WriteByte(c)
			}
			i += 3
			continue
		}

		n := sequenceLen(c)
		if n == 0 {
			return "", errMalformedEscape
		}
		seq := make([]byte, 1, n)
		seq[0] = c
		j := i + 3
		for k := 1; k < n; k++ {
			cc, ok := unhex(s, j)
			if !ok || cc&0xC0 != 0x80 {
				return "", errMalformedEscape
			}
			seq = append(seq, cc)
			j += 3
		}
		// Rejects overlong forms and surrogates too.
		if r, size := utf8.DecodeRune(seq); r == utf8.RuneError || size != n {
			return "", errMalformedEscape
		}
		b.Write(seq)
		i = j
	}
	return b.String(), nil
}

// unhex decodes the escape "%XX" starting at s[i].
func unhex(s string, i int) (byte, bool) {
	if i+2 >= len(s) || s[i] != '%' {
		return 0, false
	}
	hi, ok1 := fromHex(s[i+1])
	lo, ok2 := fromHex(s[i+2])
	return hi<<4 | lo, ok1 && ok2
}

func fromHex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// sequenceLen is the UTF-8 sequence length announced by a leading byte, or
// 0 when c cannot start a sequence.
func sequenceLen(c byte) int {
	switch {
	case c&0xE0 == 0xC0:
		return 2
	case c&0xF0 == 0xE0:
		return 3
	case c&0xF8 == 0xF0:
		return 4
	}
	return 0
}
