package syntax

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrLossyString is returned for literals which do not survive decoding,
// such as lone surrogate escapes.
var ErrLossyString = errors.New("string literal cannot be decoded without loss")

// Unquote decodes quoted script string literal.
func Unquote(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != raw[len(raw)-1] || raw[0] != '"' && raw[0] != '\'' {
		return "", errors.New("not a quoted string")
	}
	body := raw[1 : len(raw)-1]
	if strings.IndexByte(body, '\\') < 0 {
		return body, nil
	}

	var (
		sb   strings.Builder
		high rune = -1
	)
	flush := func() error {
		if high >= 0 {
			return ErrLossyString
		}
		return nil
	}
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			if err := flush(); err != nil {
				return "", err
			}
			sb.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(body) {
			return "", errors.New("dangling escape")
		}
		c = body[i]
		i++
		var r rune = -1
		switch c {
		case 'n':
			r = '\n'
		case 't':
			r = '\t'
		case 'r':
			r = '\r'
		case 'b':
			r = '\b'
		case 'f':
			r = '\f'
		case 'v':
			r = '\v'
		case '\r':
			if i < len(body) && body[i] == '\n' {
				i++
			}
			continue
		case '\n':
			continue
		case 'x':
			if i+2 > len(body) {
				return "", errors.New("invalid hex escape")
			}
			v, err := strconv.ParseUint(body[i:i+2], 16, 8)
			if err != nil {
				return "", errors.New("invalid hex escape")
			}
			r = rune(v)
			i += 2
		case 'u':
			var hex string
			if i < len(body) && body[i] == '{' {
				end := strings.IndexByte(body[i:], '}')
				if end < 0 {
					return "", errors.New("invalid unicode escape")
				}
				hex, i = body[i+1:i+end], i+end+1
			} else {
				if i+4 > len(body) {
					return "", errors.New("invalid unicode escape")
				}
				hex, i = body[i:i+4], i+4
			}
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil || v > utf8.MaxRune {
				return "", errors.New("invalid unicode escape")
			}
			cp := rune(v)
			switch {
			case utf16.IsSurrogate(cp) && cp < 0xDC00:
				if err := flush(); err != nil {
					return "", err
				}
				high = cp
				continue
			case utf16.IsSurrogate(cp):
				if high < 0 {
					return "", ErrLossyString
				}
				sb.WriteRune(utf16.DecodeRune(high, cp))
				high = -1
				continue
			}
			r = cp
		default:
			if c >= '0' && c <= '7' {
				// legacy octal escape, \0 included
				j := i
				for j < len(body) && j < i+2 && body[j] >= '0' && body[j] <= '7' {
					j++
				}
				v, _ := strconv.ParseUint(body[i-1:j], 8, 32)
				if v > 0xFF {
					j--
					v, _ = strconv.ParseUint(body[i-1:j], 8, 32)
				}
				r, i = rune(v), j
				break
			}
			// identity escape, keep complete UTF-8 sequence
			_, n := utf8.DecodeRuneInString(body[i-1:])
			if err := flush(); err != nil {
				return "", err
			}
			sb.WriteString(body[i-1 : i-1+n])
			i += n - 1
			continue
		}
		if err := flush(); err != nil {
			return "", err
		}
		sb.WriteRune(r)
	}
	if err := flush(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Quote encodes value as script string literal with the given quote
// character. Only characters which cannot appear literally are escaped.
func Quote(value string, quote byte) string {
	var sb strings.Builder
	sb.Grow(len(value) + 2)
	sb.WriteByte(quote)
	for _, r := range value {
		switch r {
		case rune(quote):
			sb.WriteByte('\\')
			sb.WriteByte(quote)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\u2028':
			sb.WriteString(`\u2028`)
		case '\u2029':
			sb.WriteString(`\u2029`)
		default:
			if r < 0x20 || r == 0x7F {
				sb.WriteString(`\x`)
				sb.WriteString(strconv.FormatInt(int64(r)>>4, 16))
				sb.WriteString(strconv.FormatInt(int64(r)&0xF, 16))
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(quote)
	return sb.String()
}
