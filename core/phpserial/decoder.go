// Package phpserial decodes PHP-serialized values in process.
// WordPress stores array- and object-shaped postmeta in PHP's
// serialization format; a small recursive-descent parser over its
// type-tagged grammar covers everything a WXR export contains.
package phpserial

import (
	"fmt"
	"strconv"
	"strings"
)

// Entry is one key/value pair of a decoded PHP array or object.
type Entry struct {
	Key   any // int or string
	Value any
}

// Map is a decoded PHP array with non-sequential keys, or a decoded
// object. Entries keep their serialized order.
type Map []Entry

// Get returns the value stored under key, if any.
func (m Map) Get(key any) (any, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Decoder parses PHP-serialized strings into native values.
type Decoder struct{}

// New creates a Decoder.
func New() *Decoder {
	return &Decoder{}
}

// Decode parses raw as a PHP-serialized value. Arrays keyed 0..n-1 in
// order come back as []any; other arrays and objects come back as Map.
// ok is false when raw does not look serialized or does not parse
// cleanly, in which case callers keep the raw string.
func (d *Decoder) Decode(raw string) (any, bool) {
	if !looksSerialized(raw) {
		return nil, false
	}
	p := &parser{src: raw}
	v, err := p.value()
	if err != nil || p.pos != len(p.src) {
		return nil, false
	}
	return v, true
}

// looksSerialized is the cheap prefilter: a type tag byte followed by a
// colon. Keeps plain meta strings away from the parser entirely.
func looksSerialized(raw string) bool {
	return len(raw) > 2 && raw[1] == ':' && strings.ContainsRune("asOidbN", rune(raw[0]))
}

type parser struct {
	src string
	pos int
}

func (p *parser) value() (any, error) {
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("unexpected end of input at %d", p.pos)
	}
	switch p.src[p.pos] {
	case 'N':
		if err := p.literal("N;"); err != nil {
			return nil, err
		}
		return nil, nil
	case 'b':
		return p.boolValue()
	case 'i':
		return p.intValue()
	case 'd':
		return p.floatValue()
	case 's':
		return p.stringValue()
	case 'a':
		return p.arrayValue()
	case 'O':
		return p.objectValue()
	default:
		return nil, fmt.Errorf("unknown type tag %q at %d", p.src[p.pos], p.pos)
	}
}

func (p *parser) boolValue() (any, error) {
	if err := p.literal("b:"); err != nil {
		return nil, err
	}
	digit, err := p.until(';')
	if err != nil {
		return nil, err
	}
	switch digit {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return nil, fmt.Errorf("invalid bool %q", digit)
}

func (p *parser) intValue() (any, error) {
	if err := p.literal("i:"); err != nil {
		return nil, err
	}
	body, err := p.until(';')
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(body)
	if err != nil {
		return nil, fmt.Errorf("invalid int %q: %w", body, err)
	}
	return n, nil
}

func (p *parser) floatValue() (any, error) {
	if err := p.literal("d:"); err != nil {
		return nil, err
	}
	body, err := p.until(';')
	if err != nil {
		return nil, err
	}
	f, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid float %q: %w", body, err)
	}
	return f, nil
}

// stringValue parses s:<len>:"<bytes>"; where len counts bytes, not
// runes, so multibyte content is sliced exactly.
func (p *parser) stringValue() (any, error) {
	if err := p.literal("s:"); err != nil {
		return nil, err
	}
	n, err := p.length()
	if err != nil {
		return nil, err
	}
	if err := p.literal(`:"`); err != nil {
		return nil, err
	}
	if p.pos+n > len(p.src) {
		return nil, fmt.Errorf("string length %d overruns input", n)
	}
	s := p.src[p.pos : p.pos+n]
	p.pos += n
	if err := p.literal(`";`); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *parser) arrayValue() (any, error) {
	if err := p.literal("a:"); err != nil {
		return nil, err
	}
	entries, err := p.entries()
	if err != nil {
		return nil, err
	}
	return normalize(entries), nil
}

func (p *parser) objectValue() (any, error) {
	if err := p.literal("O:"); err != nil {
		return nil, err
	}
	n, err := p.length()
	if err != nil {
		return nil, err
	}
	if err := p.literal(`:"`); err != nil {
		return nil, err
	}
	if p.pos+n > len(p.src) {
		return nil, fmt.Errorf("class name length %d overruns input", n)
	}
	p.pos += n // class name is not carried into the decoded value
	if err := p.literal(`":`); err != nil {
		return nil, err
	}
	entries, err := p.entries()
	if err != nil {
		return nil, err
	}
	return Map(entries), nil
}

// entries parses <count>:{key;value;...} shared by arrays and objects.
func (p *parser) entries() ([]Entry, error) {
	count, err := p.length()
	if err != nil {
		return nil, err
	}
	if err := p.literal(":{"); err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		key, err := p.value()
		if err != nil {
			return nil, err
		}
		switch key.(type) {
		case int, string:
		default:
			return nil, fmt.Errorf("invalid key type %T", key)
		}
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: key, Value: val})
	}
	if err := p.literal("}"); err != nil {
		return nil, err
	}
	return entries, nil
}

// normalize turns an array keyed 0..n-1 in order into a plain list,
// matching how list-shaped PHP arrays are meant to be read.
func normalize(entries []Entry) any {
	for i, e := range entries {
		if k, ok := e.Key.(int); !ok || k != i {
			return Map(entries)
		}
	}
	list := make([]any, len(entries))
	for i, e := range entries {
		list[i] = e.Value
	}
	return list
}

func (p *parser) literal(want string) error {
	if !strings.HasPrefix(p.src[p.pos:], want) {
		return fmt.Errorf("expected %q at %d", want, p.pos)
	}
	p.pos += len(want)
	return nil
}

// until consumes up to (and including) the next occurrence of sep,
// returning the consumed text without it.
func (p *parser) until(sep byte) (string, error) {
	idx := strings.IndexByte(p.src[p.pos:], sep)
	if idx < 0 {
		return "", fmt.Errorf("missing %q after %d", sep, p.pos)
	}
	s := p.src[p.pos : p.pos+idx]
	p.pos += idx + 1
	return s, nil
}

func (p *parser) length() (int, error) {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, fmt.Errorf("expected length at %d", start)
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, err
	}
	return n, nil
}
