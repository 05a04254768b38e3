package network

import (
	"errors"
	"sort"
	"strings"
)

// Wire format errors reported by Decode.
var (
	ErrMissingBraces      = errors.New("message must start with '{' and end with '}'")
	ErrMissingQuote       = errors.New("expected a double-quoted string")
	ErrUnterminatedString = errors.New("unterminated quoted string")
	ErrMissingColon       = errors.New("expected ':' after key")
	ErrMissingComma       = errors.New("expected ',' between entries")
	ErrUnclosedObject     = errors.New("unterminated nested object")
	ErrNestedObject       = errors.New("nested objects may only contain string values")
)

// Encode serializes msg into a single wire line. The type is written
// first, then the flat fields in sorted key order, then the nested
// objects in sorted key order, so equal messages encode identically.
func Encode(msg *Message) string {
	var b strings.Builder
	b.WriteByte('{')
	b.WriteString(`"type":"`)
	b.WriteString(string(msg.Type))
	b.WriteByte('"')

	for _, key := range sortedKeys(msg.Fields) {
		if key == "type" {
			continue
		}
		b.WriteString(`,"`)
		b.WriteString(key)
		b.WriteString(`":"`)
		b.WriteString(msg.Fields[key])
		b.WriteByte('"')
	}

	objectKeys := make([]string, 0, len(msg.Objects))
	for key := range msg.Objects {
		if key != "type" {
			objectKeys = append(objectKeys, key)
		}
	}
	sort.Strings(objectKeys)
	for _, key := range objectKeys {
		b.WriteString(`,"`)
		b.WriteString(key)
		b.WriteString(`":{`)
		for i, nested := range sortedKeys(msg.Objects[key]) {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(nested)
			b.WriteString(`":"`)
			b.WriteString(msg.Objects[key][nested])
			b.WriteByte('"')
		}
		b.WriteByte('}')
	}

	b.WriteByte('}')
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Decode parses one wire line into a Message. Malformed input yields
// an error instead of a partially decoded message. A frame without a
// "type" entry decodes with an empty Type; rejecting it is the
// caller's call.
func Decode(line string) (*Message, error) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 2 || trimmed[0] != '{' || trimmed[len(trimmed)-1] != '}' {
		return nil, ErrMissingBraces
	}

	msg := &Message{
		Fields:  make(map[string]string),
		Objects: make(map[string]map[string]string),
	}

	s := &frameScanner{input: trimmed[1 : len(trimmed)-1]}
	for {
		s.skipSpaces()
		if s.done() {
			return msg, nil
		}

		key, err := s.readQuoted()
		if err != nil {
			return nil, err
		}
		s.skipSpaces()
		if s.done() || s.next() != ':' {
			return nil, ErrMissingColon
		}
		s.skipSpaces()
		if s.done() {
			return nil, ErrMissingQuote
		}

		switch s.peek() {
		case '"':
			value, err := s.readQuoted()
			if err != nil {
				return nil, err
			}
			if key == "type" {
				msg.Type = MessageType(value)
			} else {
				msg.Fields[key] = value
			}
		case '{':
			obj, err := s.readObject()
			if err != nil {
				return nil, err
			}
			msg.Objects[key] = obj
		default:
			return nil, ErrMissingQuote
		}

		s.skipSpaces()
		if s.done() {
			return msg, nil
		}
		if s.next() != ',' {
			return nil, ErrMissingComma
		}
	}
}

// frameScanner walks the byte content between a frame's outer braces.
type frameScanner struct {
	input string
	pos   int
}

func (s *frameScanner) done() bool {
	return s.pos >= len(s.input)
}

func (s *frameScanner) peek() byte {
	return s.input[s.pos]
}

func (s *frameScanner) next() byte {
	b := s.input[s.pos]
	s.pos++
	return b
}

func (s *frameScanner) skipSpaces() {
	for !s.done() && (s.peek() == ' ' || s.peek() == '\t') {
		s.pos++
	}
}

// readQuoted consumes a double-quoted string and returns its content.
// There is no escaping; the string runs to the next double quote.
func (s *frameScanner) readQuoted() (string, error) {
	if s.done() || s.peek() != '"' {
		return "", ErrMissingQuote
	}
	s.pos++

	end := strings.IndexByte(s.input[s.pos:], '"')
	if end < 0 {
		return "", ErrUnterminatedString
	}
	value := s.input[s.pos : s.pos+end]
	s.pos += end + 1
	return value, nil
}

// readObject consumes a nested {"k":"v",...} object. Objects nest one
// level only; an object value inside an object is an error.
func (s *frameScanner) readObject() (map[string]string, error) {
	s.pos++ // consume '{'
	obj := make(map[string]string)

	for {
		s.skipSpaces()
		if s.done() {
			return nil, ErrUnclosedObject
		}
		if s.peek() == '}' {
			s.pos++
			return obj, nil
		}

		key, err := s.readQuoted()
		if err != nil {
			return nil, err
		}
		s.skipSpaces()
		if s.done() || s.next() != ':' {
			return nil, ErrMissingColon
		}
		s.skipSpaces()
		if s.done() {
			return nil, ErrMissingQuote
		}
		if s.peek() == '{' {
			return nil, ErrNestedObject
		}

		value, err := s.readQuoted()
		if err != nil {
			return nil, err
		}
		obj[key] = value

		s.skipSpaces()
		if s.done() {
			return nil, ErrUnclosedObject
		}
		switch s.peek() {
		case ',':
			s.pos++
		case '}':
			// handled at the top of the loop
		default:
			return nil, ErrMissingComma
		}
	}
}
