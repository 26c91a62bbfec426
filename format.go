package logwriter

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
	"unicode/utf8"
)

// TimestampFormat is the layout of the record timestamp, local time, second resolution.
const TimestampFormat = "2006-01-02 15:04:05"

const hex = "0123456789abcdef"

// serializer builds one log line in a reusable buffer
type serializer struct {
	buf   []byte
	nodes int
}

// newSerializer creates a serializer instance for a single log call
func newSerializer() *serializer {
	return &serializer{
		buf: make([]byte, 0, 256),
	}
}

// reset clears the serializer buffer for reuse
func (s *serializer) reset() {
	s.buf = s.buf[:0]
	s.nodes = 0
}

// serialize composes "[timestamp] [level] message{ context}\n".
// A context that cannot be encoded is left out and the error is returned with the line.
func (s *serializer) serialize(ts time.Time, level, message string, fields []Field) ([]byte, error) {
	s.reset()

	s.buf = append(s.buf, '[')
	s.buf = ts.AppendFormat(s.buf, TimestampFormat)
	s.buf = append(s.buf, "] ["...)
	s.buf = append(s.buf, level...)
	s.buf = append(s.buf, "] "...)
	s.buf = append(s.buf, message...)

	var err error
	if len(fields) > 0 {
		mark := len(s.buf)
		s.buf = append(s.buf, ' ')
		if err = s.writeJSONObject(fields, 0); err != nil {
			s.buf = s.buf[:mark]
		}
	}

	s.buf = append(s.buf, '\n')
	return s.buf, err
}

// writeJSONObject writes fields as a single-line JSON object in the given key order
func (s *serializer) writeJSONObject(fields []Field, depth int) error {
	if depth > maxValueDepth {
		return errors.New("context nested too deeply")
	}
	s.buf = append(s.buf, '{')
	for i, f := range fields {
		if i > 0 {
			s.buf = append(s.buf, ',')
		}
		s.writeJSONString(f.Key)
		s.buf = append(s.buf, ':')
		if err := s.writeJSONValue(f.Value, depth+1); err != nil {
			return fmt.Errorf("key %q: %w", f.Key, err)
		}
	}
	s.buf = append(s.buf, '}')
	return nil
}

// writeJSONValue converts a Value to its JSON representation
func (s *serializer) writeJSONValue(v Value, depth int) error {
	if depth > maxValueDepth {
		return errors.New("context nested too deeply")
	}
	s.nodes++
	if s.nodes > maxValueNodes {
		return errors.New("context too large")
	}

	switch v.kind {
	case KindNull:
		s.buf = append(s.buf, "null"...)
	case KindString:
		s.writeJSONString(v.str)
	case KindInt:
		s.buf = strconv.AppendInt(s.buf, v.Int64(), 10)
	case KindUint:
		s.buf = strconv.AppendUint(s.buf, v.Uint64(), 10)
	case KindFloat:
		return s.writeJSONFloat(v.Float64())
	case KindBool:
		s.buf = strconv.AppendBool(s.buf, v.Bool())
	case KindMap:
		return s.writeJSONObject(v.fields, depth)
	case KindList:
		s.buf = append(s.buf, '[')
		for i, item := range v.items {
			if i > 0 {
				s.buf = append(s.buf, ',')
			}
			if err := s.writeJSONValue(item, depth+1); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		s.buf = append(s.buf, ']')
	default:
		if v.str != "" {
			return errors.New(v.str)
		}
		return fmt.Errorf("unsupported value kind %d", v.kind)
	}
	return nil
}

// writeJSONFloat uses the shortest representation, switching to exponent form
// for very small or very large magnitudes
func (s *serializer) writeJSONFloat(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("unsupported float value %v", f)
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s.buf = strconv.AppendFloat(s.buf, f, format, -1, 64)
	return nil
}

// writeJSONString appends a quoted JSON string. Forward slashes and non-ASCII
// characters are written as is; control characters are escaped so a record stays on one line.
func (s *serializer) writeJSONString(str string) {
	s.buf = append(s.buf, '"')
	for i := 0; i < len(str); {
		c := str[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"' || c == '\\':
				s.buf = append(s.buf, '\\', c)
			case c == '\n':
				s.buf = append(s.buf, '\\', 'n')
			case c == '\r':
				s.buf = append(s.buf, '\\', 'r')
			case c == '\t':
				s.buf = append(s.buf, '\\', 't')
			case c < 0x20 || c == 0x7f:
				s.buf = append(s.buf, '\\', 'u', '0', '0', hex[c>>4], hex[c&0xf])
			default:
				s.buf = append(s.buf, c)
			}
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(str[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			s.buf = append(s.buf, `\ufffd`...)
		case r == '\u2028' || r == '\u2029':
			s.buf = append(s.buf, '\\', 'u', '2', '0', '2', hex[r&0xf])
		default:
			s.buf = append(s.buf, str[i:i+size]...)
		}
		i += size
	}
	s.buf = append(s.buf, '"')
}

// stringifyMessage converts any type to its text representation, nil becomes empty
func stringifyMessage(msg any) string {
	switch m := msg.(type) {
	case nil:
		return ""
	case string:
		return m
	case []byte:
		return string(m)
	case error:
		return safeString(m, m.Error)
	case fmt.Stringer:
		return safeString(m, m.String)
	default:
		return fmt.Sprintf("%+v", m)
	}
}

// safeString calls a String or Error method of v, turning a panic into text the
// way fmt does: "<nil>" for a nil receiver, a %!PANIC marker otherwise.
func safeString(v any, fn func() string) (s string) {
	defer func() {
		if r := recover(); r != nil {
			if isNilRef(v) {
				s = "<nil>"
				return
			}
			s = fmt.Sprintf("%%!PANIC=%T method: %v", v, r)
		}
	}()
	return fn()
}

// isNilRef reports whether v holds a nil pointer, map, slice, func, chan or interface.
func isNilRef(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
