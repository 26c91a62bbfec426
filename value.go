package logwriter

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"
)

const (
	// maxValueDepth bounds nesting of context values.
	maxValueDepth = 64
	// maxValueNodes bounds the number of values visited for one conversion or one record context.
	maxValueNodes = 1 << 16
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindUint
	KindFloat
	KindBool
	KindMap
	KindList
	kindInvalid // produced by AnyValue for structures it cannot represent
)

// Value is a context value: null, string, number, bool, ordered map or list.
// The zero Value is null.
type Value struct {
	kind   Kind
	str    string
	num    uint64
	fields []Field
	items  []Value
}

// Field is one key of a context mapping.
type Field struct {
	Key   string
	Value Value
}

func StringValue(s string) Value { return Value{kind: KindString, str: s} }
func Int64Value(i int64) Value { return Value{kind: KindInt, num: uint64(i)} }
func Uint64Value(u uint64) Value { return Value{kind: KindUint, num: u} }
func Float64Value(f float64) Value { return Value{kind: KindFloat, num: math.Float64bits(f)} }
func NullValue() Value { return Value{} }

func BoolValue(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

// MapValue returns an ordered mapping. Keys keep the given order.
func MapValue(fields ...Field) Value { return Value{kind: KindMap, fields: fields} }

// ListValue returns an ordered sequence.
func ListValue(items ...Value) Value { return Value{kind: KindList, items: items} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) Str() string { return v.str }
func (v Value) Int64() int64 { return int64(v.num) }
func (v Value) Uint64() uint64 { return v.num }
func (v Value) Float64() float64 { return math.Float64frombits(v.num) }
func (v Value) Bool() bool { return v.num == 1 }
func (v Value) Fields() []Field { return v.fields }
func (v Value) Items() []Value { return v.items }
func (v Value) IsNull() bool { return v.kind == KindNull }

func invalidValue(reason string) Value { return Value{kind: kindInvalid, str: reason} }

// Field constructors
func String(key, value string) Field { return Field{key, StringValue(value)} }
func Int(key string, value int) Field { return Field{key, Int64Value(int64(value))} }
func Int64(key string, value int64) Field { return Field{key, Int64Value(value)} }
func Uint64(key string, value uint64) Field { return Field{key, Uint64Value(value)} }
func Float64(key string, value float64) Field { return Field{key, Float64Value(value)} }
func Bool(key string, value bool) Field { return Field{key, BoolValue(value)} }
func Null(key string) Field { return Field{key, NullValue()} }
func Map(key string, fields ...Field) Field { return Field{key, MapValue(fields...)} }
func List(key string, items ...Value) Field { return Field{key, ListValue(items...)} }
func Any(key string, value any) Field { return Field{key, AnyValue(value)} }

// FieldsFromMap converts a Go map into fields sorted by key, since Go maps carry no order.
func FieldsFromMap(m map[string]any) []Field {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, Any(k, m[k]))
	}
	return fields
}

// AnyValue converts an arbitrary Go value into a Value.
// Errors, fmt.Stringer and time.Time become strings; slices and arrays become lists;
// string-keyed maps become maps with sorted keys; pointers are followed.
// Nil pointers become null and anything else is rendered as text.
// A map, slice or pointer that refers back to one of its parents is replaced by an
// invalid value, so the record context carrying it is dropped when written.
func AnyValue(v any) Value {
	var c converter
	return c.value(v, 0)
}

// visitKey identifies a map, slice or pointer on the current conversion path.
type visitKey struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// converter holds the state of one AnyValue call.
type converter struct {
	visiting map[visitKey]struct{}
	nodes    int
}

func (c *converter) value(v any, depth int) Value {
	c.nodes++
	if c.nodes > maxValueNodes {
		return invalidValue("value too large")
	}
	if depth > maxValueDepth {
		return invalidValue("value nested too deeply")
	}

	switch val := v.(type) {
	case nil:
		return NullValue()
	case Value:
		return val
	case Field:
		return MapValue(val)
	case []Field:
		return MapValue(val...)
	case string:
		return StringValue(val)
	case bool:
		return BoolValue(val)
	case int:
		return Int64Value(int64(val))
	case int8:
		return Int64Value(int64(val))
	case int16:
		return Int64Value(int64(val))
	case int32:
		return Int64Value(int64(val))
	case int64:
		return Int64Value(val)
	case uint:
		return Uint64Value(uint64(val))
	case uint8:
		return Uint64Value(uint64(val))
	case uint16:
		return Uint64Value(uint64(val))
	case uint32:
		return Uint64Value(uint64(val))
	case uint64:
		return Uint64Value(val)
	case float32:
		return Float64Value(float64(val))
	case float64:
		return Float64Value(val)
	case time.Time:
		return StringValue(val.Format(time.RFC3339))
	case error:
		if isNilRef(val) {
			return NullValue()
		}
		return StringValue(safeString(val, val.Error))
	case fmt.Stringer:
		if isNilRef(val) {
			return NullValue()
		}
		return StringValue(safeString(val, val.String))
	}

	return c.reflectValue(reflect.ValueOf(v), depth)
}

// enter marks a reference value as being converted. It reports false when rv is
// already on the current path.
func (c *converter) enter(rv reflect.Value) (visitKey, bool) {
	key := visitKey{typ: rv.Type(), ptr: rv.Pointer()}
	if rv.Kind() == reflect.Slice {
		key.len = rv.Len()
	}
	if c.visiting == nil {
		c.visiting = make(map[visitKey]struct{})
	}
	if _, ok := c.visiting[key]; ok {
		return key, false
	}
	c.visiting[key] = struct{}{}
	return key, true
}

// reflectValue handles slices, maps and pointers not covered by the type switch.
func (c *converter) reflectValue(rv reflect.Value, depth int) Value {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return NullValue()
		}
		key, ok := c.enter(rv)
		if !ok {
			return invalidValue("cyclic value")
		}
		defer delete(c.visiting, key)
		return c.value(rv.Elem().Interface(), depth+1)
	case reflect.Slice:
		if rv.IsNil() {
			return NullValue()
		}
		key, ok := c.enter(rv)
		if !ok {
			return invalidValue("cyclic value")
		}
		defer delete(c.visiting, key)
		return c.list(rv, depth)
	case reflect.Array:
		return c.list(rv, depth)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return NullValue()
		}
		key, ok := c.enter(rv)
		if !ok {
			return invalidValue("cyclic value")
		}
		defer delete(c.visiting, key)

		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			elem := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
			fields = append(fields, Field{k, c.value(elem.Interface(), depth+1)})
		}
		return MapValue(fields...)
	case reflect.String:
		return StringValue(rv.String())
	case reflect.Bool:
		return BoolValue(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int64Value(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint64Value(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float64Value(rv.Float())
	}
	return StringValue(stringifyMessage(rv.Interface()))
}

func (c *converter) list(rv reflect.Value, depth int) Value {
	items := make([]Value, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		items = append(items, c.value(rv.Index(i).Interface(), depth+1))
	}
	return ListValue(items...)
}
