package logwriter

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cyclicMap() map[string]any {
	m := map[string]any{"name": "loop"}
	m["self"] = m
	return m
}

// branchingCycle refers to itself from two keys.
func branchingCycle() map[string]any {
	m := map[string]any{}
	m["a"] = m
	m["b"] = m
	return m
}

// aliasedChain builds n levels of maps where each level holds the next one twice.
func aliasedChain(n int) map[string]any {
	root := map[string]any{"leaf": true}
	for i := 0; i < n; i++ {
		root = map[string]any{"left": root, "right": root}
	}
	return root
}

// within fails the test when fn does not return in time.
func within(t *testing.T, d time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("did not return within %v", d)
	}
}

type counter struct{ n int }

func (c *counter) String() string { return strconv.Itoa(c.n) }

type codeError struct{ code int }

func (e *codeError) Error() string { return fmt.Sprintf("code %d", e.code) }

type customLevel string

func TestAnyValue_Scalars(t *testing.T) {
	assert.Equal(t, KindNull, AnyValue(nil).Kind())
	assert.Equal(t, "x", AnyValue("x").Str())
	assert.Equal(t, int64(-3), AnyValue(int8(-3)).Int64())
	assert.Equal(t, uint64(7), AnyValue(uint16(7)).Uint64())
	assert.Equal(t, 1.5, AnyValue(float32(1.5)).Float64())
	assert.True(t, AnyValue(true).Bool())
	assert.False(t, AnyValue(false).Bool())
	assert.Equal(t, "boom", AnyValue(errors.New("boom")).Str())
	assert.Equal(t, "from stringer", AnyValue(stringer{}).Str())
	assert.Equal(t, "warn", AnyValue(customLevel("warn")).Str())

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "2024-01-02T03:04:05Z", AnyValue(ts).Str())
}

func TestAnyValue_Collections(t *testing.T) {
	v := AnyValue(map[string]any{
		"b": []any{1, "two", nil},
		"a": map[string]int{"z": 26, "y": 25},
	})
	require.Equal(t, KindMap, v.Kind())

	fields := v.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "b", fields[1].Key)

	inner := fields[0].Value.Fields()
	require.Len(t, inner, 2)
	assert.Equal(t, "y", inner[0].Key)
	assert.Equal(t, int64(25), inner[0].Value.Int64())

	items := fields[1].Value.Items()
	require.Len(t, items, 3)
	assert.Equal(t, KindInt, items[0].Kind())
	assert.Equal(t, KindString, items[1].Kind())
	assert.True(t, items[2].IsNull())

	assert.Equal(t, KindList, AnyValue([3]string{"a", "b", "c"}).Kind())
	assert.True(t, AnyValue([]int(nil)).IsNull())
}

func TestAnyValue_Pointers(t *testing.T) {
	n := 5
	assert.Equal(t, int64(5), AnyValue(&n).Int64())

	var nilPtr *int
	assert.True(t, AnyValue(nilPtr).IsNull())
}

func TestAnyValue_FieldsPassThrough(t *testing.T) {
	v := AnyValue([]Field{String("k", "v")})
	require.Equal(t, KindMap, v.Kind())
	assert.Equal(t, "k", v.Fields()[0].Key)

	same := StringValue("kept")
	assert.Equal(t, same, AnyValue(same))
}

func TestAnyValue_CycleBecomesInvalid(t *testing.T) {
	v := AnyValue(cyclicMap())
	require.Equal(t, KindMap, v.Kind())

	fields := v.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "loop", fields[0].Value.Str())
	assert.Equal(t, "self", fields[1].Key)
	assert.Equal(t, kindInvalid, fields[1].Value.Kind())
}

func TestAnyValue_BranchingCycle(t *testing.T) {
	var v Value
	within(t, 5*time.Second, func() { v = AnyValue(branchingCycle()) })

	require.Equal(t, KindMap, v.Kind())
	for _, f := range v.Fields() {
		assert.Equal(t, kindInvalid, f.Value.Kind(), f.Key)
	}

	var fields []Field
	within(t, 5*time.Second, func() { fields = FieldsFromMap(branchingCycle()) })
	require.Len(t, fields, 2)
	assert.Equal(t, KindMap, fields[0].Value.Kind())
}

func TestAnyValue_SelfReferencingSlice(t *testing.T) {
	s := make([]any, 2)
	s[0] = s
	s[1] = s

	var v Value
	within(t, 5*time.Second, func() { v = AnyValue(s) })
	require.Equal(t, KindList, v.Kind())
	for _, item := range v.Items() {
		assert.Equal(t, kindInvalid, item.Kind())
	}
}

func TestAnyValue_SharedValuesAreNotCycles(t *testing.T) {
	shared := map[string]any{"id": 1}
	v := AnyValue(map[string]any{"first": shared, "second": shared})

	for _, f := range v.Fields() {
		require.Equal(t, KindMap, f.Value.Kind(), f.Key)
		assert.Equal(t, int64(1), f.Value.Fields()[0].Value.Int64())
	}
}

func TestAnyValue_NodeBudget(t *testing.T) {
	var v Value
	within(t, 5*time.Second, func() { v = AnyValue(aliasedChain(40)) })
	require.Equal(t, KindMap, v.Kind())

	_, err := newSerializer().serialize(fixedTime, "INFO", "big", []Field{{"dag", v}})
	assert.Error(t, err)
}

func TestAnyValue_NilReceivers(t *testing.T) {
	var c *counter
	var e *codeError

	assert.NotPanics(t, func() {
		assert.True(t, AnyValue(c).IsNull())
		assert.True(t, AnyValue(e).IsNull())
		assert.True(t, Any("k", c).Value.IsNull())
	})

	fields := FieldsFromMap(map[string]any{"count": c, "err": e})
	require.Len(t, fields, 2)
	assert.True(t, fields[0].Value.IsNull())
	assert.True(t, fields[1].Value.IsNull())

	assert.Equal(t, "3", AnyValue(&counter{3}).Str())
	assert.Equal(t, "code 7", AnyValue(&codeError{7}).Str())
}

func TestFieldsFromMap_SortedKeys(t *testing.T) {
	fields := FieldsFromMap(map[string]any{"records": 42, "duration_ms": 150, "success": true})
	require.Len(t, fields, 3)
	assert.Equal(t, "duration_ms", fields[0].Key)
	assert.Equal(t, "records", fields[1].Key)
	assert.Equal(t, "success", fields[2].Key)
	assert.True(t, fields[2].Value.Bool())
}
