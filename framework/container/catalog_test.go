package container_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/km-arc/go-container/framework/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Catalog ───────────────────────────────────────────────────────────────────

func TestCatalog_AddAndLookup(t *testing.T) {
	t.Parallel()

	cat := container.NewCatalog().
		Add(`\App\KitchenTable`, container.Func(newKitchenTable)).
		Add("kitchen", container.Func(newKitchen))

	_, ok := cat.Lookup("appkitchentable")
	assert.True(t, ok, "class names are normalized")

	_, ok = cat.Lookup("Kitchen")
	assert.True(t, ok)

	_, ok = cat.Lookup("Oven")
	assert.False(t, ok)

	assert.Equal(t, []string{"appkitchentable", "kitchen"}, cat.Classes())
}

func TestCatalog_AddPanics(t *testing.T) {
	t.Parallel()

	cat := container.NewCatalog()
	assert.Panics(t, func() { cat.Add("", container.Func(newKitchen)) })
	assert.Panics(t, func() { cat.Add("x", nil) })
}

// ── Func ──────────────────────────────────────────────────────────────────────

func TestFunc_CallsConstructor(t *testing.T) {
	t.Parallel()

	inst, err := container.Func(newKitchenTable)([]any{1, 2, 3})
	require.NoError(t, err)

	table, ok := inst.(*kitchenTable)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"w": 1, "h": 3, "l": 2}, table.Dimensions())
}

func TestFunc_ArityMismatch(t *testing.T) {
	t.Parallel()

	ctor := container.Func(newKitchenTable)

	_, err := ctor([]any{1, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 3 arguments, got 2")

	_, err = ctor([]any{1, 2, 3, 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 3 arguments, got 4")
}

func TestFunc_TypeMismatch(t *testing.T) {
	t.Parallel()

	_, err := container.Func(newKitchenTable)([]any{1, "two", 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "argument 1")
	assert.Contains(t, err.Error(), "cannot use string as int")
}

func TestFunc_NoNumericConversion(t *testing.T) {
	t.Parallel()

	ctor := container.Func(func(n int64) int64 { return n })
	_, err := ctor([]any{42})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot use int as int64")

	got, err := ctor([]any{int64(42)})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestFunc_NilArguments(t *testing.T) {
	t.Parallel()

	inst, err := container.Func(newKitchen)([]any{nil})
	require.NoError(t, err)
	assert.Nil(t, inst.(*kitchen).table)

	_, err = container.Func(newKitchenTable)([]any{nil, 1, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot use nil as int")
}

func TestFunc_ErrorReturn(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	ctor := container.Func(func(fail bool) (*node, error) {
		if fail {
			return nil, boom
		}
		return &node{name: "ok"}, nil
	})

	_, err := ctor([]any{true})
	assert.ErrorIs(t, err, boom)

	inst, err := ctor([]any{false})
	require.NoError(t, err)
	assert.Equal(t, "ok", inst.(*node).name)
}

// codeError is an error implemented on a struct value.
type codeError struct{ code int }

func (e codeError) Error() string { return fmt.Sprintf("code %d", e.code) }

func TestFunc_ValueErrorReturn(t *testing.T) {
	t.Parallel()

	ctor := container.Func(func(code int) (string, codeError) {
		if code != 0 {
			return "", codeError{code: code}
		}
		return "ok", codeError{}
	})

	inst, err := ctor([]any{0})
	require.NoError(t, err)
	assert.Equal(t, "ok", inst)

	_, err = ctor([]any{3})
	require.Error(t, err)
	assert.Equal(t, codeError{code: 3}, err)
}

func TestFunc_Variadic(t *testing.T) {
	t.Parallel()

	ctor := container.Func(newNode)

	inst, err := ctor([]any{"solo"})
	require.NoError(t, err)
	assert.Empty(t, inst.(*node).deps)

	inst, err = ctor([]any{"many", 1, "two"})
	require.NoError(t, err)
	assert.Equal(t, []any{1, "two"}, inst.(*node).deps)

	_, err = ctor(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 1 arguments, got 0")
}

func TestFunc_InterfaceParameter(t *testing.T) {
	t.Parallel()

	ctor := container.Func(func(s fmt.Stringer) string { return s.String() })

	inst, err := ctor([]any{container.Ref("abc")})
	require.NoError(t, err)
	assert.Equal(t, "ref(abc)", inst)
}

func TestFunc_RejectsNonConstructors(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { container.Func(42) })
	assert.Panics(t, func() { container.Func(func() {}) })
	assert.Panics(t, func() { container.Func(func() (int, int) { return 0, 0 }) })
	assert.Panics(t, func() { container.Func(func() (int, int, error) { return 0, 0, nil }) })
}
