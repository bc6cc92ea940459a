package container_test

import (
	"errors"
	"testing"

	"github.com/km-arc/go-container/framework/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Normalize ─────────────────────────────────────────────────────────────────

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{`\Foo/Bar`, "foobar"},
		{"foo/bar", "foobar"},
		{"  KTable  ", "ktable"},
		{`\DependencyInjection\Kitchen`, "dependencyinjectionkitchen"},
		{"/ a", "a"},
		{"a /", "a"},
		{"", ""},
		{"///", ""},
		{"Mixed Case", "mixed case"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, container.Normalize(tt.raw))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`\Foo/Bar`, " / x / ", "\t\\A\n", "ÄBC", "a\\ /b", "  ", "İstanbul", "k/t/a/b/l/e",
	}
	for _, in := range inputs {
		once := container.Normalize(in)
		assert.Equal(t, once, container.Normalize(once), "input %q", in)
	}
}

// ── Arg ───────────────────────────────────────────────────────────────────────

func TestArg_Literal(t *testing.T) {
	t.Parallel()

	a := container.Literal("$KTable")
	assert.False(t, a.IsRef(), "a string starting with $ is still a literal")
	assert.Equal(t, "$KTable", a.Value())
	assert.Empty(t, a.Alias())
}

func TestArg_Ref_NormalizesAlias(t *testing.T) {
	t.Parallel()

	a := container.Ref(`\K/Table `)
	assert.True(t, a.IsRef())
	assert.Equal(t, "ktable", a.Alias())
	assert.Nil(t, a.Value())
	assert.Equal(t, "ref(ktable)", a.String())
}

// ── ParseShape ────────────────────────────────────────────────────────────────

func TestParseShape_Full(t *testing.T) {
	t.Parallel()

	def, err := container.ParseShape(map[string]any{
		"class":            "Kitchen",
		"constructor_args": []any{container.Ref("KTable"), 3, "x"},
		"dependencies":     map[string]any{"table": "KTable"},
		"public":           true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Kitchen", def.Class)
	require.Len(t, def.Args, 3)
	assert.True(t, def.Args[0].IsRef())
	assert.Equal(t, 3, def.Args[1].Value())
	assert.Equal(t, "x", def.Args[2].Value())
	assert.Equal(t, map[string]string{"table": "KTable"}, def.Dependencies)
	assert.True(t, def.Shared)
}

func TestParseShape_TypedSlices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args any
		want []any
	}{
		{"ints", []int{120, 200, 80}, []any{120, 200, 80}},
		{"strings", []string{"a", "b"}, []any{"a", "b"}},
		{"array", [2]float64{1.5, 2}, []any{1.5, 2.0}},
		{"refs", []container.Arg{container.Ref("x")}, nil},
		{"empty", []int{}, []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := container.ParseShape(map[string]any{"class": "K", "constructor_args": tt.args})
			require.NoError(t, err)
			if tt.want == nil {
				require.Len(t, def.Args, 1)
				assert.True(t, def.Args[0].IsRef())
				return
			}
			got := make([]any, len(def.Args))
			for i, a := range def.Args {
				assert.False(t, a.IsRef())
				got[i] = a.Value()
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSet_TypedSliceResolves(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t)
	c.MustSet("KTable", map[string]any{
		"class":            "KitchenTable",
		"constructor_args": []int{120, 200, 80},
	})

	table := container.MustResolve[*kitchenTable](c, "ktable")
	assert.Equal(t, map[string]int{"w": 120, "h": 80, "l": 200}, table.Dimensions())
}

func TestParseShape_Defaults(t *testing.T) {
	t.Parallel()

	def, err := container.ParseShape(map[string]any{"class": "Kitchen"})
	require.NoError(t, err)
	assert.Empty(t, def.Args)
	assert.Empty(t, def.Dependencies)
	assert.False(t, def.Shared)
}

func TestParseShape_AcceptsTypedArgsAndDeps(t *testing.T) {
	t.Parallel()

	def, err := container.ParseShape(map[string]any{
		"class":            "Kitchen",
		"constructor_args": []container.Arg{container.Literal(1)},
		"dependencies":     map[string]string{"a": "b"},
	})
	require.NoError(t, err)
	assert.Len(t, def.Args, 1)
	assert.Equal(t, "b", def.Dependencies["a"])
}

func TestParseShape_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		shape map[string]any
		field string
	}{
		{"missing class", map[string]any{}, "class"},
		{"class not string", map[string]any{"class": 123}, "class"},
		{"args not list", map[string]any{"class": "K", "constructor_args": "nope"}, "constructor_args"},
		{"args map", map[string]any{"class": "K", "constructor_args": map[string]int{"w": 1}}, "constructor_args"},
		{"args scalar", map[string]any{"class": "K", "constructor_args": 120}, "constructor_args"},
		{"deps not map", map[string]any{"class": "K", "dependencies": []string{"a"}}, "dependencies"},
		{"deps value not string", map[string]any{"class": "K", "dependencies": map[string]any{"a": 1}}, "dependencies"},
		{"public not bool", map[string]any{"class": "K", "public": "yes"}, "public"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := container.ParseShape(tt.shape)
			require.Error(t, err)

			var argErr *container.ArgumentError
			require.True(t, errors.As(err, &argErr), "got %T", err)
			assert.Equal(t, tt.field, argErr.Field)
			assert.ErrorIs(t, err, container.ErrArgument)
		})
	}
}
