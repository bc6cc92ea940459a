package container

import (
	"fmt"
	"reflect"
	"strings"
)

// stripper removes path separators from identifiers.
var stripper = strings.NewReplacer("/", "", `\`, "")

// Normalize turns a raw identifier into an alias: separators are stripped,
// surrounding whitespace trimmed and the result lowercased.
//
//	Normalize(`\Foo/Bar`) == Normalize("foo/bar") == "foobar"
//
// Separators go first so that "/ a" cannot leave a leading space behind,
// which keeps Normalize idempotent.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(stripper.Replace(raw)))
}

// ── Constructor arguments ─────────────────────────────────────────────────────

// Arg is a positional constructor argument: either a literal passed through
// unchanged or a reference to another alias resolved before the enclosing
// definition is built.
type Arg struct {
	value any
	alias string
	ref   bool
}

// Literal wraps a value passed to the constructor as-is.
func Literal(v any) Arg { return Arg{value: v} }

// Ref refers to another definition by alias.
//
//	c.Register("Kitchen", container.Definition{
//	    Class:  "Kitchen",
//	    Args:   []container.Arg{container.Ref("KTable")},
//	    Shared: true,
//	})
func Ref(alias string) Arg { return Arg{alias: Normalize(alias), ref: true} }

// IsRef reports whether the argument references another alias.
func (a Arg) IsRef() bool { return a.ref }

// Alias returns the normalized referenced alias ("" for literals).
func (a Arg) Alias() string { return a.alias }

// Value returns the literal value (nil for references).
func (a Arg) Value() any { return a.value }

func (a Arg) String() string {
	if a.ref {
		return "ref(" + a.alias + ")"
	}
	return fmt.Sprintf("%v", a.value)
}

// ── Definition ────────────────────────────────────────────────────────────────

// Definition describes how to build a service.
type Definition struct {
	// Class names a constructor in the container's Catalog.
	Class string

	// Args are bound positionally to the constructor.
	Args []Arg

	// Dependencies is kept for named injection; resolution does not read it.
	Dependencies map[string]string

	// Shared instances are built once and reused for every lookup.
	Shared bool
}

// clone returns a copy whose slice and map are not shared with d.
func (d Definition) clone() Definition {
	out := d
	if d.Args != nil {
		out.Args = append([]Arg(nil), d.Args...)
	}
	if d.Dependencies != nil {
		out.Dependencies = make(map[string]string, len(d.Dependencies))
		for k, v := range d.Dependencies {
			out.Dependencies[k] = v
		}
	}
	return out
}

// Shape keys accepted by Set.
const (
	KeyClass           = "class"
	KeyConstructorArgs = "constructor_args"
	KeyDependencies    = "dependencies"
	KeyPublic          = "public"
)

// ParseShape validates a loosely typed definition, as accepted by Set, and
// converts it to a Definition.
//
// Elements of "constructor_args" that are already an Arg are kept; anything
// else becomes a Literal. There is no string sigil for references.
func ParseShape(shape map[string]any) (Definition, error) {
	var def Definition

	class, ok := shape[KeyClass].(string)
	if !ok {
		return def, &ArgumentError{Field: KeyClass, Reason: fmt.Sprintf("must be a string, got %T", shape[KeyClass])}
	}
	def.Class = class

	switch raw := shape[KeyConstructorArgs].(type) {
	case nil:
	case []Arg:
		def.Args = append([]Arg(nil), raw...)
	case []any:
		def.Args = make([]Arg, len(raw))
		for i, v := range raw {
			if a, ok := v.(Arg); ok {
				def.Args[i] = a
				continue
			}
			def.Args[i] = Literal(v)
		}
	default:
		list := reflect.ValueOf(raw)
		if list.Kind() != reflect.Slice && list.Kind() != reflect.Array {
			return def, &ArgumentError{Field: KeyConstructorArgs, Reason: fmt.Sprintf("must be a list, got %T", raw)}
		}
		def.Args = make([]Arg, list.Len())
		for i := range def.Args {
			v := list.Index(i).Interface()
			if a, ok := v.(Arg); ok {
				def.Args[i] = a
				continue
			}
			def.Args[i] = Literal(v)
		}
	}

	switch raw := shape[KeyDependencies].(type) {
	case nil:
	case map[string]string:
		def.Dependencies = make(map[string]string, len(raw))
		for k, v := range raw {
			def.Dependencies[k] = v
		}
	case map[string]any:
		def.Dependencies = make(map[string]string, len(raw))
		for k, v := range raw {
			s, ok := v.(string)
			if !ok {
				return def, &ArgumentError{Field: KeyDependencies, Reason: fmt.Sprintf("value for %q must be a string, got %T", k, v)}
			}
			def.Dependencies[k] = s
		}
	default:
		return def, &ArgumentError{Field: KeyDependencies, Reason: fmt.Sprintf("must be a map, got %T", raw)}
	}

	if raw, present := shape[KeyPublic]; present && raw != nil {
		shared, ok := raw.(bool)
		if !ok {
			return def, &ArgumentError{Field: KeyPublic, Reason: fmt.Sprintf("must be a bool, got %T", raw)}
		}
		def.Shared = shared
	}

	return def, nil
}
