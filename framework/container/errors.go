package container

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Sentinels matched with errors.Is against the typed errors below.
var (
	ErrArgument      = errors.New("container: invalid definition")
	ErrNotFound      = errors.New("container: definition not found")
	ErrInstantiation = errors.New("container: instantiation failed")
	ErrCycle         = errors.New("container: circular reference")
)

// ArgumentError is returned by Register/Set when a definition is malformed.
// Field names the offending key of the definition shape: "class",
// "constructor_args", "dependencies", "public" or "alias".
type ArgumentError struct {
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("container: invalid %q: %s", e.Field, e.Reason)
}

func (e *ArgumentError) Is(target error) bool { return target == ErrArgument }

// NotFoundError is returned when an alias has no definition.
type NotFoundError struct {
	Alias string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("container: no definition registered for [%s]", e.Alias)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InstantiationError wraps a failure raised by a Constructor or an Extender.
// The underlying error is reachable through Unwrap.
type InstantiationError struct {
	Alias string
	Class string
	Err   error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("container: building [%s] (%s): %v", e.Alias, e.Class, e.Err)
}

func (e *InstantiationError) Unwrap() error { return e.Err }

func (e *InstantiationError) Is(target error) bool { return target == ErrInstantiation }

// CycleError is returned when an alias is reached again while it is still
// being resolved. Chain starts and ends with the same alias.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "container: circular reference: " + strings.Join(e.Chain, " -> ")
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// newCycleError cuts stack at the first occurrence of alias so the chain only
// contains the loop itself.
func newCycleError(stack []string, alias string) *CycleError {
	start := 0
	for i, s := range stack {
		if s == alias {
			start = i
			break
		}
	}
	chain := make([]string, 0, len(stack)-start+1)
	chain = append(chain, stack[start:]...)
	chain = append(chain, alias)
	return &CycleError{Chain: chain}
}

// TypeError is returned by the generic Resolve helper when the resolved
// instance is not of the requested type.
type TypeError struct {
	Alias string
	Want  string
	Got   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("container: [%s] resolved to %s, not %s", e.Alias, e.Got, e.Want)
}
