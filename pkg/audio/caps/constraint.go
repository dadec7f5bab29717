// ABOUTME: Field constraints used by format filters
// ABOUTME: Closed union of fixed values, enumerated lists and inclusive ranges
package caps

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the shape of a Constraint
type Kind int

const (
	// KindEmpty admits no value. It is the zero Constraint.
	KindEmpty Kind = iota
	KindFixed
	KindList
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindList:
		return "list"
	case KindRange:
		return "range"
	default:
		return "empty"
	}
}

// Constraint is the set of admissible values of one integer field.
// Constraints are immutable values.
type Constraint struct {
	kind     Kind
	values   []int // sorted, unique; one value for KindFixed
	min, max int
}

// Fixed admits exactly v
func Fixed(v int) Constraint {
	return Constraint{kind: KindFixed, values: []int{v}}
}

// List admits any of vs. Order and duplicates do not matter; a single
// distinct value collapses to Fixed and no values to the empty constraint.
func List(vs ...int) Constraint {
	values := slices.Clone(vs)
	slices.Sort(values)
	values = slices.Compact(values)

	switch len(values) {
	case 0:
		return Constraint{}
	case 1:
		return Fixed(values[0])
	default:
		return Constraint{kind: KindList, values: values}
	}
}

// Range admits min..max inclusive
func Range(min, max int) Constraint {
	switch {
	case min > max:
		return Constraint{}
	case min == max:
		return Fixed(min)
	default:
		return Constraint{kind: KindRange, min: min, max: max}
	}
}

// Bool admits a single boolean, carried as 1 or 0
func Bool(b bool) Constraint {
	return Fixed(BoolInt(b))
}

// AnyBool admits both true and false
func AnyBool() Constraint {
	return List(1, 0)
}

// BoolInt maps true to 1 and false to 0
func BoolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Kind returns the constraint's shape
func (c Constraint) Kind() Kind {
	return c.kind
}

// IsEmpty reports whether c admits no value
func (c Constraint) IsEmpty() bool {
	return c.kind == KindEmpty
}

// IsFixed reports whether c admits exactly one value
func (c Constraint) IsFixed() bool {
	return c.kind == KindFixed
}

// Value returns the single admitted value of a fixed constraint
func (c Constraint) Value() (int, bool) {
	if c.kind != KindFixed {
		return 0, false
	}
	return c.values[0], true
}

// Values returns the admitted values of a fixed or list constraint.
// Ranges and the empty constraint return nil.
func (c Constraint) Values() []int {
	if c.kind == KindFixed || c.kind == KindList {
		return slices.Clone(c.values)
	}
	return nil
}

// Min returns the smallest admitted value
func (c Constraint) Min() int {
	switch c.kind {
	case KindRange:
		return c.min
	case KindFixed, KindList:
		return c.values[0]
	default:
		return 0
	}
}

// Max returns the largest admitted value
func (c Constraint) Max() int {
	switch c.kind {
	case KindRange:
		return c.max
	case KindFixed, KindList:
		return c.values[len(c.values)-1]
	default:
		return 0
	}
}

// Contains reports whether v is admitted
func (c Constraint) Contains(v int) bool {
	switch c.kind {
	case KindRange:
		return v >= c.min && v <= c.max
	case KindFixed, KindList:
		_, found := slices.BinarySearch(c.values, v)
		return found
	default:
		return false
	}
}

// Intersect returns the values admitted by both c and o
func (c Constraint) Intersect(o Constraint) Constraint {
	switch {
	case c.kind == KindEmpty || o.kind == KindEmpty:
		return Constraint{}
	case c.kind == KindRange && o.kind == KindRange:
		return Range(max(c.min, o.min), min(c.max, o.max))
	case c.kind == KindRange:
		return o.filter(c.Contains)
	default:
		return c.filter(o.Contains)
	}
}

func (c Constraint) filter(keep func(int) bool) Constraint {
	var out []int
	for _, v := range c.values {
		if keep(v) {
			out = append(out, v)
		}
	}
	return List(out...)
}

// Nearest returns the admitted value closest to target. Ties go to the
// smaller value. It returns false only for the empty constraint.
func (c Constraint) Nearest(target int) (int, bool) {
	switch c.kind {
	case KindRange:
		return min(max(target, c.min), c.max), true
	case KindFixed, KindList:
		best := c.values[0]
		for _, v := range c.values[1:] {
			if absDiff(v, target) < absDiff(best, target) {
				best = v
			}
		}
		return best, true
	default:
		return 0, false
	}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// Equal reports whether c and o admit the same values in the same shape
func (c Constraint) Equal(o Constraint) bool {
	if c.kind != o.kind {
		return false
	}
	if c.kind == KindRange {
		return c.min == o.min && c.max == o.max
	}
	return slices.Equal(c.values, o.values)
}

func (c Constraint) String() string {
	switch c.kind {
	case KindFixed:
		return strconv.Itoa(c.values[0])
	case KindList:
		parts := make([]string, len(c.values))
		for i, v := range c.values {
			parts[i] = strconv.Itoa(v)
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case KindRange:
		return fmt.Sprintf("[ %d, %d ]", c.min, c.max)
	default:
		return "EMPTY"
	}
}
