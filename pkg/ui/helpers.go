package ui

import "fmt"

// If returns the element if condition is true, nil otherwise.
func If(condition bool, e *Element) *Element {
	if condition {
		return e
	}
	return nil
}

// IfElse returns the first element if condition is true, else the second.
func IfElse(condition bool, ifTrue, ifFalse *Element) *Element {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If with lazy evaluation; fn only runs when condition holds.
func When(condition bool, fn func() *Element) *Element {
	if condition {
		return fn()
	}
	return nil
}

// Unless returns the element if condition is false.
func Unless(condition bool, e *Element) *Element {
	if !condition {
		return e
	}
	return nil
}

// Range maps a slice to elements, dropping nil results.
func Range[T any](items []T, fn func(item T, index int) *Element) []*Element {
	result := make([]*Element, 0, len(items))
	for i, item := range items {
		if e := fn(item, i); e != nil {
			result = append(result, e)
		}
	}
	return result
}

// Repeat creates n elements using the given function.
func Repeat(n int, fn func(i int) *Element) []*Element {
	if n <= 0 {
		return nil
	}
	result := make([]*Element, 0, n)
	for i := 0; i < n; i++ {
		if e := fn(i); e != nil {
			result = append(result, e)
		}
	}
	return result
}

// Key creates the identity-key attribute for keyed reconciliation.
func Key(key any) Attr {
	return Attr{Key: PropKey, Value: fmt.Sprintf("%v", key)}
}

// Nothing returns nil, for explicit conditional holes.
func Nothing() *Element { return nil }
