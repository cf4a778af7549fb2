package enums

import "fmt"

// QuantityAction selects the direction of a cart quantity update.
type QuantityAction string

const (
	QuantityActionIncrement QuantityAction = "increment"
	QuantityActionDecrement QuantityAction = "decrement"
)

var validQuantityActions = []QuantityAction{
	QuantityActionIncrement,
	QuantityActionDecrement,
}

// String implements fmt.Stringer.
func (a QuantityAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known QuantityAction.
func (a QuantityAction) IsValid() bool {
	for _, candidate := range validQuantityActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseQuantityAction converts raw input into a QuantityAction.
func ParseQuantityAction(value string) (QuantityAction, error) {
	for _, candidate := range validQuantityActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quantity action %q", value)
}
