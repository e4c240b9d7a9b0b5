package common

import (
	"fmt"
	"strings"
)

type Optional[T any] struct {
	Value     T
	IsPresent bool
}

func (p *Optional[T]) String() string {
	if !p.IsPresent {
		return "[-]"
	}
	return fmt.Sprintf("[%v]", p.Value)
}

func NewOptional[T any](value T, isPresent bool) Optional[T] {
	return Optional[T]{Value: value, IsPresent: isPresent}
}

// OptionalText is present only when the trimmed value is not blank.
func OptionalText(raw string) Optional[string] {
	value := strings.TrimSpace(raw)
	return NewOptional(value, value != "")
}
