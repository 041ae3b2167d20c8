package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// enumFlag is a string flag restricted to a fixed set of values.
type enumFlag[K ~string] struct {
	value   *K
	allowed []K
}

var _ pflag.Value = (*enumFlag[string])(nil)

func newEnumFlag[K ~string](value *K, allowed []K) *enumFlag[K] {
	return &enumFlag[K]{value: value, allowed: allowed}
}

func (f *enumFlag[K]) String() string {
	if f.value == nil {
		return ""
	}
	return string(*f.value)
}

func (f *enumFlag[K]) Set(s string) error {
	v := K(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(f.allowed, v) {
		names := make([]string, len(f.allowed))
		for i, a := range f.allowed {
			names[i] = string(a)
		}
		return fmt.Errorf("must be one of %s", strings.Join(names, ", "))
	}
	*f.value = v
	return nil
}

func (f *enumFlag[K]) Type() string {
	return "string"
}
