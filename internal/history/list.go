package history

import (
	"github.com/samber/lo"
	"github.com/stockhop/cli/pkg/stockcode"
)

// MaxEntries bounds the history length.
const MaxEntries = 5

// Prepend moves code to the front of list, dropping any earlier occurrence
// and anything beyond MaxEntries. list is not modified.
func Prepend(list []stockcode.Code, code stockcode.Code) []stockcode.Code {
	next := append([]stockcode.Code{code}, Without(list, code)...)
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}
	return next
}

// Without returns list minus every occurrence of code, order preserved.
func Without(list []stockcode.Code, code stockcode.Code) []stockcode.Code {
	return lo.Reject(list, func(c stockcode.Code, _ int) bool {
		return c == code
	})
}

// sanitize drops malformed and repeated entries from a decoded list and
// enforces MaxEntries, keeping the earliest (most recent) occurrence.
func sanitize(raw []string) []stockcode.Code {
	valid := lo.FilterMap(raw, func(s string, _ int) (stockcode.Code, bool) {
		return stockcode.Code(s), stockcode.IsValid(s)
	})
	list := lo.Uniq(valid)
	if len(list) > MaxEntries {
		list = list[:MaxEntries]
	}
	return list
}
