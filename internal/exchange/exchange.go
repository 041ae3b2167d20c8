// Package exchange classifies stock codes as TWSE or TPEx listed.
//
// Listing venue cannot be derived from the digits of a code, so the
// classifier relies on a membership table of TPEx codes shipped with the
// binary. The table is decoded once per process and never mutated.
package exchange

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
	"github.com/stockhop/cli/pkg/stockcode"
	"gopkg.in/yaml.v3"
)

// Exchange identifies a listing venue.
type Exchange int

const (
	// Primary is the Taiwan Stock Exchange (上市).
	Primary Exchange = iota
	// Secondary is the Taipei Exchange over-the-counter market (上櫃).
	Secondary
)

func (e Exchange) String() string {
	switch e {
	case Primary:
		return "TWSE"
	case Secondary:
		return "TPEX"
	default:
		return fmt.Sprintf("Exchange(%d)", int(e))
	}
}

// Label returns the local market name.
func (e Exchange) Label() string {
	if e == Secondary {
		return "上櫃"
	}
	return "上市"
}

// MarshalText renders the exchange as its symbol prefix.
func (e Exchange) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText parses a symbol prefix produced by MarshalText.
func (e *Exchange) UnmarshalText(text []byte) error {
	switch string(text) {
	case "TWSE":
		*e = Primary
	case "TPEX":
		*e = Secondary
	default:
		return fmt.Errorf("unknown exchange %q", text)
	}
	return nil
}

//go:embed tpex_stocks.yaml
var tpexStocksYAML []byte

type membershipFile struct {
	Exchange string   `yaml:"exchange"`
	Codes    []string `yaml:"codes"`
}

// Classifier decides which exchange a code belongs to.
type Classifier struct {
	secondary map[stockcode.Code]struct{}
}

// NewClassifier builds a classifier whose secondary set is codes.
// Every entry must be a valid stock code.
func NewClassifier(codes []string) (*Classifier, error) {
	set := make(map[stockcode.Code]struct{}, len(codes))
	for _, raw := range codes {
		if !stockcode.IsValid(raw) {
			return nil, fmt.Errorf("membership table: invalid code %q", raw)
		}
		set[stockcode.Code(raw)] = struct{}{}
	}
	return &Classifier{secondary: set}, nil
}

// Parse decodes a YAML membership table.
func Parse(data []byte) (*Classifier, error) {
	var f membershipFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("membership table: %w", err)
	}
	if f.Exchange != "" && f.Exchange != Secondary.String() {
		return nil, fmt.Errorf("membership table: unexpected exchange %q", f.Exchange)
	}
	return NewClassifier(f.Codes)
}

var loadDefault = sync.OnceValues(func() (*Classifier, error) {
	return Parse(tpexStocksYAML)
})

// Default returns the process-wide classifier backed by the embedded table.
func Default() (*Classifier, error) {
	return loadDefault()
}

// Classify returns Secondary for codes in the membership set, Primary otherwise.
func (c *Classifier) Classify(code stockcode.Code) Exchange {
	if _, ok := c.secondary[code]; ok {
		return Secondary
	}
	return Primary
}

// Len returns the size of the membership set.
func (c *Classifier) Len() int {
	return len(c.secondary)
}

// Members returns the secondary codes in ascending order.
func (c *Classifier) Members() []stockcode.Code {
	members := lo.Keys(c.secondary)
	slices.Sort(members)
	return members
}
