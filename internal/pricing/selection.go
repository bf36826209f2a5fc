package pricing

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

// MaxDisplayQuantity is the largest quantity offered by the UI's quantity selectors.
const MaxDisplayQuantity = 6

var (
	// ErrDuplicateOptionKey means two options of one item derive the same
	// selection key (same ID, or same name with no ID).
	ErrDuplicateOptionKey = errors.New("duplicate option key")

	// ErrUnknownOption means a quantity was set for a key the item does not offer.
	ErrUnknownOption = errors.New("unknown option")

	// ErrNegativeQuantity means a quantity below zero was requested.
	ErrNegativeQuantity = errors.New("quantity must not be negative")
)

// DisplayCap is the number of choices a quantity selector shows for an
// option with the given availability. It is a display affordance only;
// Selection.Set does not enforce it.
func DisplayCap(available int) int {
	return max(0, min(MaxDisplayQuantity, available))
}

// CheckOptionKeys returns ErrDuplicateOptionKey if any two options share a key.
func CheckOptionKeys(options []domain.Option) error {
	seen := make(map[string]struct{}, len(options))
	for _, o := range options {
		k := o.Key()
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateOptionKey, k)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Selection maps option keys to requested quantities for one item.
// The zero value is not usable; build one with NewSelection.
type Selection struct {
	keys    []string
	options map[string]optionTerms
	qty     map[string]int
}

// optionTerms is what a quantity was chosen against. A change to any of it
// invalidates the selection.
type optionTerms struct {
	name      string
	price     float64
	tax       float64
	hasTax    bool
	available int
	currency  string
}

func termsOf(options []domain.Option) map[string]optionTerms {
	out := make(map[string]optionTerms, len(options))
	for _, o := range options {
		out[o.Key()] = optionTerms{
			name:      o.Name,
			price:     o.Price,
			tax:       o.TaxOrZero(),
			hasTax:    o.Tax != nil,
			available: o.Available,
			currency:  o.Currency,
		}
	}
	return out
}

// NewSelection returns an empty selection over the given options.
func NewSelection(options []domain.Option) (*Selection, error) {
	if err := CheckOptionKeys(options); err != nil {
		return nil, err
	}
	s := &Selection{}
	s.reset(options)
	return s, nil
}

func (s *Selection) reset(options []domain.Option) {
	s.keys = make([]string, len(options))
	for i, o := range options {
		s.keys[i] = o.Key()
	}
	s.options = termsOf(options)
	s.qty = make(map[string]int, len(options))
}

// Set replaces the quantity for key.
func (s *Selection) Set(key string, qty int) error {
	if qty < 0 {
		return fmt.Errorf("%w: %s=%d", ErrNegativeQuantity, key, qty)
	}
	if !slices.Contains(s.keys, key) {
		return fmt.Errorf("%w: %q", ErrUnknownOption, key)
	}
	if qty == 0 {
		delete(s.qty, key)
		return nil
	}
	s.qty[key] = qty
	return nil
}

// Quantity returns the quantity selected for key, zero if none.
func (s *Selection) Quantity(key string) int {
	return s.qty[key]
}

// Quantities returns a copy of the non-zero quantities.
func (s *Selection) Quantities() map[string]int {
	return maps.Clone(s.qty)
}

// Count is the total number of units selected across all options.
func (s *Selection) Count() int {
	n := 0
	for _, q := range s.qty {
		n += q
	}
	return n
}

// Sync adopts a new option list. Unless the list is the current one in a
// different order, every quantity is cleared: another item may reuse option
// names with other prices or availability. It reports whether a reset happened.
func (s *Selection) Sync(options []domain.Option) (bool, error) {
	if err := CheckOptionKeys(options); err != nil {
		return false, err
	}
	if maps.Equal(termsOf(options), s.options) {
		return false, nil
	}
	s.reset(options)
	return true, nil
}
