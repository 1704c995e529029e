// Package variant picks the purchasable variety of a product from the
// customer's property choices.
package variant

import (
	"strconv"
	"strings"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

// Selection is the full set of choices made on the product page
type Selection struct {
	ChildIDs []int64 `json:"child_ids"`
	Color    string  `json:"color,omitempty"`
}

func (s Selection) matches(v domain.Variety) bool {
	for _, id := range s.ChildIDs {
		if !v.HasChild(id) {
			return false
		}
	}
	if s.Color != "" && v.ColorName() != s.Color {
		return false
	}
	return true
}

// Candidates returns every variety compatible with a possibly partial selection
func Candidates(varieties []domain.Variety, sel Selection) []domain.Variety {
	var out []domain.Variety
	for _, v := range varieties {
		if sel.matches(v) {
			out = append(out, v)
		}
	}
	return out
}

// Resolve returns the one variety that satisfies every choice in sel.
// No match is ErrNoMatchingVariety; more than one means the customer has not
// chosen enough properties yet (ErrIncompleteChoice).
func Resolve(varieties []domain.Variety, sel Selection) (domain.Variety, error) {
	matches := Candidates(varieties, sel)
	switch len(matches) {
	case 0:
		return domain.Variety{}, errors.New(errors.CodeNoMatchingVariety, 0, nil)
	case 1:
		return matches[0], nil
	default:
		return domain.Variety{}, errors.New(errors.CodeIncompleteChoice, 0, nil)
	}
}

// CheckStock fails when the variety cannot cover quantity
func CheckStock(v domain.Variety, quantity int) error {
	if quantity < 1 || v.StoreStock < quantity {
		return errors.New(errors.CodeOutOfStock, 0, nil)
	}
	return nil
}

// Group is a property (e.g. size) with the values offered across varieties
type Group struct {
	ID     int64                  `json:"id"`
	Name   string                 `json:"name"`
	Values []domain.PropertyValue `json:"values"`
}

// Options is what the product page offers for selection
type Options struct {
	Groups []Group        `json:"groups"`
	Colors []domain.Color `json:"colors"`
}

// ListOptions collects the selectable values in first-seen order
func ListOptions(varieties []domain.Variety) Options {
	var opts Options
	groupIndex := map[int64]int{}
	seenValue := map[int64]bool{}
	seenColor := map[string]bool{}

	for _, v := range varieties {
		for _, p := range v.ShowProperties {
			gi, ok := groupIndex[p.ID]
			if !ok {
				gi = len(opts.Groups)
				groupIndex[p.ID] = gi
				opts.Groups = append(opts.Groups, Group{ID: p.ID, Name: p.Name})
			}
			if !seenValue[p.Child.ID] {
				seenValue[p.Child.ID] = true
				opts.Groups[gi].Values = append(opts.Groups[gi].Values, p.Child)
			}
		}
		if c := v.GetColor; c != nil && !seenColor[c.FaName] {
			seenColor[c.FaName] = true
			opts.Colors = append(opts.Colors, *c)
		}
	}
	return opts
}

// CartItem builds the cart line for a resolved variety
func CartItem(p domain.Product, v domain.Variety, quantity int) domain.CartItem {
	names := make([]string, 0, len(v.ShowProperties))
	for _, sp := range v.ShowProperties {
		names = append(names, sp.Child.Name)
	}

	return domain.CartItem{
		ID:       strconv.FormatInt(v.ID, 10),
		Name:     p.Title,
		Price:    v.PriceMain,
		Quantity: quantity,
		Image:    p.Image,
		Size:     strings.Join(names, "، "),
		Color:    v.ColorName(),
	}
}
