// Package cart is the local cart kept in the customer's session.
//
// Lines are unique by variety id. Every Reserve call records its own
// reservation on the line, which the backend's answer then commits or rolls
// back. Concurrent additions of the same variety therefore settle
// independently and the local cart never drifts from the server cart after a
// failed add.
package cart

import (
	"math"

	"github.com/google/uuid"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

const (
	// MinQuantity is the quantity floor of every line
	MinQuantity = 1
	// MaxQuantity is the largest quantity a line may hold
	MaxQuantity = 999
)

type Cart struct {
	items []domain.CartItem
}

// New wraps items, usually loaded from a session
func New(items []domain.CartItem) *Cart {
	c := &Cart{items: make([]domain.CartItem, len(items))}
	for i, item := range items {
		c.items[i] = copyItem(item)
	}
	return c
}

func copyItem(item domain.CartItem) domain.CartItem {
	item.Reservations = append([]domain.Reservation(nil), item.Reservations...)
	return item
}

// Items returns a copy of the lines
func (c *Cart) Items() []domain.CartItem {
	if c.items == nil {
		return nil
	}
	out := make([]domain.CartItem, len(c.items))
	for i, item := range c.items {
		out[i] = copyItem(item)
	}
	return out
}

func (c *Cart) index(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the line for id
func (c *Cart) Get(id string) (domain.CartItem, bool) {
	if i := c.index(id); i >= 0 {
		return copyItem(c.items[i]), true
	}
	return domain.CartItem{}, false
}

// checkQuantity rejects quantities above MaxQuantity or whose line total
// would not fit in an int64
func checkQuantity(price int64, quantity int) error {
	if quantity > MaxQuantity {
		return errors.New(errors.CodeQuantityInvalid, 0, nil)
	}
	if price > 0 && int64(quantity) > math.MaxInt64/price {
		return errors.New(errors.CodeQuantityInvalid, 0, nil)
	}
	return nil
}

// Add inserts a confirmed line; an existing id gets its quantity increased
func (c *Cart) Add(item domain.CartItem) error {
	_, err := c.add(item, false)
	return err
}

// Reserve adds item pending backend confirmation and returns the
// reservation id that Commit or Rollback settles
func (c *Cart) Reserve(item domain.CartItem) (string, error) {
	return c.add(item, true)
}

func (c *Cart) add(item domain.CartItem, pending bool) (string, error) {
	if item.Quantity < MinQuantity {
		item.Quantity = MinQuantity
	}

	var reservation domain.Reservation
	if pending {
		reservation = domain.Reservation{ID: uuid.NewString(), Quantity: item.Quantity}
	}

	i := c.index(item.ID)
	if i < 0 {
		if err := checkQuantity(item.Price, item.Quantity); err != nil {
			return "", err
		}
		item.Reservations = nil
		if pending {
			item.Reservations = []domain.Reservation{reservation}
		}
		item.Status = lineStatus(item)
		c.items = append(c.items, item)
		return reservation.ID, nil
	}

	line := &c.items[i]
	if err := checkQuantity(item.Price, line.Quantity+item.Quantity); err != nil {
		return "", err
	}
	line.Quantity += item.Quantity
	line.Price = item.Price
	if pending {
		line.Reservations = append(line.Reservations, reservation)
	}
	line.Status = lineStatus(*line)
	return reservation.ID, nil
}

func lineStatus(item domain.CartItem) domain.CartItemStatus {
	if len(item.Reservations) > 0 {
		return domain.CartItemPending
	}
	return domain.CartItemCommitted
}

func reservationIndex(item domain.CartItem, reservationID string) int {
	for i, r := range item.Reservations {
		if r.ID == reservationID {
			return i
		}
	}
	return -1
}

// Commit marks one reservation of a line as acknowledged
func (c *Cart) Commit(id, reservationID string) error {
	i := c.index(id)
	if i < 0 {
		return &errors.ErrNotFound{Resource: "cart item", ID: id}
	}
	line := &c.items[i]
	r := reservationIndex(*line, reservationID)
	if r < 0 {
		return &errors.ErrNotFound{Resource: "cart reservation", ID: reservationID}
	}

	line.Reservations = append(line.Reservations[:r], line.Reservations[r+1:]...)
	line.Status = lineStatus(*line)
	return nil
}

// Rollback undoes one reservation of a line, dropping the line when nothing
// is left. Settling a reservation that no longer exists, because the line was
// removed in the meantime, is a no-op.
func (c *Cart) Rollback(id, reservationID string) error {
	i := c.index(id)
	if i < 0 {
		return nil
	}
	line := &c.items[i]
	r := reservationIndex(*line, reservationID)
	if r < 0 {
		return nil
	}

	line.Quantity -= line.Reservations[r].Quantity
	line.Reservations = append(line.Reservations[:r], line.Reservations[r+1:]...)
	line.Status = lineStatus(*line)
	if line.Quantity < MinQuantity {
		c.Remove(id)
	}
	return nil
}

// Remove drops the line for id
func (c *Cart) Remove(id string) {
	kept := c.items[:0]
	for _, item := range c.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// UpdateQuantity sets the quantity of a line, never below MinQuantity.
// Reservations are trimmed, newest first, so they never exceed the line.
func (c *Cart) UpdateQuantity(id string, quantity int) error {
	i := c.index(id)
	if i < 0 {
		return &errors.ErrNotFound{Resource: "cart item", ID: id}
	}
	if quantity < MinQuantity {
		quantity = MinQuantity
	}
	line := &c.items[i]
	if err := checkQuantity(line.Price, quantity); err != nil {
		return err
	}
	line.Quantity = quantity

	excess := line.PendingQuantity() - quantity
	for r := len(line.Reservations) - 1; r >= 0 && excess > 0; r-- {
		cut := line.Reservations[r].Quantity
		if cut > excess {
			cut = excess
		}
		line.Reservations[r].Quantity -= cut
		excess -= cut
	}
	return nil
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.items = nil
}

// Pending lists lines waiting for backend confirmation
func (c *Cart) Pending() []domain.CartItem {
	var out []domain.CartItem
	for _, item := range c.items {
		if item.Status == domain.CartItemPending {
			out = append(out, copyItem(item))
		}
	}
	return out
}

// TotalItems is the sum of quantities
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of line totals
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, item := range c.items {
		total += item.LineTotal()
	}
	return total
}

// Summary is the cart as the browser renders it
type Summary struct {
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice int64             `json:"total_price"`
}

// Summary snapshots the cart
func (c *Cart) Summary() Summary {
	items := c.Items()
	if items == nil {
		items = []domain.CartItem{}
	}
	return Summary{
		Items:      items,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}
