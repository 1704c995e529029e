package domain

import (
	"time"
)

// CartItem is one line of the local cart. ID is the variety id.
type CartItem struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Price    int64          `json:"price"`
	Quantity int            `json:"quantity"`
	Image    string         `json:"image,omitempty"`
	Size     string         `json:"size,omitempty"`
	Color    string         `json:"color,omitempty"`
	Status   CartItemStatus `json:"status"`
	// Reservations are the additions the backend has not acknowledged yet
	Reservations []Reservation `json:"reservations,omitempty"`
}

// Reservation is one in-flight addition to a cart line
type Reservation struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// LineTotal is price times quantity
func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// PendingQuantity is the part of Quantity still waiting for the backend
func (i CartItem) PendingQuantity() int {
	n := 0
	for _, r := range i.Reservations {
		n += r.Quantity
	}
	return n
}

// Address is the shipping address form as the backend expects it.
// "adress" is the backend's spelling.
type Address struct {
	ProvinceID     int64       `json:"province_id"`
	CityID         int64       `json:"city_id"`
	Zipcode        string      `json:"zipcode"`
	ReceiverName   string      `json:"receiver_name"`
	ReceiverNumber string      `json:"receiver_number"`
	Adress         string      `json:"adress"`
	AddressType    AddressType `json:"address_type"`
}

// Color is the color attached to a variety
type Color struct {
	ID     int64  `json:"id"`
	FaName string `json:"fa_name"`
	EnName string `json:"en_name,omitempty"`
	Code   string `json:"code,omitempty"`
}

// PropertyValue is one selectable value of a property group, e.g. size "XL"
type PropertyValue struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ShowProperty ties a variety to one value of a property group
type ShowProperty struct {
	ID    int64         `json:"id"`
	Name  string        `json:"name"`
	Child PropertyValue `json:"child"`
}

// Variety is a purchasable product variant. Read-only on this side.
type Variety struct {
	ID             int64          `json:"id"`
	PriceMain      int64          `json:"price_main"`
	StoreStock     int            `json:"store_stock"`
	Category       string         `json:"category,omitempty"`
	GetColor       *Color         `json:"getColor,omitempty"`
	ShowProperties []ShowProperty `json:"showProperties"`
}

// ColorName returns the Persian color name or ""
func (v Variety) ColorName() string {
	if v.GetColor == nil {
		return ""
	}
	return v.GetColor.FaName
}

// HasChild reports whether the variety carries property value childID
func (v Variety) HasChild(childID int64) bool {
	for _, p := range v.ShowProperties {
		if p.Child.ID == childID {
			return true
		}
	}
	return false
}

// Product is a catalog entry
type Product struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	CategoryID  int64     `json:"category_id,omitempty"`
	Varieties   []Variety `json:"varieties,omitempty"`
}

// ProductPage is one page of the product list
type ProductPage struct {
	Products    []Product `json:"data"`
	CurrentPage int       `json:"current_page"`
	LastPage    int       `json:"last_page"`
	Total       int       `json:"total"`
}

// Category is a node of the category tree
type Category struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Slug     string     `json:"slug,omitempty"`
	ParentID *int64     `json:"parent_id,omitempty"`
	Children []Category `json:"children,omitempty"`
}

// User is the signed-in customer
type User struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Email  string `json:"email,omitempty"`
	Credit int64  `json:"credit"`
}

// Comment is a product review
type Comment struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UserName  string    `json:"user_name,omitempty"`
	Body      string    `json:"body"`
	Rate      int       `json:"rate"`
	CreatedAt time.Time `json:"created_at"`
}

// ReceiveDate is a delivery slot offered by a send method
type ReceiveDate struct {
	Date      string `json:"date"`
	Title     string `json:"title,omitempty"`
	Available bool   `json:"available"`
}

// SendMethod is a shipping option
type SendMethod struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Price        int64         `json:"price"`
	ReceiveDates []ReceiveDate `json:"receive_dates"`
}

// FirstAvailableDate returns the first open slot
func (m SendMethod) FirstAvailableDate() (string, bool) {
	for _, d := range m.ReceiveDates {
		if d.Available && d.Date != "" {
			return d.Date, true
		}
	}
	return "", false
}

// PayMethod is a payment option
type PayMethod struct {
	ID   int64       `json:"id"`
	Name string      `json:"name"`
	Type PaymentType `json:"type"`
}

// CheckoutInfo holds the options offered for one address
type CheckoutInfo struct {
	SendMethods []SendMethod `json:"sendMethods"`
	PayMethods  []PayMethod  `json:"payMethods"`
}

// CheckoutRequest is the final order submission
type CheckoutRequest struct {
	AddressID       int64  `json:"address_id"`
	SendMethodID    int64  `json:"send_method_id"`
	PayMethodID     int64  `json:"pay_method_id"`
	ReceiveDate     string `json:"receive_date"`
	Description     string `json:"description,omitempty"`
	CreditDeduction bool   `json:"credit_deduction"`
	CallbackURL     string `json:"callback_url"`
}

// CheckoutResult is the backend's answer to an order submission. Raw keeps
// the parsed body untouched.
type CheckoutResult struct {
	Raw         map[string]interface{} `json:"raw"`
	RedirectURL string                 `json:"redirect_url,omitempty"`
	Success     bool                   `json:"success"`
	OrderID     int64                  `json:"order_id,omitempty"`
}

// CheckoutOutcome tells the browser where to go after checkout
type CheckoutOutcome struct {
	Kind OutcomeKind `json:"kind"`
	URL  string      `json:"url"`
}

// Session is the per-browser state shared by every checkout flow
type Session struct {
	Token          string      `json:"token,omitempty"`
	AddressID      int64       `json:"address_id,omitempty"`
	CurrentOrderID int64       `json:"current_order_id,omitempty"`
	PaymentType    PaymentType `json:"payment_type,omitempty"`
	Cart           []CartItem  `json:"cart,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
