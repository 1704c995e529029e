package storefront

// Backend paths
const (
	PathAuth         = "/api/auth"
	PathAuthVerify   = "/api/auth/verify"
	PathUser         = "/api/user"
	PathCategory     = "/api/category"
	PathShop         = "/api/shop"
	PathAddress      = "/api/address"
	PathCartCheckout = "/api/cart/checkout"
	PathCartIndex    = "/api/cart/index"
	PathCart         = "/api/cart"
	PathComment      = "/api/comment"
)

// DefaultUnitID is the only sale unit the shop uses
const DefaultUnitID = 1

// AuthCodeRequest asks the backend to SMS a login code
type AuthCodeRequest struct {
	Mobile string `json:"mobile"`
}

// AuthVerifyRequest exchanges the SMS code for a token
type AuthVerifyRequest struct {
	Mobile string `json:"mobile"`
	Code   string `json:"code"`
}

// AuthVerifyResponse is the data of a successful verification
type AuthVerifyResponse struct {
	Token string `json:"token"`
}

// AddToCartRequest is the body of PUT /api/cart/index
type AddToCartRequest struct {
	VarietyID int64 `json:"variety_id"`
	Quantity  int   `json:"quantity"`
	UnitID    int   `json:"unit_id"`
}

// CommentRequest is the body of PUT /api/comment
type CommentRequest struct {
	ProductID int64  `json:"product_id"`
	Body      string `json:"body"`
	Rate      int    `json:"rate"`
}

// ProductQuery filters the product list
type ProductQuery struct {
	Page     int
	Category string
	Search   string
	Sort     string
}
