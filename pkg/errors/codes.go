package errors

import "fmt"

// Code identifies a class of storefront failure
type Code string

const (
	CodeValidation        Code = "validation"
	CodeNoAddressSelected Code = "address_required"
	CodeAddressNotFound   Code = "address_not_found"
	CodeAddressInvalid    Code = "address_invalid"
	CodeVarietyInvalid    Code = "variety_invalid"
	CodeQuantityInvalid   Code = "quantity_invalid"
	CodePayloadInvalid    Code = "payload_invalid"
	CodeUnauthorized      Code = "unauthorized"
	CodeGatewayMissing    Code = "gateway_missing"
	CodeMalformedResponse Code = "malformed_response"
	CodeOutOfStock        Code = "out_of_stock"
	CodeNoMatchingVariety Code = "no_matching_variety"
	CodeIncompleteChoice  Code = "incomplete_choice"
	CodeCartEmpty         Code = "cart_empty"
	CodeNoSendMethod      Code = "no_send_method"
	CodeNoPayMethod       Code = "no_pay_method"
	CodeNoReceiveDate     Code = "no_receive_date"
	CodeOrderFailed       Code = "order_failed"
	CodeNetwork           Code = "network"
	CodeUnknown           Code = "unknown"
)

var messages = map[Code]string{
	CodeValidation:        "اطلاعات وارد شده کامل نیست",
	CodeNoAddressSelected: "آدرس تحویل انتخاب نشده است",
	CodeAddressNotFound:   "آدرس انتخاب شده یافت نشد",
	CodeAddressInvalid:    "آدرس انتخاب شده معتبر نیست",
	CodeVarietyInvalid:    "محصول انتخاب شده معتبر نیست",
	CodeQuantityInvalid:   "تعداد انتخاب شده معتبر نیست",
	CodePayloadInvalid:    "اطلاعات ارسالی نامعتبر است",
	CodeUnauthorized:      "لطفا دوباره وارد حساب کاربری خود شوید",
	CodeGatewayMissing:    "آدرس درگاه پرداخت دریافت نشد",
	CodeMalformedResponse: "پاسخ سرور ناقص است",
	CodeOutOfStock:        "موجودی این محصول کافی نیست",
	CodeNoMatchingVariety: "ترکیب انتخاب شده موجود نیست",
	CodeIncompleteChoice:  "لطفا همه ویژگی‌های محصول را انتخاب کنید",
	CodeCartEmpty:         "سبد خرید شما خالی است",
	CodeNoSendMethod:      "روش ارسالی برای این آدرس وجود ندارد",
	CodeNoPayMethod:       "روش پرداخت مناسبی یافت نشد",
	CodeNoReceiveDate:     "زمان تحویلی برای این روش ارسال وجود ندارد",
	CodeOrderFailed:       "ثبت سفارش انجام نشد",
	CodeNetwork:           "خطا در ارتباط با سرور",
}

// fieldCodes maps the field names of backend validation errors to codes
var fieldCodes = map[string]Code{
	"address_id": CodeAddressInvalid,
	"address":    CodeAddressInvalid,
	"variety_id": CodeVarietyInvalid,
	"variety":    CodeVarietyInvalid,
	"quantity":   CodeQuantityInvalid,
}

// Message returns the localized text for code. Unknown codes get a generic
// message carrying the HTTP status.
func Message(code Code, status int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	if status > 0 {
		return fmt.Sprintf("خطا در انجام عملیات (کد %d)", status)
	}
	return "خطا در انجام عملیات"
}

// ParseCode accepts a backend-provided code string; unknown values map to CodeUnknown
func ParseCode(s string) Code {
	c := Code(s)
	if _, ok := messages[c]; ok {
		return c
	}
	return CodeUnknown
}

// CodeForField classifies a backend validation error by its field name
func CodeForField(field string) (Code, bool) {
	c, ok := fieldCodes[field]
	return c, ok
}

// IsAddressCode reports whether code points at a stale or bad address reference
func IsAddressCode(code Code) bool {
	return code == CodeAddressNotFound || code == CodeAddressInvalid
}
