package address

import (
	"regexp"
	"strings"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

var (
	phonePattern   = regexp.MustCompile(`^09[0-9]{9}$`)
	zipcodePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// Validation messages, listed in the order they are checked
const (
	MsgProvinceRequired = "لطفا استان را انتخاب کنید"
	MsgCityRequired     = "لطفا شهر را انتخاب کنید"
	MsgAddressRequired  = "لطفا آدرس را وارد کنید"
	MsgZipcodeRequired  = "لطفا کد پستی را وارد کنید"
	MsgZipcodeFormat    = "کد پستی باید ۱۰ رقم باشد"
	MsgReceiverRequired = "لطفا نام گیرنده را وارد کنید"
	MsgPhoneRequired    = "لطفا شماره تماس گیرنده را وارد کنید"
	MsgPhoneFormat      = "شماره تماس باید با ۰۹ شروع شود و ۱۱ رقم باشد"
)

// Separator joins validation messages into one string
const Separator = "، "

// ValidationError carries every failed check of the address form
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, Separator)
}

func (e *ValidationError) Unwrap() error {
	return errors.ErrValidation
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Validate returns the messages for missing or malformed fields, in a fixed
// order. An empty result means the form can be submitted.
func Validate(addr domain.Address) []string {
	var msgs []string

	if addr.ProvinceID <= 0 {
		msgs = append(msgs, MsgProvinceRequired)
	}
	if addr.CityID <= 0 {
		msgs = append(msgs, MsgCityRequired)
	}
	if blank(addr.Adress) {
		msgs = append(msgs, MsgAddressRequired)
	}

	switch {
	case blank(addr.Zipcode):
		msgs = append(msgs, MsgZipcodeRequired)
	case !zipcodePattern.MatchString(addr.Zipcode):
		msgs = append(msgs, MsgZipcodeFormat)
	}

	if blank(addr.ReceiverName) {
		msgs = append(msgs, MsgReceiverRequired)
	}

	switch {
	case blank(addr.ReceiverNumber):
		msgs = append(msgs, MsgPhoneRequired)
	case !phonePattern.MatchString(addr.ReceiverNumber):
		msgs = append(msgs, MsgPhoneFormat)
	}

	return msgs
}

// ValidateForm wraps Validate into an error
func ValidateForm(addr domain.Address) error {
	if msgs := Validate(addr); len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}
