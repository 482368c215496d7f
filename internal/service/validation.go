package service

import (
	"regexp"
	"strings"
)

const (
	FieldName    = "customer_name"
	FieldPhone   = "customer_phone"
	FieldAddress = "customer_address"

	msgRequired     = "This field is required"
	msgInvalidPhone = "Please enter a valid phone number"
)

var (
	nonDigits   = regexp.MustCompile(`\D`)
	mobilePhone = regexp.MustCompile(`^[6-9]\d{9}$`)
	emailShape  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// IsValidPhone reports whether phone is an Indian mobile number once
// separators are stripped.
func IsValidPhone(phone string) bool {
	return mobilePhone.MatchString(nonDigits.ReplaceAllString(phone, ""))
}

func IsValidEmail(email string) bool {
	return emailShape.MatchString(email)
}

type CheckoutForm struct {
	CustomerName        string
	CustomerPhone       string
	CustomerAddress     string
	SpecialInstructions string
}

// Validate returns nil or a *ValidationError listing every failing field.
func (f CheckoutForm) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(f.CustomerName) == "" {
		fields[FieldName] = msgRequired
	}
	phone := strings.TrimSpace(f.CustomerPhone)
	switch {
	case phone == "":
		fields[FieldPhone] = msgRequired
	case !IsValidPhone(phone):
		fields[FieldPhone] = msgInvalidPhone
	}
	if strings.TrimSpace(f.CustomerAddress) == "" {
		fields[FieldAddress] = msgRequired
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (f CheckoutForm) trimmed() CheckoutForm {
	return CheckoutForm{
		CustomerName:        strings.TrimSpace(f.CustomerName),
		CustomerPhone:       strings.TrimSpace(f.CustomerPhone),
		CustomerAddress:     strings.TrimSpace(f.CustomerAddress),
		SpecialInstructions: strings.TrimSpace(f.SpecialInstructions),
	}
}
