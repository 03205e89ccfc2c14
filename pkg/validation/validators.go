package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Allow letters, spaces, and common punctuation: . ' - / & ( ) ,
	nameRegex = regexp.MustCompile(`^[\p{L} .'/&(),-]+$`)

	// E164-like phone: optional +, digits 7-15 length
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

	// PAN: five letters, four digits, one letter (ABCDE1234F)
	panRegex = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

	// Aadhaar: 12 digits, never starting with 0 or 1
	aadharRegex = regexp.MustCompile(`^[2-9][0-9]{11}$`)

	// IFSC: bank code, a literal zero, branch code (SBIN0001234)
	ifscRegex = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

// New returns a validator with every custom rule registered
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("max_current_year", MaxCurrentYear)
	_ = v.RegisterValidation("pan_number", PANNumber)
	_ = v.RegisterValidation("aadhar_number", AadharNumber)
	_ = v.RegisterValidation("ifsc_code", IFSCCode)
}

// ValidName validates that a string contains only valid name characters
// Rejects digits and most special symbols
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return nameRegex.MatchString(val)
}

// ValidPhone validates a phone number structure
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(val)
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, r := range val {
		// Supplementary planes are mostly emoji and pictographs
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) { // Symbol, other / Symbol, modifier
			return false
		}
	}
	return true
}

// MaxCurrentYear validates that an integer field (year) does not exceed the current year
func MaxCurrentYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	if year == 0 {
		return true // Allow zero/nil (optional field)
	}
	currentYear := int64(time.Now().Year())
	return year <= currentYear
}

// PANNumber validates an Indian Permanent Account Number, case-insensitive
func PANNumber(fl validator.FieldLevel) bool {
	val := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
	if val == "" {
		return true
	}
	return panRegex.MatchString(val)
}

// AadharNumber validates a 12 digit Aadhaar number; grouping spaces are ignored
func AadharNumber(fl validator.FieldLevel) bool {
	val := strings.ReplaceAll(strings.TrimSpace(fl.Field().String()), " ", "")
	if val == "" {
		return true
	}
	return aadharRegex.MatchString(val)
}

// IFSCCode validates an Indian bank branch code, case-insensitive
func IFSCCode(fl validator.FieldLevel) bool {
	val := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
	if val == "" {
		return true
	}
	return ifscRegex.MatchString(val)
}
