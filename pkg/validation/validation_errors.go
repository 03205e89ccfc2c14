package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	// Profile
	"FullName": "Full name",
	"Phone":    "Phone number",
	"Role":     "Role",

	// Application
	"PostApplied":       "Post applied for",
	"Email":             "Email",
	"DateOfBirth":       "Date of birth",
	"Address":           "Address",
	"City":              "City",
	"State":             "State",
	"Pincode":           "Pincode",
	"PANNumber":         "PAN number",
	"AadharNumber":      "Aadhaar number",
	"BankAccountNumber": "Bank account number",
	"IFSCCode":          "IFSC code",
	"Education":         "Education",

	// Education entries
	"Level":      "Education level",
	"Year":       "Year of passing",
	"Percentage": "Percentage",

	// Review
	"Reason": "Reason",
}

// ValidationRules contains extra hints for validation messages
var ValidationRules = map[string]map[string]interface{}{
	"Percentage": {"unit": "%"},
	"Phone":      {"min": 7, "max": 15},
	"Pincode":    {"len": 6},
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var messages []string

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}

	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	fieldName := e.Field()
	label := getFieldLabel(fieldName)
	tag := e.Tag()
	param := e.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s: is required", label)

	case "min", "gte":
		if rules, ok := ValidationRules[fieldName]; ok {
			if unit, hasUnit := rules["unit"]; hasUnit {
				return fmt.Sprintf("%s: must be at least %s%s", label, param, unit)
			}
		}
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)

	case "max", "lte":
		if rules, ok := ValidationRules[fieldName]; ok {
			if unit, hasUnit := rules["unit"]; hasUnit {
				return fmt.Sprintf("%s: must be at most %s%s", label, param, unit)
			}
		}
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s", label, param)

	case "len":
		return fmt.Sprintf("%s: must be exactly %s characters", label, param)

	case "numeric":
		return fmt.Sprintf("%s: must contain digits only", label)

	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, formatOneOfOptions(param))

	case "email":
		return fmt.Sprintf("%s: invalid email format", label)

	case "datetime":
		return fmt.Sprintf("%s: must be a date in YYYY-MM-DD format", label)

	case "valid_name":
		return fmt.Sprintf("%s: may only contain letters, spaces and common punctuation (. ' - /)", label)

	case "valid_phone":
		return fmt.Sprintf("%s: invalid phone number (7-15 digits, optional +)", label)

	case "no_emoji":
		return fmt.Sprintf("%s: must not contain emoji or special symbols", label)

	case "max_current_year":
		return fmt.Sprintf("%s: cannot be later than the current year", label)

	case "pan_number":
		return fmt.Sprintf("%s: must look like ABCDE1234F", label)

	case "aadhar_number":
		return fmt.Sprintf("%s: must be 12 digits", label)

	case "ifsc_code":
		return fmt.Sprintf("%s: must look like SBIN0001234", label)

	default:
		return fmt.Sprintf("%s: failed validation (%s)", label, tag)
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	// Return field name with spaces between camelCase words
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}

// formatOneOfOptions formats oneof options for display
func formatOneOfOptions(param string) string {
	options := strings.Split(param, " ")
	formatted := make([]string, len(options))
	for i, opt := range options {
		formatted[i] = formatEnumValue(opt)
	}
	return strings.Join(formatted, ", ")
}

// formatEnumValue turns snake_case enum values into readable words
func formatEnumValue(value string) string {
	enumLabels := map[string]string{
		"10th":            "10th",
		"12th":            "12th",
		"post_graduation": "Post graduation",
		"candidate":       "Candidate",
		"admin":           "Admin",
	}

	if label, ok := enumLabels[value]; ok {
		return label
	}
	return strings.ReplaceAll(value, "_", " ")
}
