// =============================================================================
// Recycle Register - Validation
// =============================================================================
//
// This module checks what a cashier types before it reaches the ledger, and
// audits what is already recorded.
//
// PURCHASE RULES:
//   - customer number: required, a positive integer
//   - item number:     required, present in the catalog
//
// LEDGER AUDIT:
//   Recorded sales whose item number is not in the catalog are reported as
//   warnings: the sale stays, but it is not priced.
//
// ERROR HANDLING:
//   Errors are collected, not returned on the first failure, so a cashier
//   sees every problem with an entry at once.
//
// =============================================================================

package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/recycle-register/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation error.
type ValidationError struct {
	// Severity is SeverityError (the entry is rejected) or SeverityWarning.
	Severity string

	// Field is the name of the field that failed validation.
	Field string

	// Value is the actual value that failed validation.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string

	// Row is the ledger row, or -1 for an entry not yet recorded.
	Row int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	where := "Entry"
	if e.Row >= 0 {
		where = fmt.Sprintf("Row %d", e.Row+1)
	}
	return fmt.Sprintf("[%s] %s, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		where,
		e.Field,
		e.Message,
		e.Value,
	)
}

// ItemFinder looks items up by number. *catalog.Catalog implements it.
type ItemFinder interface {
	Find(itemID string) (types.Item, bool, error)
}

// =============================================================================
// PURCHASE VALIDATION
// =============================================================================

// ValidatePurchase checks a sale before it is recorded.
//
// PARAMETERS:
//   - customerID: The checkout number as typed.
//   - itemID: The item number as typed.
//   - items: The catalog.
//
// RETURNS:
//   - Every problem found; empty when the sale can be recorded.
func ValidatePurchase(customerID, itemID string, items ItemFinder) []*ValidationError {
	var errs []*ValidationError

	customerID = strings.TrimSpace(customerID)
	itemID = strings.TrimSpace(itemID)

	if customerID == "" {
		errs = append(errs, entryError("customer", customerID, "required", "Customer number is required"))
	} else if msg := validateCustomerNumber(customerID); msg != "" {
		errs = append(errs, entryError("customer", customerID, "numeric", msg))
	}

	if itemID == "" {
		errs = append(errs, entryError("item", itemID, "required", "Item number is required"))
		return errs
	}

	_, found, err := items.Find(itemID)
	switch {
	case err != nil:
		errs = append(errs, entryError("item", itemID, "catalog", fmt.Sprintf("Catalog lookup failed: %v", err)))
	case !found:
		errs = append(errs, entryError("item", itemID, "catalog", "Item is not in the catalog"))
	}

	return errs
}

// validateCustomerNumber checks that a value is a positive integer.
func validateCustomerNumber(value string) string {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Sprintf("Value '%s' is not a valid integer", value)
	}
	if n <= 0 {
		return fmt.Sprintf("Value '%s' must be greater than zero", value)
	}
	return ""
}

func entryError(field, value, rule, message string) *ValidationError {
	return &ValidationError{
		Severity: SeverityError,
		Field:    field,
		Value:    value,
		Rule:     rule,
		Message:  message,
		Row:      -1,
	}
}

// =============================================================================
// LEDGER AUDIT
// =============================================================================

// AuditPurchases reports recorded sales that cannot be priced.
func AuditPurchases(purchases []types.Purchase) []*ValidationError {
	var errs []*ValidationError

	for _, p := range purchases {
		if strings.TrimSpace(p.ItemID) == "" {
			errs = append(errs, &ValidationError{
				Severity: SeverityWarning,
				Field:    "item",
				Rule:     "required",
				Message:  "Sale has no item number",
				Row:      p.Row,
			})
			continue
		}
		if !p.Matched {
			errs = append(errs, &ValidationError{
				Severity: SeverityWarning,
				Field:    "item",
				Value:    p.ItemID,
				Rule:     "catalog",
				Message:  "Item is not in the catalog",
				Row:      p.Row,
			})
		}
	}

	return errs
}

// HasErrors reports whether any entry has SeverityError.
func HasErrors(errs []*ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// =============================================================================
// ERROR REPORTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d error(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
