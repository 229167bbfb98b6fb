package invoicing

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrCounterNotFound is returned when no counter exists for a module.
	ErrCounterNotFound = errors.New("invoice setting not found")

	// ErrNotConfigured means a document cannot be numbered because its
	// module has no counter. An administrative set resolves it.
	ErrNotConfigured = errors.New("invoice setting not configured")

	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownModule   = errors.New("unknown document module")

	// ErrDuplicateInvoiceNo is reported by stores when the unique index on
	// a document's invoice number rejects an insert.
	ErrDuplicateInvoiceNo = errors.New("duplicate invoice number")

	// ErrConflict is returned by Create after ErrDuplicateInvoiceNo. The
	// caller has to re-run the whole creation.
	ErrConflict = errors.New("invoice number already issued, retry the create request")

	// ErrInconsistency means a document may exist while the counter state
	// could not be confirmed. Operators must reconcile it.
	ErrInconsistency = errors.New("invoice counter inconsistent with persisted documents")

	// ErrCounterExhausted means the next number of a module does not fit
	// the counter column. An administrative set with a new prefix resolves it.
	ErrCounterExhausted = errors.New("invoice counter exhausted, set a new prefix and start number")

	ErrPersistence      = errors.New("document persistence failed")
	ErrDocumentNotFound = errors.New("document not found")
)

// ValidationError lists every missing or malformed field of a create request.
type ValidationError struct {
	Missing []string          `json:"missing,omitempty"`
	Invalid map[string]string `json:"invalid,omitempty"`
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "Missing fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		names := make([]string, 0, len(e.Invalid))
		for name := range e.Invalid {
			names = append(names, name)
		}
		sort.Strings(names)
		invalid := make([]string, 0, len(names))
		for _, name := range names {
			invalid = append(invalid, name+" ("+e.Invalid[name]+")")
		}
		parts = append(parts, "Invalid fields: "+strings.Join(invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) missing(field string) {
	e.Missing = append(e.Missing, field)
}

func (e *ValidationError) invalid(field, reason string) {
	if e.Invalid == nil {
		e.Invalid = make(map[string]string)
	}
	e.Invalid[field] = reason
}

func (e *ValidationError) empty() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0
}
