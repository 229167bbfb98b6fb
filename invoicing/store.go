package invoicing

import (
	"context"

	"billing-backend/models"
)

// Store is the authoritative storage for counters and documents.
//
// Transaction runs fn against a transactional view of the store. Everything
// fn writes becomes visible atomically when fn returns nil and the commit
// succeeds; otherwise nothing is applied. An error returned by fn is returned
// unchanged.
type Store interface {
	Counters() CounterStore
	Documents() DocumentStore
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type CounterStore interface {
	// Get returns ErrCounterNotFound when module has no counter.
	Get(ctx context.Context, module string) (models.InvoiceCounter, error)
	List(ctx context.Context) ([]models.InvoiceCounter, error)
	// Put creates the counter or overwrites prefix and current number.
	Put(ctx context.Context, counter models.InvoiceCounter) (models.InvoiceCounter, error)
	// Advance adds one to the current number in a single atomic
	// update-and-fetch and returns the counter as it was before the update.
	// Inside a transaction the advance stays invisible to other callers,
	// and further advances of the same module wait, until it commits.
	// It returns ErrCounterNotFound and writes nothing when module has no
	// counter, and ErrCounterExhausted when the number would overflow.
	Advance(ctx context.Context, module string) (models.InvoiceCounter, error)
}

type DocumentStore interface {
	// Create inserts doc. A taken invoice number yields ErrDuplicateInvoiceNo.
	Create(ctx context.Context, doc models.Document) error
	// Get and Delete return ErrDocumentNotFound for unknown ids.
	Get(ctx context.Context, module, id string) (models.Document, error)
	List(ctx context.Context, module string) ([]models.Document, error)
	Delete(ctx context.Context, module, id string) error
	SetAttachment(ctx context.Context, module, id, path string) (models.Document, error)
	FindByInvoiceNo(ctx context.Context, module, invoiceNo string) (models.Document, error)
}
