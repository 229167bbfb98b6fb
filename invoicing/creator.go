package invoicing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"billing-backend/models"

	"github.com/sirupsen/logrus"
)

const (
	defaultCommitRetries = 3
	defaultCommitBackoff = 100 * time.Millisecond
	commitCheckTimeout   = 5 * time.Second
)

// CreateOptions carries what the collaborators resolved before creation.
type CreateOptions struct {
	// Attachment is the stored path of an uploaded file, stored as is.
	Attachment string
	// CreatedBy is the authenticated caller.
	CreatedBy string
}

type CreatorOption func(*Creator)

func WithRecorder(r Recorder) CreatorOption {
	return func(c *Creator) {
		if r != nil {
			c.rec = r
		}
	}
}

// WithCommitCheck sets how often an unknown commit outcome is re-checked
// before it is reported as ErrInconsistency.
func WithCommitCheck(retries int, backoff time.Duration) CreatorOption {
	return func(c *Creator) {
		if retries >= 0 {
			c.retries = retries
		}
		if backoff >= 0 {
			c.backoff = backoff
		}
	}
}

// Creator numbers and persists business documents.
//
// The number is allocated and the document inserted in one store
// transaction. The counter row stays locked from the allocation until the
// insert commits or rolls back, so a number is consumed only by a document
// that exists and concurrent creations of one module receive consecutive
// numbers. Modules do not share locks.
type Creator struct {
	store   Store
	log     logrus.FieldLogger
	rec     Recorder
	retries int
	backoff time.Duration
}

func NewCreator(store Store, log logrus.FieldLogger, opts ...CreatorOption) *Creator {
	c := &Creator{
		store:   store,
		log:     log,
		rec:     nopRecorder{},
		retries: defaultCommitRetries,
		backoff: defaultCommitBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create validates fields, assigns the next invoice number of module and
// persists the document.
func (c *Creator) Create(ctx context.Context, module string, fields Fields, opts CreateOptions) (models.Document, error) {
	doc, err := Decode(module, fields)
	if err != nil {
		return nil, err
	}
	if opts.Attachment != "" {
		doc.SetAttachment(opts.Attachment)
	}
	doc.SetCreatedBy(opts.CreatedBy)

	if _, err := c.store.Counters().Get(ctx, module); err != nil {
		if errors.Is(err, ErrCounterNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotConfigured, module)
		}
		return nil, fmt.Errorf("%w: resolve %s counter: %w", ErrPersistence, module, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	inserted := false
	err = c.store.Transaction(ctx, func(tx Store) error {
		invoiceNo, err := allocate(ctx, tx, module)
		if err != nil {
			return err
		}
		doc.AssignInvoiceNo(invoiceNo)
		if err := tx.Documents().Create(ctx, doc); err != nil {
			return err
		}
		inserted = true
		return nil
	})

	log := c.log.WithFields(logrus.Fields{
		"module":    module,
		"invoiceNo": doc.InvoiceNumber(),
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrNotConfigured):
		// the counter was removed after the check above
		return nil, err
	case errors.Is(err, ErrCounterExhausted):
		log.Error("invoice counter exhausted")
		return nil, err
	case errors.Is(err, ErrDuplicateInvoiceNo):
		c.rec.Conflict(module)
		log.Warn("invoice number already taken by another document")
		return nil, fmt.Errorf("%w: %s", ErrConflict, doc.InvoiceNumber())
	case inserted:
		if err := c.confirmCommit(ctx, module, doc, err); err != nil {
			return nil, err
		}
	default:
		log.WithError(err).Error("document creation rolled back")
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	c.rec.Issued(module)
	log.WithField("id", doc.DocumentID()).Info("document created")
	return doc, nil
}

// confirmCommit resolves a commit that failed after the insert succeeded.
// The counter advance and the insert commit together, so finding the
// document proves both were applied. The check outlives the request.
func (c *Creator) confirmCommit(ctx context.Context, module string, doc models.Document, commitErr error) error {
	ctx = context.WithoutCancel(ctx)
	log := c.log.WithFields(logrus.Fields{
		"module":    module,
		"invoiceNo": doc.InvoiceNumber(),
		"commitErr": commitErr.Error(),
	})

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(c.backoff * time.Duration(attempt))
		}
		checkCtx, cancel := context.WithTimeout(ctx, commitCheckTimeout)
		found, err := c.store.Documents().FindByInvoiceNo(checkCtx, module, doc.InvoiceNumber())
		cancel()
		switch {
		case err == nil && found.DocumentID() == doc.DocumentID():
			log.Warn("commit reported an error but the document is persisted")
			return nil
		case err == nil, errors.Is(err, ErrDocumentNotFound):
			// rolled back; a number held by another document was issued after ours
			log.Error("document creation rolled back at commit")
			return fmt.Errorf("%w: %w", ErrPersistence, commitErr)
		}
		lastErr = err
		log.WithError(err).WithField("attempt", attempt+1).Warn("commit check failed")
	}

	c.rec.Inconsistent(module)
	log.WithError(lastErr).Error("cannot confirm invoice number commit, counter may under-count persisted documents")
	return fmt.Errorf("%w: %s %s: %w", ErrInconsistency, module, doc.InvoiceNumber(), commitErr)
}
