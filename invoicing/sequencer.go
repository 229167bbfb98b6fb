// Package invoicing allocates per-module invoice numbers and creates the
// business documents that carry them.
//
// Counters live only in the Store. Nothing here caches a current number
// between calls, so several service instances can share one database.
package invoicing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"billing-backend/models"

	"github.com/sirupsen/logrus"
)

// Recorder receives numbering events. metrics.Numbering implements it.
type Recorder interface {
	Issued(module string)
	Conflict(module string)
	Inconsistent(module string)
}

type nopRecorder struct{}

func (nopRecorder) Issued(string)       {}
func (nopRecorder) Conflict(string)     {}
func (nopRecorder) Inconsistent(string) {}

// Sequencer is the source of truth for the next invoice number of a module.
type Sequencer struct {
	store Store
	log   logrus.FieldLogger
}

func NewSequencer(store Store, log logrus.FieldLogger) *Sequencer {
	return &Sequencer{store: store, log: log}
}

// Current returns the counter of module without changing it.
func (s *Sequencer) Current(ctx context.Context, module string) (models.InvoiceCounter, error) {
	if err := checkModule(module); err != nil {
		return models.InvoiceCounter{}, err
	}
	return s.store.Counters().Get(ctx, module)
}

func (s *Sequencer) List(ctx context.Context) ([]models.InvoiceCounter, error) {
	return s.store.Counters().List(ctx)
}

// Set creates or overwrites the counter of module. It is an administrative
// override: allocations running at the same time may observe either value.
func (s *Sequencer) Set(ctx context.Context, module, prefix string, startFrom int64) (models.InvoiceCounter, error) {
	if err := checkModule(module); err != nil {
		return models.InvoiceCounter{}, err
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return models.InvoiceCounter{}, fmt.Errorf("%w: prefix is required", ErrInvalidArgument)
	}
	if startFrom < 0 {
		return models.InvoiceCounter{}, fmt.Errorf("%w: startFrom must be a non-negative integer", ErrInvalidArgument)
	}
	if startFrom == math.MaxInt64 {
		return models.InvoiceCounter{}, fmt.Errorf("%w: startFrom must be below %d", ErrInvalidArgument, int64(math.MaxInt64))
	}
	counter, err := s.store.Counters().Put(ctx, models.InvoiceCounter{
		Module:        module,
		Prefix:        prefix,
		CurrentNumber: startFrom,
	})
	if err != nil {
		return models.InvoiceCounter{}, fmt.Errorf("set invoice counter %s: %w", module, err)
	}
	s.log.WithFields(logrus.Fields{
		"module":        module,
		"prefix":        counter.Prefix,
		"currentNumber": counter.CurrentNumber,
	}).Info("invoice counter set")
	return counter, nil
}

// Increment advances the counter of module by one and returns the number
// that was current before the call.
func (s *Sequencer) Increment(ctx context.Context, module string) (int64, error) {
	if err := checkModule(module); err != nil {
		return 0, err
	}
	before, err := s.store.Counters().Advance(ctx, module)
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{
		"module": module,
		"issued": before.CurrentNumber,
	}).Warn("invoice number advanced manually")
	return before.CurrentNumber, nil
}

// Allocate consumes the next number of module and returns it formatted.
// The advance is committed on return; document creation uses allocate
// inside its own transaction instead.
func (s *Sequencer) Allocate(ctx context.Context, module string) (string, error) {
	if err := checkModule(module); err != nil {
		return "", err
	}
	return allocate(ctx, s.store, module)
}

// allocate performs the atomic update-and-fetch against store, which may be
// a transactional view.
func allocate(ctx context.Context, store Store, module string) (string, error) {
	before, err := store.Counters().Advance(ctx, module)
	if errors.Is(err, ErrCounterNotFound) {
		return "", fmt.Errorf("%w: %s", ErrNotConfigured, module)
	}
	if err != nil {
		return "", fmt.Errorf("allocate %s invoice number: %w", module, err)
	}
	return before.NextInvoiceNo(), nil
}

func checkModule(module string) error {
	if !models.IsModule(module) {
		return fmt.Errorf("%w: %q", ErrUnknownModule, module)
	}
	return nil
}
