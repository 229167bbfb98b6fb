package invoicingtest

import (
	"context"
	"math"
	"sort"
	"time"

	"billing-backend/invoicing"
	"billing-backend/models"
)

type counterView struct {
	s  *Store
	tx *txn
}

func (v *counterView) Get(ctx context.Context, module string) (models.InvoiceCounter, error) {
	if v.s.GetCounterErr != nil {
		if err := v.s.GetCounterErr(); err != nil {
			return models.InvoiceCounter{}, err
		}
	}
	if v.tx != nil {
		if c, ok := v.tx.counters[module]; ok {
			return c, nil
		}
	}
	c, ok := v.s.Counter(module)
	if !ok {
		return models.InvoiceCounter{}, invoicing.ErrCounterNotFound
	}
	return c, nil
}

func (v *counterView) List(ctx context.Context) ([]models.InvoiceCounter, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	out := make([]models.InvoiceCounter, 0, len(v.s.counters))
	for _, c := range v.s.counters {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Module < out[j].Module })
	return out, nil
}

func (v *counterView) Put(ctx context.Context, counter models.InvoiceCounter) (models.InvoiceCounter, error) {
	counter.UpdatedAt = time.Now().UTC()
	if v.tx != nil {
		v.tx.lock(counter.Module)
		v.tx.counters[counter.Module] = counter
		return counter, nil
	}
	row := v.s.row(counter.Module)
	row.Lock()
	defer row.Unlock()
	v.s.mu.Lock()
	v.s.counters[counter.Module] = counter
	v.s.mu.Unlock()
	return counter, nil
}

func (v *counterView) Advance(ctx context.Context, module string) (models.InvoiceCounter, error) {
	if err := ctx.Err(); err != nil {
		return models.InvoiceCounter{}, err
	}
	if v.tx != nil {
		v.tx.lock(module)
		before, ok := v.tx.counters[module]
		if !ok {
			if before, ok = v.s.Counter(module); !ok {
				return models.InvoiceCounter{}, invoicing.ErrCounterNotFound
			}
		}
		if before.CurrentNumber == math.MaxInt64 {
			return models.InvoiceCounter{}, invoicing.ErrCounterExhausted
		}
		after := before
		after.CurrentNumber++
		after.UpdatedAt = time.Now().UTC()
		v.tx.counters[module] = after
		return before, nil
	}

	row := v.s.row(module)
	row.Lock()
	defer row.Unlock()
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	before, ok := v.s.counters[module]
	if !ok {
		return models.InvoiceCounter{}, invoicing.ErrCounterNotFound
	}
	if before.CurrentNumber == math.MaxInt64 {
		return models.InvoiceCounter{}, invoicing.ErrCounterExhausted
	}
	after := before
	after.CurrentNumber++
	after.UpdatedAt = time.Now().UTC()
	v.s.counters[module] = after
	return before, nil
}

type documentView struct {
	s  *Store
	tx *txn
}

func (v *documentView) Create(ctx context.Context, doc models.Document) error {
	if v.s.CreateErr != nil {
		if err := v.s.CreateErr(doc); err != nil {
			return err
		}
	}
	module := doc.Module()

	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	taken := func(list []models.Document) bool {
		for _, d := range list {
			if d.Module() == module && d.InvoiceNumber() == doc.InvoiceNumber() {
				return true
			}
		}
		return false
	}
	if taken(v.s.docs[module]) || (v.tx != nil && taken(v.tx.inserts)) {
		return invoicing.ErrDuplicateInvoiceNo
	}
	doc.EnsureID()
	if v.tx != nil {
		v.tx.inserts = append(v.tx.inserts, doc)
		return nil
	}
	v.s.docs[module] = append(v.s.docs[module], doc)
	return nil
}

func (v *documentView) Get(ctx context.Context, module, id string) (models.Document, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	for _, d := range v.s.docs[module] {
		if d.DocumentID() == id {
			return d, nil
		}
	}
	return nil, invoicing.ErrDocumentNotFound
}

func (v *documentView) List(ctx context.Context, module string) ([]models.Document, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return append([]models.Document(nil), v.s.docs[module]...), nil
}

func (v *documentView) Delete(ctx context.Context, module, id string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	list := v.s.docs[module]
	for i, d := range list {
		if d.DocumentID() == id {
			v.s.docs[module] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return invoicing.ErrDocumentNotFound
}

func (v *documentView) SetAttachment(ctx context.Context, module, id, path string) (models.Document, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	for _, d := range v.s.docs[module] {
		if d.DocumentID() == id {
			d.SetAttachment(path)
			return d, nil
		}
	}
	return nil, invoicing.ErrDocumentNotFound
}

func (v *documentView) FindByInvoiceNo(ctx context.Context, module, invoiceNo string) (models.Document, error) {
	if v.s.FindErr != nil {
		if err := v.s.FindErr(); err != nil {
			return nil, err
		}
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	for _, d := range v.s.docs[module] {
		if d.InvoiceNumber() == invoiceNo {
			return d, nil
		}
	}
	return nil, invoicing.ErrDocumentNotFound
}
