// Package metrics exposes Prometheus metrics for invoice numbering.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Numbering counts invoicing events per module. It implements
// invoicing.Recorder.
type Numbering struct {
	registry     *prometheus.Registry
	handler      http.Handler
	issued       *prometheus.CounterVec
	conflicts    *prometheus.CounterVec
	inconsistent *prometheus.CounterVec
}

func New() *Numbering {
	registry := prometheus.NewRegistry()
	issued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_invoice_numbers_issued_total",
		Help: "Invoice numbers consumed by persisted documents.",
	}, []string{"module"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_invoice_number_conflicts_total",
		Help: "Document inserts rejected because the invoice number was taken.",
	}, []string{"module"})
	inconsistent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_invoice_inconsistencies_total",
		Help: "Creations whose counter advance could not be confirmed.",
	}, []string{"module"})
	registry.MustRegister(issued, conflicts, inconsistent)
	return &Numbering{
		registry:     registry,
		handler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		issued:       issued,
		conflicts:    conflicts,
		inconsistent: inconsistent,
	}
}

// Handler serves the registry in the Prometheus text format.
func (n *Numbering) Handler() http.Handler { return n.handler }

func (n *Numbering) Registerer() prometheus.Registerer { return n.registry }

func (n *Numbering) Issued(module string)       { n.issued.WithLabelValues(module).Inc() }
func (n *Numbering) Conflict(module string)     { n.conflicts.WithLabelValues(module).Inc() }
func (n *Numbering) Inconsistent(module string) { n.inconsistent.WithLabelValues(module).Inc() }
