// ABOUTME: IngestionGateway: validate, dedup, mutate, flush, report.
// ABOUTME: Validates the whole batch before any mutation takes place.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harperreed/ringd/internal/models"
	"github.com/harperreed/ringd/internal/storage"
	"github.com/harperreed/ringd/internal/store"
)

var (
	insertedTotal   = metrics.NewCounter("ringd_records_inserted_total")
	skippedTotal    = metrics.NewCounter("ringd_records_skipped_total")
	rejectedTotal   = metrics.NewCounter("ringd_batches_rejected_total")
	flushTotal      = metrics.NewCounter("ringd_flushes_total")
	flushErrorTotal = metrics.NewCounter("ringd_flush_errors_total")
)

// Report summarizes one accepted upload.
type Report struct {
	BatchID  string `json:"batch_id"`
	Type     string `json:"type"`
	Received int    `json:"received"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
	Message  string `json:"message"`
}

// Gateway applies uploaded batches to the store and keeps disk in step.
type Gateway struct {
	store   *store.Store
	backend storage.Backend
	logger  *log.Logger
	now     func() time.Time
}

// New returns a gateway writing to st and flushing through backend.
func New(st *store.Store, backend storage.Backend, logger *log.Logger) *Gateway {
	return &Gateway{store: st, backend: backend, logger: logger, now: time.Now}
}

// Ingest validates and applies one type-homogeneous batch. Validation
// failures reject the whole batch with no mutation. A flush failure
// after mutation returns ErrPersistence alongside the report; memory
// keeps the new records so a later flush can heal the divergence.
func (g *Gateway) Ingest(typeName string, payload json.RawMessage) (*Report, error) {
	if !models.IsValidRecordType(typeName) {
		rejectedTotal.Inc()
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
	rt := models.RecordType(typeName)

	report := &Report{BatchID: uuid.NewString(), Type: typeName}

	if models.IsSingletonType(rt) {
		return g.ingestSingleton(rt, payload, report)
	}

	def, err := models.Lookup(rt)
	if err != nil {
		// Registry gaps are caught by the startup self-check; reaching
		// this is a programming error.
		return nil, err
	}

	recs, err := decodeBatch(def, payload)
	if err != nil {
		rejectedTotal.Inc()
		return nil, err
	}
	report.Received = len(recs)

	var flushErr error
	_ = g.store.Update(func(st *store.State) error {
		c := st.Collection(rt)
		for _, rec := range recs {
			if Resolve(c, rec) == Skip {
				report.Skipped++
				continue
			}
			c.Insert(rec)
			report.Inserted++
		}
		if report.Inserted > 0 {
			st.Touch(rt, g.now())
			flushErr = g.flush(st)
		}
		return nil
	})

	insertedTotal.Add(report.Inserted)
	skippedTotal.Add(report.Skipped)
	report.Message = fmt.Sprintf("Received %d %s records", report.Received, typeName)

	g.logger.Info("batch ingested",
		"batch", report.BatchID, "type", typeName,
		"received", report.Received, "inserted", report.Inserted,
		"skipped", report.Skipped)

	if flushErr != nil {
		return report, fmt.Errorf("%w: %w", ErrPersistence, flushErr)
	}
	return report, nil
}

// ingestSingleton replaces a singleton document wholesale. The upload
// shape matches the sample collections: an array whose first element is
// the document.
func (g *Gateway) ingestSingleton(rt models.RecordType, payload json.RawMessage, report *Report) (*Report, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(payload, &elems); err != nil {
		rejectedTotal.Inc()
		return nil, fmt.Errorf("%w: data must be an array", ErrValidation)
	}
	if len(elems) == 0 {
		rejectedTotal.Inc()
		return nil, fmt.Errorf("%w: empty %s upload", ErrValidation, rt)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(elems[0], &obj); err != nil {
		rejectedTotal.Inc()
		return nil, fmt.Errorf("%w: %s document must be an object", ErrValidation, rt)
	}

	report.Received = len(elems)
	report.Inserted = 1
	report.Message = fmt.Sprintf("Received %d %s records", report.Received, rt)

	var flushErr error
	_ = g.store.Update(func(st *store.State) error {
		st.SetSingleton(rt, elems[0])
		st.Touch(rt, g.now())
		flushErr = g.flush(st)
		return nil
	})

	g.logger.Info("singleton replaced", "batch", report.BatchID, "type", rt)

	if flushErr != nil {
		return report, fmt.Errorf("%w: %w", ErrPersistence, flushErr)
	}
	return report, nil
}

// flush persists a snapshot of st. Called with the store's write lock
// held so readers and other writers wait for the flush to settle.
func (g *Gateway) flush(st *store.State) error {
	flushTotal.Inc()
	if err := g.backend.Flush(st.Snapshot()); err != nil {
		flushErrorTotal.Inc()
		g.logger.Error("flush failed", "error", err)
		return err
	}
	return nil
}

// decodeBatch validates and decodes every element before anything is
// applied. The first bad element rejects the batch.
func decodeBatch(def models.Definition, payload json.RawMessage) ([]models.Record, error) {
	// Unmarshal accepts a literal null into a slice, leaving it nil;
	// only an actual array counts as a batch.
	if string(bytes.TrimSpace(payload)) == "null" {
		return nil, fmt.Errorf("%w: data must be an array", ErrValidation)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(payload, &elems); err != nil {
		return nil, fmt.Errorf("%w: data must be an array", ErrValidation)
	}

	recs := make([]models.Record, 0, len(elems))
	for i, raw := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrValidation, i)
		}
		for _, name := range def.RequiredFields {
			if _, ok := fields[name]; !ok {
				return nil, fmt.Errorf("%w: element %d missing required field %q", ErrValidation, i, name)
			}
		}
		rec, err := def.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrValidation, i, err)
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrValidation, i, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
