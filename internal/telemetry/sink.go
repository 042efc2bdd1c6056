package telemetry

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

// ringSize is the bounded CSV ring buffer's slot count.
const ringSize = 1000

// flushEvery is the number of records the sink batches before flushing
// the CSV writer to disk.
const flushEvery = 10

// drainTimeout bounds how long the sink waits on an empty ring before
// re-checking for shutdown, so it can observe cancellation promptly
// while still draining whatever remains once it is signaled.
const drainTimeout = 100 * time.Millisecond

// Sink is the CSV sink worker: a mutex-protected bounded ring of
// pending Records, drained by a single consumer goroutine that writes
// one CSV row per axis per record.
type Sink struct {
	mu     sync.Mutex
	buf    []Record
	notify chan struct{}

	w         *csv.Writer
	written   int
	headerPut bool
}

// NewSink wraps w in a header-writing CSV sink with a bounded ring
// buffer of ringSize records.
func NewSink(w io.Writer) *Sink {
	return &Sink{
		buf:    make([]Record, 0, ringSize),
		notify: make(chan struct{}, 1),
		w:      csv.NewWriter(w),
	}
}

// Enqueue pushes rec onto the ring, blocking the caller if it is full.
// Callers are expected to be the control worker via Engine's onRecord
// callback, so a full ring indicates the sink has fallen behind.
func (s *Sink) Enqueue(rec Record) {
	for {
		s.mu.Lock()
		if len(s.buf) < ringSize {
			s.buf = append(s.buf, rec)
			s.mu.Unlock()
			select {
			case s.notify <- struct{}{}:
			default:
			}
			return
		}
		s.mu.Unlock()
		time.Sleep(time.Millisecond)
	}
}

// Run drains the ring until done is closed and the ring is empty,
// writing rows and flushing every flushEvery records. It waits at most
// drainTimeout on an empty ring before re-checking for shutdown.
func (s *Sink) Run(done <-chan struct{}) {
	if !s.headerPut {
		if err := s.w.Write([]string{"step", "time", "target", "actual", "error", "force", "mode"}); err != nil {
			log.Printf("[telemetry] csv header: %v", err)
		}
		s.headerPut = true
	}

	for {
		rec, ok := s.pop(done)
		if !ok {
			select {
			case <-done:
				s.drainRemaining()
				s.w.Flush()
				return
			default:
				continue
			}
		}
		s.writeRecord(rec)
	}
}

func (s *Sink) pop(done <-chan struct{}) (Record, bool) {
	s.mu.Lock()
	if len(s.buf) > 0 {
		rec := s.buf[0]
		s.buf = s.buf[1:]
		s.mu.Unlock()
		return rec, true
	}
	s.mu.Unlock()

	select {
	case <-s.notify:
		return s.pop(done)
	case <-done:
		return Record{}, false
	case <-time.After(drainTimeout):
		return Record{}, false
	}
}

func (s *Sink) drainRemaining() {
	s.mu.Lock()
	remaining := s.buf
	s.buf = nil
	s.mu.Unlock()
	for _, rec := range remaining {
		s.writeRecord(rec)
	}
}

func (s *Sink) writeRecord(rec Record) {
	for _, sample := range rec.Samples {
		row := []string{
			fmt.Sprintf("%d", rec.Step),
			fmt.Sprintf("%.6f", rec.Time),
			fmt.Sprintf("%.15f", sample.Target),
			fmt.Sprintf("%.15f", sample.Actual),
			fmt.Sprintf("%.15f", sample.Error),
			fmt.Sprintf("%.9f", sample.Force),
			fmt.Sprintf("%d", sample.Mode),
		}
		if err := s.w.Write(row); err != nil {
			log.Printf("[telemetry] csv write: %v", err)
		}
	}
	s.written++
	if s.written%flushEvery == 0 {
		s.w.Flush()
	}
}
