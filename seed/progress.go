package seed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Progress prints a single updating status line for one embedding pass.
// It is safe for concurrent use by pool workers.
type Progress struct {
	mu      sync.Mutex
	w       io.Writer
	total   int
	every   int
	done    int
	retries int
	printed int
	started time.Time
	closed  bool
}

// NewProgress starts tracking total artifacts, redrawing the line every
// `every` completions. A nil writer discards output.
func NewProgress(w io.Writer, total, every int) *Progress {
	if w == nil {
		w = io.Discard
	}
	return &Progress{
		w:       w,
		total:   total,
		every:   max(every, 1),
		started: time.Now(),
	}
}

// Embedded records one finished artifact.
func (p *Progress) Embedded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.done == p.total {
		return
	}
	p.done++
	if p.done-p.printed >= p.every {
		p.draw()
	}
}

// Retried records one failed attempt that will be tried again.
func (p *Progress) Retried() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.retries++
}

// Done returns the number of artifacts embedded so far.
func (p *Progress) Done() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Retries returns the number of retried attempts.
func (p *Progress) Retries() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.retries
}

// Finish draws the final line and ends it. Later calls do nothing.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.draw()
	fmt.Fprintln(p.w)
}

func (p *Progress) draw() {
	p.printed = p.done

	percent := 100.0
	if p.total > 0 {
		percent = float64(p.done) / float64(p.total) * 100
	}
	perSecond := 0.0
	if secs := time.Since(p.started).Seconds(); secs > 0 {
		perSecond = float64(p.done) / secs
	}

	fmt.Fprintf(p.w, "\rEmbedding %d/%d artifacts (%.0f%%), %.1f/s", p.done, p.total, percent, perSecond)
	if p.retries > 0 {
		fmt.Fprintf(p.w, ", %d retries", p.retries)
	}
}
