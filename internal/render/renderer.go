// Package render streams landing pages section by section. Eager sections are
// written in place; deferred sections are written as placeholders, resolved
// concurrently and swapped in strictly in document order.
package render

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/projyotish/internal/content"
	"github.com/projyotish/internal/logging"
)

var (
	// ErrSectionPanic wraps a panic raised while resolving a section.
	ErrSectionPanic = errors.New("section panicked")
	// ErrSectionTimeout 表示区块在配置的超时时间内未完成。
	ErrSectionTimeout = errors.New("section timed out")
)

// ResolveFunc produces the markup of one section.
type ResolveFunc func(ctx context.Context, ref content.SectionRef) (template.HTML, error)

// State 是区块在当前输出中的状态。
type State int

const (
	StatePending State = iota
	StateResolved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	default:
		return "pending"
	}
}

// SlotReport describes the outcome of one section after a pass.
type SlotReport struct {
	ID      string
	Loading content.Loading
	State   State
	Err     error
}

// Options 配置 Renderer。
type Options struct {
	// Timeout 为 0 表示延迟区块无限等待。
	Timeout     time.Duration
	Concurrency int
	Logger      *zap.Logger
}

// Renderer is safe for concurrent use; each page render gets its own Pass.
type Renderer struct {
	timeout time.Duration
	limit   int
	logger  *zap.Logger
}

// New 创建 Renderer。
func New(opts Options) *Renderer {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = 4
	}
	return &Renderer{
		timeout: opts.Timeout,
		limit:   limit,
		logger:  logging.OrNop(opts.Logger).Named("render"),
	}
}

type slot struct {
	ref   content.SectionRef
	done  chan struct{}
	html  template.HTML
	err   error
	state State
}

// Pass is a single render of an ordered section list.
type Pass struct {
	r       *Renderer
	ctx     context.Context
	resolve ResolveFunc
	slots   []*slot
	mu      sync.Mutex
}

// Begin starts resolving every deferred section right away. Resolution is
// detached from ctx cancellation: a section that has started is allowed to
// finish even if the caller goes away.
func (r *Renderer) Begin(ctx context.Context, refs []content.SectionRef, resolve ResolveFunc) *Pass {
	p := &Pass{r: r, ctx: ctx, resolve: resolve, slots: make([]*slot, 0, len(refs))}

	var deferred []*slot
	for _, ref := range refs {
		s := &slot{ref: ref}
		if ref.Loading == content.Deferred {
			s.done = make(chan struct{})
			deferred = append(deferred, s)
		}
		p.slots = append(p.slots, s)
	}
	if len(deferred) == 0 {
		return p
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		var g errgroup.Group
		g.SetLimit(r.limit)
		for i, s := range deferred {
			if err := ctx.Err(); err != nil {
				for _, rest := range deferred[i:] {
					rest.err = err
					close(rest.done)
				}
				break
			}
			g.Go(func() error {
				defer close(s.done)
				s.html, s.err = r.resolveWithTimeout(detached, s.ref, resolve)
				return nil
			})
		}
		_ = g.Wait()
	}()

	return p
}

func (r *Renderer) resolveWithTimeout(ctx context.Context, ref content.SectionRef, resolve ResolveFunc) (template.HTML, error) {
	if r.timeout <= 0 {
		return safeResolve(ctx, ref, resolve)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type outcome struct {
		html template.HTML
		err  error
	}
	result := make(chan outcome, 1)
	go func() {
		html, err := safeResolve(ctx, ref, resolve)
		result <- outcome{html: html, err: err}
	}()

	select {
	case o := <-result:
		return o.html, o.err
	case <-ctx.Done():
		return "", fmt.Errorf("%w after %s", ErrSectionTimeout, r.timeout)
	}
}

func safeResolve(ctx context.Context, ref content.SectionRef, resolve ResolveFunc) (html template.HTML, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			html = ""
			err = fmt.Errorf("%w: %v", ErrSectionPanic, rec)
		}
	}()
	if resolve == nil {
		return "", errors.New("no resolver configured")
	}
	return resolve(ctx, ref)
}

// WriteBody writes eager sections, resolved synchronously in document order,
// and a placeholder for every deferred section.
func (p *Pass) WriteBody(w io.Writer) error {
	for _, s := range p.slots {
		if s.ref.Loading == content.Deferred {
			if _, err := io.WriteString(w, placeholder(s.ref)); err != nil {
				return err
			}
			continue
		}
		if err := p.writeEager(w, s); err != nil {
			return err
		}
	}
	Flush(w)
	return nil
}

// StreamDeferred writes swap chunks for deferred sections in document order.
// A chunk is only written once every earlier section has settled; failed
// sections are skipped and keep their placeholder.
func (p *Pass) StreamDeferred(ctx context.Context, w io.Writer) error {
	for _, s := range p.slots {
		if s.ref.Loading != content.Deferred {
			continue
		}
		select {
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
		if s.err != nil {
			p.fail(s, s.err)
			continue
		}
		if _, err := io.WriteString(w, swapChunk(s.ref, s.html)); err != nil {
			return err
		}
		p.setState(s, StateResolved)
		Flush(w)
	}
	return nil
}

// WriteSettled writes every section in place, waiting for deferred sections
// in document order. Used for static export where nothing is streamed.
func (p *Pass) WriteSettled(ctx context.Context, w io.Writer) error {
	for _, s := range p.slots {
		if s.ref.Loading != content.Deferred {
			if err := p.writeEager(w, s); err != nil {
				return err
			}
			continue
		}
		select {
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
		markup := placeholder(s.ref)
		if s.err != nil {
			p.fail(s, s.err)
		} else {
			markup = wrap(s.ref, s.html)
			p.setState(s, StateResolved)
		}
		if _, err := io.WriteString(w, markup); err != nil {
			return err
		}
	}
	return nil
}

// Report returns per-section outcomes in document order.
func (p *Pass) Report() []SlotReport {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]SlotReport, 0, len(p.slots))
	for _, s := range p.slots {
		report := SlotReport{ID: s.ref.ID, Loading: s.ref.Loading, State: s.state}
		if s.state == StateFailed {
			report.Err = s.err
		}
		out = append(out, report)
	}
	return out
}

func (p *Pass) writeEager(w io.Writer, s *slot) error {
	html, err := safeResolve(p.ctx, s.ref, p.resolve)
	if err != nil {
		s.err = err
		p.fail(s, err)
		_, werr := io.WriteString(w, unavailable(s.ref))
		return werr
	}
	if _, err := io.WriteString(w, wrap(s.ref, html)); err != nil {
		return err
	}
	p.setState(s, StateResolved)
	return nil
}

func (p *Pass) fail(s *slot, err error) {
	p.r.logger.Warn("section unavailable",
		zap.String("section", s.ref.ID),
		zap.Stringer("loading", s.ref.Loading),
		zap.Error(err),
	)
	p.setState(s, StateFailed)
}

func (p *Pass) setState(s *slot, state State) {
	p.mu.Lock()
	s.state = state
	p.mu.Unlock()
}

type flusher interface {
	Flush()
}

// Flush flushes w when it supports it, as http.ResponseWriter does.
func Flush(w io.Writer) {
	if f, ok := w.(flusher); ok {
		f.Flush()
	}
}
