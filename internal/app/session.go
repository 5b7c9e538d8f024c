// Package app wires the storefront together. A Session owns the event
// bus, the application state, the server-side document with its views,
// and the API backend, and runs all of them on a single loop goroutine.
package app

import (
	"bytes"
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/html"

	"github.com/ivanmalyshevv/weblarek/internal/dom"
	"github.com/ivanmalyshevv/weblarek/internal/event"
	"github.com/ivanmalyshevv/weblarek/internal/model"
	"github.com/ivanmalyshevv/weblarek/internal/state"
	"github.com/ivanmalyshevv/weblarek/internal/view"
)

// Backend is the remote API a session talks to.
type Backend interface {
	Products(ctx context.Context) ([]model.Product, error)
	SubmitOrder(ctx context.Context, order model.OrderPayload) (model.OrderResult, error)
}

// Options configures a session.
type Options struct {
	// Backend is required.
	Backend Backend

	// Logger defaults to NullLogger.
	Logger *Logger

	// Metrics defaults to a fresh registry without runtime collectors.
	Metrics *Metrics

	// Locale is used for number formatting. Defaults to "ru".
	Locale string

	// Markup replaces the embedded page.
	Markup []byte

	// QueueSize bounds pending loop work. Defaults to 64.
	QueueSize int

	// SkipInitialLoad disables fetching the catalog when Run starts.
	SkipInitialLoad bool
}

// Snapshot is one rendering of the document.
type Snapshot struct {
	Revision uint64
	HTML     []byte
}

type task struct {
	name string
	fn   func(ctx context.Context) error
	done chan error
}

// views are built once and reused; only cards are recreated.
type views struct {
	env      view.Env
	page     *view.Page
	modal    *view.Modal
	basket   *view.Basket
	preview  *view.PreviewCard
	order    *view.OrderForm
	contacts *view.ContactsForm
	success  *view.Success
}

// Session is one storefront session.
type Session struct {
	opts    Options
	log     *Logger
	metrics *Metrics
	backend Backend

	bus   event.Bus
	sub   *event.Subscriber
	pub   *event.Publisher
	state *state.State
	doc   *dom.Document
	views views

	work     chan task
	running  atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
	async    sync.WaitGroup

	// Owned by the loop.
	loopCtx    context.Context
	inflight   int
	submitting bool
	watcher    *dom.TemplateWatcher

	mu        sync.RWMutex
	snapshot  Snapshot
	watchers  map[uint64]chan Snapshot
	nextWatch uint64
}

// New builds a session. Nothing runs until Run is called.
func New(opts Options) (*Session, error) {
	if opts.Backend == nil {
		return nil, &InitError{Component: "backend", Err: fmt.Errorf("nil backend")}
	}
	if opts.Logger == nil {
		opts.Logger = NullLogger
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(false)
	}
	if opts.Locale == "" {
		opts.Locale = "ru"
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}

	s := &Session{
		opts:     opts,
		log:      opts.Logger.WithComponent("session"),
		metrics:  opts.Metrics,
		backend:  opts.Backend,
		work:     make(chan task, opts.QueueSize),
		done:     make(chan struct{}),
		loopCtx:  context.Background(),
		watchers: make(map[uint64]chan Snapshot),
	}

	s.bus = event.NewBus(event.WithPanicHandler(s.handlePanic))
	s.sub = event.NewSubscriber(s.bus)
	s.pub = event.NewPublisher(s.bus, "app")
	s.state = state.New(s.bus)

	if err := s.buildDocument(); err != nil {
		return nil, err
	}
	if err := s.wire(); err != nil {
		_ = s.sub.Close()
		return nil, &InitError{Component: "subscriptions", Err: err}
	}
	s.refresh()
	return s, nil
}

func (s *Session) buildDocument() error {
	var (
		doc *dom.Document
		err error
	)
	if s.opts.Markup != nil {
		doc, err = dom.Parse(bytes.NewReader(s.opts.Markup))
	} else {
		doc, err = view.NewDocument()
	}
	if err != nil {
		return &InitError{Component: "document", Err: err}
	}
	for _, id := range view.Templates {
		if !doc.HasTemplate(id) {
			return &InitError{Component: "document", Err: fmt.Errorf("%w: #%s", dom.ErrTemplateNotFound, id)}
		}
	}
	s.doc = doc

	env := view.Env{Doc: doc, Bus: s.bus, Format: view.NewFormatter(s.opts.Locale)}
	v := views{env: env}
	build := []struct {
		name string
		fn   func() error
	}{
		{"view.page", func() (err error) { v.page, err = view.NewPage(env); return }},
		{"view.modal", func() (err error) { v.modal, err = view.NewModal(env); return }},
		{"view.basket", func() (err error) { v.basket, err = view.NewBasket(env); return }},
		{"view.card.preview", func() (err error) { v.preview, err = view.NewPreviewCard(env); return }},
		{"view.form.order", func() (err error) { v.order, err = view.NewOrderForm(env); return }},
		{"view.form.contacts", func() (err error) { v.contacts, err = view.NewContactsForm(env); return }},
		{"view.success", func() (err error) { v.success, err = view.NewSuccess(env); return }},
	}
	for _, b := range build {
		if err := b.fn(); err != nil {
			return &InitError{Component: b.name, Err: err}
		}
	}
	s.views = v

	// The basket starts out empty rather than showing template filler.
	s.views.basket.Render(view.BasketPatch{
		Items:    view.Ptr([]*html.Node{}),
		Total:    view.Ptr(s.state.BasketTotal()),
		Selected: view.Ptr(0),
	})
	return nil
}

// Run executes loop work until ctx is cancelled. In-flight API calls are
// cancelled with ctx and their results dropped.
func (s *Session) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	s.loopCtx = ctx
	defer s.shutdown()

	s.log.Info("session started")
	if !s.opts.SkipInitialLoad {
		s.loadCatalog()
	}

	for {
		select {
		case <-ctx.Done():
			s.log.Info("session stopping")
			return nil
		case t := <-s.work:
			s.execute(ctx, t)
		}
	}
}

func (s *Session) shutdown() {
	s.stopOnce.Do(func() { close(s.done) })
	s.async.Wait()
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.log.WithError(err).Warn("closing template watcher")
		}
	}
	_ = s.sub.Close()

	s.mu.Lock()
	for id, ch := range s.watchers {
		close(ch)
		delete(s.watchers, id)
	}
	s.mu.Unlock()
}

// Do runs fn on the loop and waits for it.
func (s *Session) Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	t := task{name: name, fn: fn, done: make(chan error, 1)}
	select {
	case s.work <- t:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrNotRunning
	}
	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrNotRunning
	}
}

// post queues fn without waiting. Work posted after shutdown is dropped.
func (s *Session) post(name string, fn func(ctx context.Context) error) {
	select {
	case s.work <- task{name: name, fn: fn}:
	case <-s.done:
	}
}

// goAsync runs call off the loop and posts the continuation it returns
// back onto the loop. Must be called from the loop.
func (s *Session) goAsync(name string, call func(ctx context.Context) func(ctx context.Context) error) {
	ctx := s.loopCtx
	s.inflight++
	s.async.Add(1)
	go func() {
		defer s.async.Done()
		next := call(ctx)
		s.post(name, func(ctx context.Context) error {
			s.inflight--
			if next == nil {
				return nil
			}
			return next(ctx)
		})
	}()
}

// Settle waits until no API call is in flight and every continuation has
// run.
func (s *Session) Settle(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		var idle bool
		err := s.Do(ctx, "settle", func(context.Context) error {
			idle = s.inflight == 0
			return nil
		})
		if err != nil || idle {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Session) execute(ctx context.Context, t task) {
	start := time.Now()
	err := s.safeRun(ctx, t)
	s.metrics.RecordTask(t.name, time.Since(start))
	s.refresh()

	if t.done != nil {
		t.done <- err
		return
	}
	if err != nil {
		s.log.WithError(err).WithField("task", t.name).Warn("loop task failed")
	}
}

func (s *Session) safeRun(ctx context.Context, t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.RecordPanic()
			perr := &PanicError{Value: r, Stack: string(debug.Stack())}
			s.log.WithField("task", t.name).WithField("stack", perr.Stack).Error("panic in loop task: %v", r)
			err = perr
		}
	}()
	return t.fn(ctx)
}

func (s *Session) handlePanic(ev any, recovered any, stack []byte) {
	s.metrics.RecordPanic()
	s.log.WithField("topic", event.TopicOf(ev).String()).
		WithField("stack", string(stack)).
		Error("panic in event handler: %v", recovered)
}

// refresh re-renders the document and notifies watchers when it changed.
// Runs on the loop, or in New before the loop exists.
func (s *Session) refresh() {
	out, err := s.doc.Bytes()
	if err != nil {
		s.log.WithError(err).Error("rendering document")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.HTML != nil && bytes.Equal(out, s.snapshot.HTML) {
		return
	}
	s.snapshot = Snapshot{Revision: s.snapshot.Revision + 1, HTML: out}
	s.metrics.SetDocument(s.snapshot.Revision, s.doc.ListenerCount())

	for _, ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- s.snapshot
	}
}

// Snapshot returns the latest rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Watch returns a channel receiving each new rendering. Only the newest
// undelivered snapshot is kept. The channel is closed when the session
// stops or cancel is called.
func (s *Session) Watch() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	id := s.nextWatch
	s.nextWatch++
	s.watchers[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.watchers[id]; ok {
				delete(s.watchers, id)
				close(ch)
			}
		})
	}
}

// Dispatch delivers a browser interaction to the node carrying ref and
// returns the resulting document.
func (s *Session) Dispatch(ctx context.Context, ref, typ, value string) (Snapshot, error) {
	err := s.Do(ctx, "dispatch."+typ, func(ctx context.Context) error {
		return s.doc.Dispatch(ctx, ref, typ, value)
	})
	if err != nil {
		return s.Snapshot(), &DispatchError{Ref: ref, Type: typ, Err: err}
	}
	return s.Snapshot(), nil
}

// Bus returns the session bus.
func (s *Session) Bus() event.Bus {
	return s.bus
}

// State returns the session state. It must only be used from loop work.
func (s *Session) State() *state.State {
	return s.state
}

// Document returns the session document. It must only be used from loop
// work.
func (s *Session) Document() *dom.Document {
	return s.doc
}

// Metrics returns the session metrics.
func (s *Session) Metrics() *Metrics {
	return s.metrics
}
