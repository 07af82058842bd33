package notification

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"hostel/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	maxFeed = 50

	// DefaultInterval replaces a non-positive Options.Interval.
	DefaultInterval = 10 * time.Second
)

var ErrAlreadyRunning = errors.New("notification: poller already running")

// Handler receives each notification as it is raised.
type Handler func(Notification)

type Options struct {
	Fetcher  Fetcher
	Strategy Strategy
	Store    Store
	Session  *Session
	Interval time.Duration
	Handler  Handler
}

// Poller runs one fetch per tick on a single goroutine. Results of a fetch that
// completes after Stop are discarded.
type Poller struct {
	fetcher  Fetcher
	strategy Strategy
	store    Store
	session  *Session
	interval time.Duration
	handler  Handler

	mu         sync.Mutex
	feed       []Notification
	primed     bool
	generation uint64
	cancel     context.CancelFunc
}

func NewPoller(opts Options) *Poller {
	if opts.Strategy == nil {
		opts.Strategy = &LatestStrategy{}
	}

	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}

	if opts.Session == nil {
		opts.Session = NewSession("")
	}

	if opts.Handler == nil {
		opts.Handler = func(Notification) {}
	}

	if opts.Interval <= 0 {
		log.Warn().Dur("interval", opts.Interval).Dur("default", DefaultInterval).Msg("invalid poll interval, using default")

		opts.Interval = DefaultInterval
	}

	return &Poller{
		fetcher:  opts.Fetcher,
		strategy: opts.Strategy,
		store:    opts.Store,
		session:  opts.Session,
		interval: opts.Interval,
		handler:  opts.Handler,
	}
}

func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start loads the persisted feed and begins ticking until ctx ends or Stop is called.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()

		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.generation++
	generation := p.generation
	p.mu.Unlock()

	feed, err := p.store.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load notification feed, starting empty")
	}

	p.mu.Lock()
	p.feed = feed
	p.mu.Unlock()

	go p.loop(ctx, generation)

	log.Info().Dur("interval", p.interval).Msg("notification poller started")

	return nil
}

func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel == nil {
		return
	}

	p.cancel()
	p.cancel = nil
	p.generation++

	log.Info().Msg("notification poller stopped")
}

func (p *Poller) loop(ctx context.Context, generation uint64) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx, generation)
		}
	}
}

// Poll runs a single fetch-and-diff cycle outside the ticker.
func (p *Poller) Poll(ctx context.Context) {
	p.mu.Lock()
	generation := p.generation
	p.mu.Unlock()

	p.poll(ctx, generation)
}

func (p *Poller) poll(ctx context.Context, generation uint64) {
	token := p.session.Token()
	if token == "" {
		log.Debug().Msg("no session token, skipping notification poll")

		return
	}

	records, err := p.fetcher.Fetch(ctx, token)

	for _, notification := range p.apply(ctx, generation, records, err) {
		p.handler(notification)
	}
}

// apply folds one fetch result into the feed and returns the notifications it raised.
func (p *Poller) apply(ctx context.Context, generation uint64, records []Record, err error) []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()

	if generation != p.generation {
		log.Debug().Msg("discarding notification poll result after stop")

		return nil
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		p.logout(ctx)

		return nil
	case err != nil:
		log.Warn().Err(err).Msg("notification poll failed, retrying next tick")

		return nil
	}

	if !p.primed {
		p.strategy.Prime(records)
		p.primed = true

		return nil
	}

	fresh := p.strategy.Diff(records)
	if len(fresh) == 0 {
		return nil
	}

	now := timezone.Now()
	raised := make([]Notification, 0, len(fresh))

	for _, record := range fresh {
		raised = append(raised, newNotification(record, now))
	}

	newest := slices.Clone(raised)
	slices.Reverse(newest)

	p.feed = slices.Concat(newest, p.feed)
	if len(p.feed) > maxFeed {
		p.feed = p.feed[:maxFeed]
	}

	p.persist(ctx)

	return raised
}

// logout drops the session, the strategy baseline and the stored feed.
func (p *Poller) logout(ctx context.Context) {
	log.Warn().Msg("session token rejected, clearing notification session")

	p.session.Clear()
	p.strategy.Reset()
	p.primed = false
	p.feed = nil

	if err := p.store.Clear(context.WithoutCancel(ctx)); err != nil {
		log.Error().Err(err).Msg("failed to clear notification store")
	}
}

func (p *Poller) persist(ctx context.Context) {
	if err := p.store.Save(context.WithoutCancel(ctx), p.feed); err != nil {
		log.Error().Err(err).Msg("failed to persist notification feed")
	}
}

// Notifications returns the feed, newest first.
func (p *Poller) Notifications() []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.feed)
}

func (p *Poller) UnreadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := 0

	for _, notification := range p.feed {
		if !notification.Read {
			count++
		}
	}

	return count
}

func (p *Poller) MarkAllRead(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.feed {
		p.feed[i].Read = true
	}

	p.persist(ctx)
}
