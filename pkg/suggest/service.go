package suggest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bastiangx/kanaserve/pkg/dictionary"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/bastiangx/kanaserve/pkg/learning"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

// MaxCandidates caps every suggestion result.
const MaxCandidates = 20

var (
	// ErrNotReady is returned when the dictionary has not finished loading.
	ErrNotReady = errors.New("suggest: dictionary not ready")

	errAlreadyLoaded = errors.New("suggest: dictionary already loaded")
)

// Outcome classifies a suggest call for observers.
type Outcome string

const (
	OutcomeHit  Outcome = "hit"
	OutcomeMiss Outcome = "miss"
	OutcomeNone Outcome = "none"
)

// Observer receives service events. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveSuggest(outcome Outcome, took time.Duration)
	ObserveCommit()
	ObserveReady(entries int)
}

// Request carries either an explicit reading or free text whose trailing
// kana run becomes the reading. Reading wins when both are set.
type Request struct {
	Reading string
	Text    string
}

// Result is the reading that was looked up and its ordered candidates.
type Result struct {
	Reading    string
	Candidates []string
}

// Stats describes the service state.
type Stats struct {
	Ready   bool
	Entries int
	Learned int
}

// LoadFunc produces the dictionary during initialization.
type LoadFunc func(ctx context.Context) (*dictionary.Dictionary, error)

type Options struct {
	// MaxCandidates truncates results; values outside 1..20 mean 20.
	MaxCandidates int
	// MinReading is the minimum reading length in runes. Zero means
	// kana.DefaultMinReading.
	MinReading int
	// Store holds learned counts. A fresh store is used when nil.
	Store    *learning.Store
	Observer Observer
}

// Service owns one dictionary and one learning store. Suggest and Commit
// are synchronous and safe for concurrent use.
type Service struct {
	maxCandidates int
	extractor     kana.Extractor
	store         *learning.Store
	observer      Observer

	dict atomic.Pointer[dictionary.Dictionary]

	group    singleflight.Group
	mu       sync.Mutex
	finished bool
	err      error
	done     chan struct{}
}

var _ ISuggester = (*Service)(nil)

// NewService returns a service that is not ready until Load succeeds.
func NewService(opts Options) *Service {
	limit := opts.MaxCandidates
	if limit <= 0 || limit > MaxCandidates {
		limit = MaxCandidates
	}
	minReading := opts.MinReading
	if minReading == 0 {
		minReading = kana.DefaultMinReading
	}
	store := opts.Store
	if store == nil {
		store = learning.NewStore()
	}
	return &Service{
		maxCandidates: limit,
		extractor:     kana.NewExtractor(minReading),
		store:         store,
		observer:      opts.Observer,
		done:          make(chan struct{}),
	}
}

// Load runs fn once. Concurrent callers share the same run, and later calls
// return its outcome without loading again. A failed load leaves the
// service permanently not ready.
func (s *Service) Load(ctx context.Context, fn LoadFunc) error {
	s.mu.Lock()
	if s.finished {
		err := s.err
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	_, err, shared := s.group.Do("dictionary", func() (any, error) {
		s.mu.Lock()
		if s.finished {
			err := s.err
			s.mu.Unlock()
			return nil, err
		}
		s.mu.Unlock()

		start := time.Now()
		d, err := fn(ctx)
		if err == nil && d == nil {
			err = fmt.Errorf("suggest: loader returned no dictionary")
		}
		s.finish(d, err)
		if err != nil {
			log.Errorf("Dictionary load failed: %v", err)
			return nil, err
		}
		log.Debugf("Dictionary ready: %d readings in %v", d.Len(), time.Since(start))
		return nil, nil
	})
	if shared {
		log.Debugf("Joined in-flight dictionary load")
	}
	return err
}

// LoadFrom loads the dictionary at locator with loader.
func (s *Service) LoadFrom(ctx context.Context, loader *dictionary.Loader, locator string) error {
	return s.Load(ctx, func(ctx context.Context) (*dictionary.Dictionary, error) {
		return loader.Load(ctx, locator)
	})
}

// Install makes d the service's dictionary. It fails if a load already ran.
func (s *Service) Install(d *dictionary.Dictionary) error {
	ran := false
	err := s.Load(context.Background(), func(context.Context) (*dictionary.Dictionary, error) {
		ran = true
		return d, nil
	})
	if err == nil && !ran {
		return errAlreadyLoaded
	}
	return err
}

func (s *Service) finish(d *dictionary.Dictionary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.dict.Store(d)
	}
	s.err = err
	s.finished = true
	close(s.done)

	if err == nil && s.observer != nil {
		s.observer.ObserveReady(d.Len())
	}
}

func (s *Service) Ready() bool {
	return s.dict.Load() != nil
}

// Err returns the initialization error, if loading failed.
func (s *Service) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Service) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dictionary returns the loaded dictionary or ErrNotReady.
func (s *Service) Dictionary() (*dictionary.Dictionary, error) {
	d := s.dict.Load()
	if d == nil {
		return nil, ErrNotReady
	}
	return d, nil
}

func (s *Service) Suggest(req Request) Result {
	start := time.Now()
	res, outcome := s.suggest(req)
	if s.observer != nil {
		s.observer.ObserveSuggest(outcome, time.Since(start))
	}
	return res
}

func (s *Service) suggest(req Request) (Result, Outcome) {
	d := s.dict.Load()
	if d == nil {
		return Result{}, OutcomeNone
	}
	reading, ok := s.extractor.Extract(req.Text, req.Reading)
	if !ok {
		return Result{}, OutcomeNone
	}

	res := Result{Reading: reading}
	entry := d.Lookup(reading)
	if len(entry) == 0 {
		return res, OutcomeMiss
	}

	ranked := Rerank(s.store, reading, entry)
	if len(ranked) > s.maxCandidates {
		ranked = ranked[:s.maxCandidates]
	}
	res.Candidates = ranked
	return res, OutcomeHit
}

// Commit counts candidate as chosen for reading. It never changes the
// dictionary, so a candidate absent from the reading's entry will not
// appear in later results. Empty arguments are ignored.
func (s *Service) Commit(reading, candidate string) {
	if s.store.Increment(reading, candidate) == 0 {
		return
	}
	if s.observer != nil {
		s.observer.ObserveCommit()
	}
}

func (s *Service) Count(reading, candidate string) int {
	return s.store.Count(reading, candidate)
}

// Predict lists up to limit readings beginning with prefix, in lexical
// order. Katakana in prefix is folded first.
func (s *Service) Predict(prefix string, limit int) []string {
	d := s.dict.Load()
	if d == nil || prefix == "" {
		return nil
	}
	return d.ReadingsWithPrefix(kana.ToHiragana(prefix), limit)
}

func (s *Service) Stats() Stats {
	st := Stats{Learned: s.store.Len()}
	if d := s.dict.Load(); d != nil {
		st.Ready = true
		st.Entries = d.Len()
	}
	return st
}
