package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bastiangx/kanaserve/internal/logger"
	"github.com/bastiangx/kanaserve/internal/segment"
	"github.com/bastiangx/kanaserve/pkg/dictionary"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/bastiangx/kanaserve/pkg/learning"
	"github.com/bastiangx/kanaserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultPredictLimit applies when a predict request gives no limit.
const DefaultPredictLimit = 10

// Recorder receives transport events.
type Recorder interface {
	ObserveRequest(typ string)
	ObserveQueued()
	ObserveDropped()
	ObservePersistError()
}

// Segmenter splits text into morphemes for segment requests.
type Segmenter interface {
	Segment(text string) []segment.Token
	// TrailingReading is the reading of the last morpheme, kanji included.
	TrailingReading(text string) (string, bool)
}

type Options struct {
	// QueueSize bounds the not-ready queue.
	QueueSize int
	// Source is used when an init request names no dictionary.
	Source string
	// AutoInit starts loading Source as soon as Run begins.
	AutoInit bool
	Encoding dictionary.Encoding
	// Loader, when set, supplies the HTTP client for URL sources.
	Loader *dictionary.Loader

	Persister learning.Persister
	Segmenter Segmenter
	Recorder  Recorder
}

type state int

const (
	stateIdle state = iota
	stateLoading
	stateReady
	stateFailed
)

// Server maps inbound msgpack messages to suggest.Service calls. A single
// goroutine owns the queue and the writer.
type Server struct {
	svc   *suggest.Service
	opts  Options
	in    io.Reader
	out   *bufio.Writer
	enc   *msgpack.Encoder
	queue *Queue
	log   *log.Logger

	state    state
	loadDone chan error
}

// New returns a server reading requests from in and writing replies to out.
func New(svc *suggest.Service, in io.Reader, out io.Writer, opts Options) *Server {
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	w := bufio.NewWriter(out)
	s := &Server{
		svc:      svc,
		opts:     opts,
		in:       in,
		out:      w,
		enc:      msgpack.NewEncoder(w),
		queue:    NewQueue(opts.QueueSize),
		log:      logger.New("server"),
		loadDone: make(chan error, 1),
	}
	switch {
	case svc.Ready():
		s.state = stateReady
	case svc.Err() != nil:
		s.state = stateFailed
	}
	return s
}

// Run serves until the input ends or ctx is done. If a load is still
// running when the input ends, Run waits for it so queued requests get
// their replies.
func (s *Server) Run(ctx context.Context) error {
	inbox := make(chan frame)
	readErr := make(chan error, 1)
	go s.read(ctx, inbox, readErr)

	s.log.Debug("Starting server", "queue", s.queue.max, "auto_init", s.opts.AutoInit)
	if s.opts.AutoInit {
		s.startLoad(ctx, Request{Type: TypeInit})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-s.loadDone:
			s.finishLoad(ctx, err)

		case f, ok := <-inbox:
			if !ok {
				err := <-readErr
				if s.state == stateLoading {
					select {
					case lerr := <-s.loadDone:
						s.finishLoad(ctx, lerr)
					case <-ctx.Done():
						return ctx.Err()
					}
				}
				return err
			}
			if f.err != nil {
				s.opts.Recorder.ObserveRequest("invalid")
				s.log.Warn("Dropping undecodable request", "err", f.err)
				s.sendError(f.req.ID, "request", CauseBadRequest, f.err.Error(), "")
				continue
			}
			s.dispatch(ctx, f.req)
		}
	}
}

// frame is one inbound message. err is set when the frame is well-formed
// msgpack but does not fit Request; req then carries at most the id.
type frame struct {
	req Request
	err error
}

// read splits the stream into frames. Only stream-level failures end it; a
// frame with unexpected field types is handed on as a bad request.
func (s *Server) read(ctx context.Context, inbox chan<- frame, errc chan<- error) {
	defer close(inbox)
	dec := msgpack.NewDecoder(bufio.NewReader(s.in))
	for {
		raw, err := dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				errc <- nil
				return
			}
			errc <- fmt.Errorf("server: decoding request: %w", err)
			return
		}

		var f frame
		if err := msgpack.Unmarshal(raw, &f.req); err != nil {
			f = frame{req: Request{ID: frameID(raw)}, err: fmt.Errorf("invalid request: %w", err)}
		}
		select {
		case inbox <- f:
		case <-ctx.Done():
			errc <- nil
			return
		}
	}
}

// frameID recovers a string id from a frame that failed to decode.
func frameID(raw msgpack.RawMessage) string {
	var m map[string]any
	if err := msgpack.Unmarshal(raw, &m); err != nil {
		return ""
	}
	id, _ := m["id"].(string)
	return id
}

func (s *Server) dispatch(ctx context.Context, req Request) {
	s.opts.Recorder.ObserveRequest(req.Type)

	switch req.Type {
	case TypeInit:
		s.startLoad(ctx, req)

	case TypeSuggest, TypeCommit, TypePredict:
		switch s.state {
		case stateReady:
			s.handle(ctx, req)
		case stateFailed:
			s.sendError(req.ID, req.Type, CauseNotReady, suggest.ErrNotReady.Error(), "")
		default:
			s.enqueue(req)
		}

	case TypeConvert, TypeSegment, TypeStats:
		s.handle(ctx, req)

	default:
		s.sendError(req.ID, "request", CauseUnknownType, fmt.Sprintf("unknown message type %q", req.Type), "")
	}
}

func (s *Server) enqueue(req Request) {
	s.opts.Recorder.ObserveQueued()
	if dropped := s.queue.Push(req); dropped != nil {
		s.opts.Recorder.ObserveDropped()
		s.log.Warn("Queue full, dropped oldest request", "type", dropped.Type, "id", dropped.ID)
	}
}

func (s *Server) startLoad(ctx context.Context, req Request) {
	if s.state != stateIdle {
		s.sendError(req.ID, TypeInit, CauseBadRequest, "dictionary already initialized", "")
		return
	}

	enc := s.opts.Encoding
	if req.Encoding != "" {
		var err error
		if enc, err = dictionary.ParseEncoding(req.Encoding); err != nil {
			s.sendError(req.ID, TypeInit, CauseBadRequest, err.Error(), "")
			return
		}
	}
	loader := dictionary.NewLoader(enc)
	if s.opts.Loader != nil && s.opts.Loader.Client != nil {
		loader.Client = s.opts.Loader.Client
	}

	var fn suggest.LoadFunc
	switch {
	case len(req.Payload) > 0:
		payload := req.Payload
		fn = func(context.Context) (*dictionary.Dictionary, error) {
			return loader.LoadBytes(payload)
		}
	default:
		source := req.Source
		if source == "" {
			source = s.opts.Source
		}
		if source == "" {
			s.sendError(req.ID, TypeInit, CauseConfig, "no dictionary source given", "")
			return
		}
		fn = func(ctx context.Context) (*dictionary.Dictionary, error) {
			return loader.Load(ctx, source)
		}
	}

	s.state = stateLoading
	s.log.Debug("Loading dictionary", "encoding", enc)
	go func() {
		s.loadDone <- s.svc.Load(ctx, fn)
	}()
}

func (s *Server) finishLoad(ctx context.Context, err error) {
	if err != nil {
		s.state = stateFailed
		cause, preview := CauseLoad, ""
		var fe *dictionary.FormatError
		if errors.As(err, &fe) {
			cause, preview = fe.Stage, fe.Preview
		}
		s.sendError("", TypeInit, cause, err.Error(), preview)
		if n := len(s.queue.Drain()); n > 0 {
			s.log.Warn("Discarded queued requests after failed init", "count", n)
		}
		return
	}

	s.state = stateReady
	s.send(ReadyMessage{Type: TypeReady, Entries: s.svc.Stats().Entries})

	pending := s.queue.Drain()
	if len(pending) > 0 {
		s.log.Debug("Replaying queued requests", "count", len(pending))
	}
	for _, req := range pending {
		s.handle(ctx, req)
	}
}

func (s *Server) handle(ctx context.Context, req Request) {
	switch req.Type {
	case TypeSuggest:
		res := s.svc.Suggest(suggest.Request{Reading: req.Reading, Text: req.Text})
		cands := res.Candidates
		if cands == nil {
			cands = []string{}
		}
		s.send(SuggestMessage{ID: req.ID, Type: TypeSuggest, Reading: res.Reading, Candidates: cands})

	case TypeCommit:
		if req.Reading == "" || req.Candidate == "" {
			return
		}
		s.svc.Commit(req.Reading, req.Candidate)
		if s.opts.Persister != nil {
			if err := s.opts.Persister.Record(ctx, req.Reading, req.Candidate); err != nil {
				s.opts.Recorder.ObservePersistError()
				s.log.Warn("Failed to persist commit", "reading", req.Reading, "err", err)
			}
		}
		s.send(LearnMessage{
			ID:    req.ID,
			Type:  TypeLearn,
			Key:   learning.PairKey(req.Reading, req.Candidate),
			Value: s.svc.Count(req.Reading, req.Candidate),
		})

	case TypePredict:
		prefix := req.Prefix
		if prefix == "" {
			prefix = req.Reading
		}
		limit := req.Limit
		if limit <= 0 {
			limit = DefaultPredictLimit
		}
		readings := s.svc.Predict(prefix, limit)
		if readings == nil {
			readings = []string{}
		}
		s.send(PredictMessage{ID: req.ID, Type: TypePredict, Prefix: prefix, Readings: readings})

	case TypeConvert:
		mode := kana.Hiragana
		if req.Mode != "" {
			var err error
			if mode, err = kana.ParseMode(req.Mode); err != nil {
				s.sendError(req.ID, TypeConvert, CauseBadRequest, err.Error(), "")
				return
			}
		}
		s.send(ConvertMessage{ID: req.ID, Type: TypeConvert, Mode: mode.String(), Text: kana.Convert(req.Text, mode)})

	case TypeSegment:
		if s.opts.Segmenter == nil {
			s.sendError(req.ID, TypeSegment, CauseUnavailable, "tokenizer disabled", "")
			return
		}
		toks := s.opts.Segmenter.Segment(req.Text)
		if toks == nil {
			toks = []segment.Token{}
		}
		reading, _ := s.opts.Segmenter.TrailingReading(req.Text)
		s.send(SegmentMessage{ID: req.ID, Type: TypeSegment, Reading: reading, Tokens: toks})

	case TypeStats:
		st := s.svc.Stats()
		s.send(StatsMessage{
			ID:      req.ID,
			Type:    TypeStats,
			Ready:   st.Ready,
			Entries: st.Entries,
			Learned: st.Learned,
			Queued:  s.queue.Len(),
		})
	}
}

func (s *Server) sendError(id, where, cause, message, preview string) {
	s.send(ErrorMessage{
		ID:      id,
		Type:    TypeError,
		Where:   where,
		Cause:   cause,
		Message: message,
		Preview: preview,
	})
}

func (s *Server) send(msg any) {
	if err := s.enc.Encode(msg); err != nil {
		s.log.Error("Encoding response", "err", err)
		return
	}
	if err := s.out.Flush(); err != nil {
		s.log.Error("Writing response", "err", err)
	}
}

type nopRecorder struct{}

func (nopRecorder) ObserveRequest(string) {}
func (nopRecorder) ObserveQueued()        {}
func (nopRecorder) ObserveDropped()       {}
func (nopRecorder) ObservePersistError()  {}
