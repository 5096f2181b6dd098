// Package cli handles the interactive debug shell: romaji in, kana and
// ranked candidates out, commit by number.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/kanaserve/internal/logger"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/bastiangx/kanaserve/pkg/learning"
	"github.com/bastiangx/kanaserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler reads lines from in and writes results to out.
//
// Commands:
//
//	/<n>        commit candidate n of the last result
//	/k, /h      switch to katakana or hiragana output
//	/p <kana>   list readings starting with kana
//	/s          show stats
//	/q          quit
//
// Any other line is converted from romaji and looked up.
type InputHandler struct {
	svc       suggest.ISuggester
	mode      kana.Mode
	limit     int
	in        io.Reader
	out       io.Writer
	persister learning.Persister
	last      suggest.Result
	ctx       context.Context
	log       *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(svc suggest.ISuggester, mode kana.Mode, limit int, in io.Reader, out io.Writer) *InputHandler {
	if limit <= 0 {
		limit = suggest.MaxCandidates
	}
	return &InputHandler{
		svc:   svc,
		mode:  mode,
		limit: limit,
		in:    in,
		out:   out,
		ctx:   context.Background(),
		log:   logger.Interactive("cli"),
	}
}

// WithPersister records commits through p as well.
func (h *InputHandler) WithPersister(p learning.Persister) *InputHandler {
	h.persister = p
	return h
}

// Start runs the loop until /q, the input ends, or ctx is done.
func (h *InputHandler) Start(ctx context.Context) error {
	h.ctx = ctx
	fmt.Fprintln(h.out, titleStyle.Render("kanaserve CLI"))
	fmt.Fprintln(h.out, dimStyle.Render("type romaji and press Enter, /<n> to commit, /q to quit"))

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, promptStyle.Render(h.mode.String()+" > "))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !h.handleInput(line) {
			return nil
		}
	}
}

// handleInput processes one line. It returns false when the loop should end.
func (h *InputHandler) handleInput(line string) bool {
	if strings.HasPrefix(line, "/") {
		return h.handleCommand(line[1:])
	}

	converted := kana.Convert(line, h.mode)
	start := time.Now()
	res := h.svc.Suggest(suggest.Request{Text: converted})
	h.log.Debugf("Took [ %v ] for '%s'", time.Since(start), converted)

	if len(res.Candidates) > h.limit {
		res.Candidates = res.Candidates[:h.limit]
	}
	h.last = res

	fmt.Fprintln(h.out, kanaStyle.Render(converted))
	if res.Reading == "" {
		fmt.Fprintln(h.out, dimStyle.Render("no reading"))
		return true
	}
	if len(res.Candidates) == 0 {
		fmt.Fprintln(h.out, dimStyle.Render(fmt.Sprintf("no candidates for %s", res.Reading)))
		return true
	}
	fmt.Fprint(h.out, formatCandidates(res, func(c string) int {
		return h.svc.Count(res.Reading, c)
	}))
	return true
}

func (h *InputHandler) handleCommand(cmd string) bool {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "q", "quit":
		return false
	case "k":
		h.mode = kana.Katakana
	case "h":
		h.mode = kana.Hiragana
	case "s":
		st := h.svc.Stats()
		fmt.Fprintf(h.out, "ready=%t entries=%s learned=%s\n",
			st.Ready, formatWithCommas(st.Entries), formatWithCommas(st.Learned))
	case "p":
		readings := h.svc.Predict(kana.Convert(arg, kana.Hiragana), h.limit)
		if len(readings) == 0 {
			fmt.Fprintln(h.out, dimStyle.Render("no readings"))
			break
		}
		fmt.Fprintln(h.out, strings.Join(readings, " "))
	default:
		n, err := strconv.Atoi(name)
		if err != nil {
			h.log.Errorf("Unknown command: /%s", cmd)
			break
		}
		h.commit(n)
	}
	return true
}

func (h *InputHandler) commit(n int) {
	if n < 1 || n > len(h.last.Candidates) {
		h.log.Errorf("No candidate %d", n)
		return
	}
	cand := h.last.Candidates[n-1]
	h.svc.Commit(h.last.Reading, cand)
	if h.persister != nil {
		if err := h.persister.Record(h.ctx, h.last.Reading, cand); err != nil {
			h.log.Warnf("Failed to persist commit: %v", err)
		}
	}
	fmt.Fprintf(h.out, "%s %s %s\n",
		candStyle.Render(cand),
		dimStyle.Render("<-"),
		dimStyle.Render(fmt.Sprintf("%s (%d)", h.last.Reading, h.svc.Count(h.last.Reading, cand))))
}
