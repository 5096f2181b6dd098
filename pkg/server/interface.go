/*
Package server implements the msgpack IPC boundary in front of the suggest service.

The host writes a stream of msgpack maps to stdin and reads replies from stdout.
Every message carries a "type" and an optional "id" that replies echo back.

# IPC

Initialization names a dictionary source, either a locator (file path or http(s) URL) or raw bytes:

	{"type": "init", "source": "/usr/share/skk/SKK-JISYO.L", "encoding": "auto"}

Loading runs in the background. When it ends the server sends one of:

	{"type": "ready", "entries": 160000}
	{"type": "error", "where": "init", "cause": "validate", "message": "...", "preview": "<!DOCTYPE html> <html>..."}

Lookups take an explicit reading, or free text whose trailing kana is used:

	{"id": "7", "type": "suggest", "reading": "かんじ"}
	{"id": "7", "type": "suggest", "reading": "かんじ", "candidates": ["漢字", "幹事"]}

Commits reply with the learned count for the pair:

	{"type": "commit", "reading": "かんじ", "candidate": "幹事"}
	{"type": "learn", "key": "かんじ|幹事", "value": 2}

convert, predict, segment and stats are answered in kind.

suggest, commit and predict sent before the dictionary is ready are queued and replayed
in arrival order once it is. The queue is bounded and drops its oldest message when full.
A failed initialization discards the queue and answers later lookups with an error.
*/
package server

import "github.com/bastiangx/kanaserve/internal/segment"

// Inbound message types.
const (
	TypeInit    = "init"
	TypeSuggest = "suggest"
	TypeCommit  = "commit"
	TypeConvert = "convert"
	TypePredict = "predict"
	TypeSegment = "segment"
	TypeStats   = "stats"
)

// Outbound-only message types.
const (
	TypeReady = "ready"
	TypeError = "error"
	TypeLearn = "learn"
)

// Request is the union of all inbound messages; only the fields its Type
// uses are set.
type Request struct {
	ID   string `msgpack:"id,omitempty"`
	Type string `msgpack:"type"`

	// init
	Source   string `msgpack:"source,omitempty"`
	Payload  []byte `msgpack:"payload,omitempty"`
	Encoding string `msgpack:"encoding,omitempty"`

	// suggest, commit
	Reading   string `msgpack:"reading,omitempty"`
	Text      string `msgpack:"text,omitempty"`
	Candidate string `msgpack:"candidate,omitempty"`

	// convert
	Mode string `msgpack:"mode,omitempty"`

	// predict
	Prefix string `msgpack:"prefix,omitempty"`
	Limit  int    `msgpack:"limit,omitempty"`
}

type ReadyMessage struct {
	Type    string `msgpack:"type"`
	Entries int    `msgpack:"entries"`
}

// ErrorMessage reports a failure. Where names the request type or "init";
// Cause is machine-readable.
type ErrorMessage struct {
	ID      string `msgpack:"id,omitempty"`
	Type    string `msgpack:"type"`
	Where   string `msgpack:"where"`
	Cause   string `msgpack:"cause"`
	Message string `msgpack:"message"`
	Preview string `msgpack:"preview,omitempty"`
}

type SuggestMessage struct {
	ID         string   `msgpack:"id,omitempty"`
	Type       string   `msgpack:"type"`
	Reading    string   `msgpack:"reading"`
	Candidates []string `msgpack:"candidates"`
}

// LearnMessage carries the new count of a committed pair under the key
// "reading|candidate".
type LearnMessage struct {
	ID    string `msgpack:"id,omitempty"`
	Type  string `msgpack:"type"`
	Key   string `msgpack:"key"`
	Value int    `msgpack:"value"`
}

type ConvertMessage struct {
	ID   string `msgpack:"id,omitempty"`
	Type string `msgpack:"type"`
	Mode string `msgpack:"mode"`
	Text string `msgpack:"text"`
}

type PredictMessage struct {
	ID       string   `msgpack:"id,omitempty"`
	Type     string   `msgpack:"type"`
	Prefix   string   `msgpack:"prefix"`
	Readings []string `msgpack:"readings"`
}

// SegmentMessage lists the morphemes of the text. Reading is the reading of
// the last one, usable as an explicit suggest reading.
type SegmentMessage struct {
	ID      string          `msgpack:"id,omitempty"`
	Type    string          `msgpack:"type"`
	Reading string          `msgpack:"reading,omitempty"`
	Tokens  []segment.Token `msgpack:"tokens"`
}

type StatsMessage struct {
	ID      string `msgpack:"id,omitempty"`
	Type    string `msgpack:"type"`
	Ready   bool   `msgpack:"ready"`
	Entries int    `msgpack:"entries"`
	Learned int    `msgpack:"learned"`
	Queued  int    `msgpack:"queued"`
}

// Error causes outside the dictionary.FormatError stages.
const (
	CauseLoad        = "load"
	CauseConfig      = "config"
	CauseNotReady    = "not_ready"
	CauseUnknownType = "unknown_type"
	CauseBadRequest  = "bad_request"
	CauseUnavailable = "unavailable"
)
