// Copyright 2025 The KanaServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the kanaserve IME server and its debugging commands.

kanaserve turns romaji into kana and suggests kanji candidates for the reading
at the end of the typed text, looked up in an SKK dictionary and reordered by
how often each candidate was chosen before. It runs as a MessagePack IPC
server for editors and input frontends, or as a set of commands for testing.

# Usage

Start the server, loading the configured dictionary right away:

	kanaserve serve --dict /usr/share/skk/SKK-JISYO.L

Without --dict or a configured path the server waits for an init message, or
searches the usual SKK locations when started with --auto.

Try the engine interactively:

	kanaserve cli
	hiragana > kannji
	かんじ
	2 candidates for かんじ:
	 1. 漢字
	 2. 幹事
	hiragana > /2

One-off conversions and lookups:

	kanaserve convert --katakana raamen
	kanaserve suggest かんじ

# Configuration

Settings live in [ConfigDir]/kanaserve/config.toml, created with defaults on
first run. A .yaml or .yml file may be given with --config instead.

	[server]
	max_candidates = 20
	min_reading = 2
	queue_size = 256

	[dict]
	path = "/usr/share/skk/SKK-JISYO.L"
	encoding = "auto"

	[learning]
	backend = "file"   # memory, file, sqlite or redis

	[metrics]
	addr = ":9108"

Flags override the file.

# Learning

Every commit raises the count of its (reading, candidate) pair, and candidates
with higher counts move to the front. Counts live in memory; the learning
backend mirrors them to a msgpack snapshot, a SQLite database or a Redis hash
so they survive restarts.

# IPC Protocol

See package server for the message types. Logs go to stderr so stdout carries
only MessagePack.
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

const (
	Version = "0.1.0"
	AppName = "kanaserve"
	gh      = "https://github.com/bastiangx/kanaserve"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
