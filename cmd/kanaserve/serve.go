package main

import (
	"context"
	"errors"
	"os"

	"github.com/bastiangx/kanaserve/internal/metrics"
	"github.com/bastiangx/kanaserve/internal/segment"
	"github.com/bastiangx/kanaserve/pkg/dictionary"
	"github.com/bastiangx/kanaserve/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		queueSize   int
		metricsAddr string
		tokenizer   bool
		auto        bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MessagePack IPC server on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("queue") {
				a.cfg.Server.QueueSize = queueSize
			}
			if cmd.Flags().Changed("metrics") {
				a.cfg.Metrics.Addr = metricsAddr
			}
			if cmd.Flags().Changed("tokenizer") {
				a.cfg.Tokenizer.Enabled = tokenizer
			}
			return a.serve(cmd.Context(), auto)
		},
	}
	cmd.Flags().IntVar(&queueSize, "queue", 0, "max requests held until the dictionary is ready")
	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&tokenizer, "tokenizer", false, "enable segment requests (kagome)")
	cmd.Flags().BoolVar(&auto, "auto", false, "search the usual locations for a dictionary when none is configured")
	return cmd
}

func (a *app) serve(parent context.Context, search bool) error {
	persister, store, err := a.openLearning(parent)
	if err != nil {
		return err
	}
	defer func() {
		if err := persister.Close(); err != nil {
			log.Errorf("Closing learning backend: %v", err)
		}
	}()

	m := metrics.New()
	svc := a.newService(store, m)

	opts := server.Options{
		QueueSize: a.cfg.Server.QueueSize,
		Persister: persister,
		Recorder:  m,
	}
	opts.Encoding, _ = dictionary.ParseEncoding(a.cfg.Dict.Encoding)
	if locator, err := a.locator(search); err == nil {
		opts.Source = locator
		opts.AutoInit = true
	} else {
		log.Debug("No dictionary configured, waiting for init")
	}
	if a.cfg.Tokenizer.Enabled {
		seg, err := segment.New()
		if err != nil {
			return err
		}
		opts.Segmenter = seg
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	srv := server.New(svc, os.Stdin, os.Stdout, opts)
	g.Go(func() error {
		defer cancel()
		return srv.Run(gctx)
	})
	if addr := a.cfg.Metrics.Addr; addr != "" {
		g.Go(func() error {
			return m.Serve(gctx, addr)
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
