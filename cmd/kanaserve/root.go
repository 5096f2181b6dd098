package main

import (
	"context"
	"fmt"

	"github.com/bastiangx/kanaserve/internal/logger"
	"github.com/bastiangx/kanaserve/internal/utils"
	"github.com/bastiangx/kanaserve/pkg/config"
	"github.com/bastiangx/kanaserve/pkg/dictionary"
	"github.com/bastiangx/kanaserve/pkg/learning"
	"github.com/bastiangx/kanaserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// app carries the flags and config shared by every command.
type app struct {
	configPath string
	debug      bool
	dictPath   string
	encoding   string
	backend    string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:          AppName,
		Short:        "Romaji to kana conversion and kanji suggestions over MessagePack IPC",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (.toml, .yaml)")
	flags.BoolVarP(&a.debug, "debug", "d", false, "enable debug logging")
	flags.StringVar(&a.dictPath, "dict", "", "dictionary file or http(s) URL")
	flags.StringVar(&a.encoding, "encoding", "", "dictionary encoding: auto, utf-8 or euc-jp")
	flags.StringVar(&a.backend, "learning", "", "learning backend: memory, file, sqlite or redis")

	cmd.AddCommand(
		newServeCmd(a),
		newCliCmd(a),
		newConvertCmd(a),
		newSuggestCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	logger.SetOutput(cmd.ErrOrStderr())
	logger.Setup(a.debug)

	cfg, path, err := config.LoadConfigWithPriority(a.configPath)
	if err != nil {
		return err
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(path))

	if a.dictPath != "" {
		cfg.Dict.Path = a.dictPath
	}
	if a.encoding != "" {
		cfg.Dict.Encoding = a.encoding
	}
	if a.backend != "" {
		cfg.Learning.Backend = a.backend
	}
	cfg.Normalize()
	a.cfg = cfg
	return nil
}

// locator returns the configured dictionary, or one found in the usual
// locations when search is set.
func (a *app) locator(search bool) (string, error) {
	if a.cfg.Dict.Path != "" {
		return a.cfg.Dict.Path, nil
	}
	if search {
		if p, ok := utils.FindDictionary(utils.DictionarySearchPaths()); ok {
			return p, nil
		}
	}
	return "", fmt.Errorf("no dictionary configured; use --dict or set dict.path")
}

func (a *app) loader() *dictionary.Loader {
	enc, _ := dictionary.ParseEncoding(a.cfg.Dict.Encoding)
	return dictionary.NewLoader(enc)
}

// openLearning opens the configured backend and replays its counts into a
// fresh store.
func (a *app) openLearning(ctx context.Context) (learning.Persister, *learning.Store, error) {
	p, err := learning.Open(ctx, learning.Options{
		Backend:   a.cfg.Learning.Backend,
		Path:      a.cfg.LearningPath(),
		RedisAddr: a.cfg.Learning.RedisAddr,
		RedisKey:  a.cfg.Learning.RedisKey,
	})
	if err != nil {
		return nil, nil, err
	}
	store := learning.NewStore()
	n, err := learning.Replay(ctx, p, store)
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	log.Debug("Learning restored", "backend", a.cfg.Learning.Backend, "pairs", n)
	return p, store, nil
}

func (a *app) newService(store *learning.Store, obs suggest.Observer) *suggest.Service {
	return suggest.NewService(suggest.Options{
		MaxCandidates: a.cfg.Server.MaxCandidates,
		MinReading:    a.cfg.Server.MinReading,
		Store:         store,
		Observer:      obs,
	})
}

// loadService builds a service and loads its dictionary synchronously.
func (a *app) loadService(ctx context.Context, store *learning.Store) (*suggest.Service, error) {
	locator, err := a.locator(true)
	if err != nil {
		return nil, err
	}
	svc := a.newService(store, nil)
	if err := svc.LoadFrom(ctx, a.loader(), locator); err != nil {
		return nil, err
	}
	return svc, nil
}
