package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmagro/soldev/internal/cluster"
	"github.com/dmagro/soldev/internal/config"
	"github.com/dmagro/soldev/internal/explorer"
	"github.com/dmagro/soldev/internal/input"
	"github.com/dmagro/soldev/internal/logging"
	"github.com/dmagro/soldev/internal/numfmt"
	"github.com/dmagro/soldev/internal/output"
	"github.com/dmagro/soldev/internal/report"
	"github.com/dmagro/soldev/internal/rpc"
)

const (
	formatTerminal = "terminal"
	formatJSON     = "json"
)

// env is everything a command needs after flags and config are read.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	locale  numfmt.Locale
	format  string
	urlFlag string
}

func setup(cmd *cobra.Command) (*env, error) {
	flags := cmd.Root().PersistentFlags()
	cfgPath, _ := flags.GetString("config")
	urlFlag, _ := flags.GetString("url")
	commitment, _ := flags.GetString("commitment")
	format, _ := flags.GetString("format")
	verbose, _ := flags.GetBool("verbose")

	if format != formatTerminal && format != formatJSON {
		return nil, fmt.Errorf("unknown format %q (want terminal or json)", format)
	}
	if format == formatJSON || !output.IsTerminal() {
		output.DisableColors()
	}

	logger := logging.New(verbose)

	cfg, err := config.Load(cfgPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if commitment != "" {
		cfg.Commitment = commitment
		if err := cfg.Validate(logger); err != nil {
			return nil, err
		}
	}

	locale := numfmt.FromEnv(os.Getenv)
	if cfg.Locale != "" {
		locale = numfmt.Parse(cfg.Locale)
	}

	return &env{
		cfg:     cfg,
		logger:  logger,
		locale:  locale,
		format:  format,
		urlFlag: urlFlag,
	}, nil
}

// resolve picks the cluster for a command. An explicit --url wins, then the
// cluster carried by an explorer link, then the configured fallback.
func (e *env) resolve(linkCluster string) (cluster.Ref, error) {
	in := e.urlFlag
	if in == "" {
		in = linkCluster
	} else if linkCluster != "" {
		e.logger.Debug("--url overrides explorer link cluster",
			zap.String("url", in), zap.String("link", linkCluster))
	}

	ref, err := cluster.ParseFlag(in, e.cfg.FallbackURL())
	if err != nil {
		return cluster.Ref{}, err
	}
	e.logger.Debug("resolved cluster", zap.String("cluster", ref.String()), zap.String("endpoint", ref.URL()))
	return ref, nil
}

func (e *env) clientConfig() rpc.ClientConfig {
	return rpc.ClientConfig{
		Timeout:        e.cfg.Timeout,
		MaxRetries:     e.cfg.MaxRetries,
		BackoffInitial: e.cfg.BackoffInitial,
		BackoffMax:     e.cfg.BackoffMax,
		Commitment:     e.cfg.Commitment,
		Logger:         e.logger,
	}
}

func (e *env) reportOptions() report.Options {
	return report.Options{
		Now:      time.Now(),
		Location: time.Local,
		Locale:   e.locale,
	}
}

// render writes doc as JSON or hands w to the terminal renderer.
func (e *env) render(w io.Writer, doc any, terminal func(io.Writer)) error {
	if e.format == formatJSON {
		return output.WriteJSON(w, doc)
	}
	terminal(w)
	return nil
}

func entityFor(t input.Target) explorer.Entity {
	switch t.Kind {
	case input.Signature:
		return explorer.Entity{Kind: explorer.Transaction, Value: t.Value}
	case input.Block:
		return explorer.Entity{Kind: explorer.Block, Value: t.Value}
	default:
		return explorer.Entity{Kind: explorer.Address, Value: t.Value}
	}
}

// clusterName is the moniker of ref, or "custom" for endpoints that matched no cluster.
func clusterName(ref cluster.Ref) string {
	if ref.IsCustom() {
		return "custom"
	}
	return ref.Cluster.String()
}
