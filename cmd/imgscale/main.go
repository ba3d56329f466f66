package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	errorsGo "github.com/go-errors/errors"
	"github.com/spf13/cobra"

	imagescaler "github.com/Skryldev/image-scaler"
	"github.com/Skryldev/image-scaler/config"
	"github.com/Skryldev/image-scaler/hooks"
)

var rootCmd = &cobra.Command{
	Use:              filepath.Base(os.Args[0]),
	Short:            "imgscale resizes and transforms images",
	Long:             "imgscale resizes and transforms images with automatic speed/quality selection.",
	SilenceUsage:     true,
	TraverseChildren: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	cobra.EnablePrefixMatching = true
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFlag, `config`, `c`, ``, `config file (yaml, json or toml)`)
	pf.BoolVarP(&debugFlag, `debug`, `d`, false, `trace scaling decisions and print error stacks`)
	pf.StringVarP(&logFileFlag, `log-file`, `l`, ``, `log file, rotated`)
	pf.StringVar(&logLevelFlag, `log-level`, ``, `log level: debug, info, warn or error`)
	pf.StringVar(&backendFlag, `backend`, ``, `rasterizer backend`)
	pf.IntVarP(&qualityFlag, `quality`, `q`, 0, `encode quality 1-100 (0: config default)`)
	pf.StringVarP(&formatFlag, `format`, `f`, ``, `output format (default: from output extension, then input format)`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	configFlag   string
	debugFlag    bool
	logFileFlag  string
	logLevelFlag string
	backendFlag  string
	qualityFlag  int
	formatFlag   string
)

// session is what every subcommand runs against.
type session struct {
	ctx  context.Context
	proc *imagescaler.Processor
	log  *hooks.ZapLogger
}

func run(fn func(s *session) error) {
	if fn == nil {
		fatal(errorsGo.New("imgscale: nil command"))
	}
	s, err := openSession()
	if err != nil {
		fatal(err)
	}
	err = fn(s)
	s.close()
	if err != nil {
		fatal(err)
	}
}

func openSession() (*session, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	if debugFlag {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
	if logLevelFlag != `` {
		cfg.LogLevel = logLevelFlag
	}
	if backendFlag != `` {
		cfg.Backend = backendFlag
	}

	zl, err := hooks.NewZap(hooks.ZapConfig{Level: cfg.LogLevel, File: logFileFlag, Compress: true})
	if err != nil {
		return nil, err
	}
	registerExtraBackends(zl)

	proc, err := imagescaler.New(cfg, imagescaler.WithLogger(zl))
	if err != nil {
		_ = zl.Sync()
		return nil, err
	}
	attachExtraCodecs(proc)
	zl.Debug("imgscale.start", "backend", proc.Scaler().Backend(), "config", configFlag)
	return &session{ctx: context.Background(), proc: proc, log: zl}, nil
}

func (s *session) close() {
	s.proc.Stop()
	shutdownExtraBackends()
	_ = s.log.Sync()
}

func fatal(err error) {
	var stackFramer interface{ ErrorStack() string }
	if debugFlag && errors.As(err, &stackFramer) {
		fmt.Fprintln(os.Stderr, err.Error())
		fmt.Fprintln(os.Stderr, stackFramer.ErrorStack())
	} else {
		fmt.Fprintln(os.Stderr, err.Error())
	}
	os.Exit(1)
}
