package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"crane/internal/diag"
	"crane/internal/diagfmt"
	"crane/internal/driver"
	"crane/internal/observ"
	"crane/internal/prof"
	"crane/internal/project"
	"crane/internal/source"
	"crane/internal/trace"
	"crane/internal/version"
)

// errDiagnostics is returned once diagnostics have been printed; main only sets the exit code.
var errDiagnostics = errors.New("diagnostics reported")

// skipManifest marks commands that must work without a valid crane.toml.
const skipManifest = "crane:skip-manifest"

type session struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	pathMode       diagfmt.PathMode
	ui             switchMode
	timer          *observ.Timer
	cache          *driver.DiskCache
	manifest       *project.Manifest
	closeTrace     func()
	profiler       *prof.Session
}

var current *session

func prepareSession(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	pathModeFlag, err := flags.GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}

	colorMode, err := readSwitch("color", colorFlag)
	if err != nil {
		return err
	}
	pathMode, err := readPathMode(pathModeFlag)
	if err != nil {
		return err
	}
	uiMode, err := readSwitch("ui", uiFlag)
	if err != nil {
		return err
	}

	s := &session{
		color:          colorMode.enabled(cmd.ErrOrStderr()),
		quiet:          quiet,
		timings:        timings,
		maxDiagnostics: maxDiagnostics,
		pathMode:       pathMode,
		ui:             uiMode,
		closeTrace:     func() {},
	}
	if timings {
		s.timer = observ.NewTimer()
	}
	current = s

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	s.closeTrace = cleanup

	profCfg, err := readProfileFlags(cmd)
	if err != nil {
		return err
	}
	if profCfg.Enabled() {
		if s.profiler, err = prof.Start(profCfg); err != nil {
			return err
		}
	}

	if cmd.Annotations[skipManifest] != "" {
		return nil
	}
	if err := s.loadManifest(cmd); err != nil {
		return err
	}
	if !flags.Changed("max-diagnostics") && s.manifest != nil && s.manifest.Config.Build.MaxDiagnostics > 0 {
		s.maxDiagnostics = s.manifest.Config.Build.MaxDiagnostics
	}
	if !noCache {
		cache, err := driver.OpenDiskCache("crane")
		if err != nil {
			trace.Point(trace.FromContext(cmd.Context()), trace.ScopeDriver, "cache disabled", err.Error(), 0)
		} else {
			s.cache = cache
		}
	}
	return nil
}

func (s *session) loadManifest(cmd *cobra.Command) error {
	manifest, ok, err := project.LoadFromDir(".")
	if err == nil && ok {
		err = manifest.CheckToolchain(version.Version)
	}
	var merr *project.ManifestError
	if errors.As(err, &merr) {
		fs := source.NewFileSet()
		bag := diag.NewBag(1)
		bag.Add(merr.Diagnostic(fs))
		s.printDiagnostics(cmd.ErrOrStderr(), bag, fs)
		return errDiagnostics
	}
	if err != nil {
		return err
	}
	s.manifest = manifest
	return nil
}

// closeSession flushes the tracer and prints timings; it runs even when the command failed.
func closeSession(cmd *cobra.Command) {
	s := current
	if s == nil {
		return
	}
	current = nil
	if err := s.profiler.Stop(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
	}
	s.closeTrace()
	if s.timings && s.timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), s.timer.Summary())
	}
}

func (s *session) driverOptions() driver.Options {
	return driver.Options{
		MaxDiagnostics: s.maxDiagnostics,
		Timer:          s.timer,
		Cache:          s.cache,
	}
}

func (s *session) prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     s.color,
		Context:   2,
		PathMode:  s.pathMode,
		ShowNotes: true,
	}
}

// printDiagnostics печатает bag; в quiet-режиме предупреждения без ошибок молчат.
func (s *session) printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	if s.quiet && !bag.HasErrors() {
		return
	}
	diagfmt.Pretty(w, bag, fs, s.prettyOpts())
	fmt.Fprintln(w)
}

// defaultTarget returns args[0], the manifest sources directory, or ".".
func (s *session) defaultTarget(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if s.manifest != nil {
		return s.manifest.SourcesDir()
	}
	return "."
}

func readProfileFlags(cmd *cobra.Command) (prof.Config, error) {
	flags := cmd.Root().PersistentFlags()
	var cfg prof.Config
	var err error
	if cfg.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return cfg, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if cfg.Mem, err = flags.GetString("mem-profile"); err != nil {
		return cfg, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if cfg.RuntimeTrace, err = flags.GetString("runtime-trace"); err != nil {
		return cfg, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	return cfg, nil
}

// switchMode is the auto|on|off value of --color and --ui.
type switchMode uint8

const (
	switchAuto switchMode = iota
	switchOn
	switchOff
)

func readSwitch(flag, value string) (switchMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return switchAuto, nil
	case "on", "always":
		return switchOn, nil
	case "off", "never":
		return switchOff, nil
	default:
		return 0, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

// enabled resolves auto against the stream the output goes to.
func (m switchMode) enabled(w io.Writer) bool {
	switch m {
	case switchOn:
		return true
	case switchOff:
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// useTUI reports whether a progress UI may draw on w; --quiet always wins.
func (s *session) useTUI(w io.Writer) bool {
	return !s.quiet && s.ui.enabled(w)
}

func readPathMode(value string) (diagfmt.PathMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return diagfmt.PathModeAuto, nil
	case "absolute":
		return diagfmt.PathModeAbsolute, nil
	case "relative":
		return diagfmt.PathModeRelative, nil
	case "basename":
		return diagfmt.PathModeBasename, nil
	default:
		return 0, fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", value)
	}
}
