// Package shell provides the interactive scoring REPL.
//
// Plain lines are scored as a single response and the score vector is
// printed as JSON. Lines starting with "/" are commands.
package shell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"attractor/internal/core/basin"
	"attractor/internal/core/lexicon"
	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/logger"
	"attractor/internal/services/analyze/domain"
	"attractor/internal/services/analyze/service"
)

// Prompt is the default readline prompt
const Prompt = "attractor> "

// HistoryName is the history file created under the home directory
const HistoryName = ".attractor_history"

// errQuit ends the Run loop
var errQuit = errors.New("quit")

// Config for the shell
type Config struct {
	Prompt      string
	HistoryFile string
}

// DefaultHistoryFile returns ~/.attractor_history, or "" when there is no home
func DefaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, HistoryName)
}

// Shell is a readline loop over an analyze service
type Shell struct {
	svc *service.Service
	cfg Config
	out io.Writer
	log *logger.Logger
}

// New returns a shell writing to out
func New(svc *service.Service, cfg Config, out io.Writer) *Shell {
	if cfg.Prompt == "" {
		cfg.Prompt = Prompt
	}
	return &Shell{svc: svc, cfg: cfg, out: out, log: logger.Named("shell")}
}

// Service returns the active service; /mode swaps it
func (s *Shell) Service() *service.Service { return s.svc }

// Run reads lines until /quit, EOF or ctx is done
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.cfg.Prompt,
		HistoryFile:     s.cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    NewCompleter(),
		Stdout:          s.out,
	})
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "init readline")
	}
	defer rl.Close()
	stop := context.AfterFunc(ctx, func() { _ = rl.Close() })
	defer stop()

	fmt.Fprintln(s.out, "type text to score it, /help for commands")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeIO, "read line")
		}

		if err := s.Handle(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

// Handle runs one input line. It returns errQuit for /quit
func (s *Shell) Handle(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, "/") {
		return s.score(ctx, line)
	}

	fields := strings.Fields(line)
	cmd, args := strings.TrimPrefix(fields[0], "/"), fields[1:]
	switch cmd {
	case "quit", "exit", "q":
		return errQuit
	case "help", "h":
		s.help()
		return nil
	case "profile":
		return s.profile()
	case "mode":
		return s.mode(args)
	case "classify":
		return s.classify(args)
	}
	return perr.InvalidArgf("unknown command /%s (try /help)", cmd)
}

func (s *Shell) score(ctx context.Context, text string) error {
	sc, err := s.svc.Score(ctx, domain.Record{Text: text})
	if err != nil {
		return err
	}
	return s.json(sc)
}

func (s *Shell) help() {
	fmt.Fprint(s.out, `commands:
  /profile                      show the active profile
  /mode [multiset|distinct]     show or set the counting mode
  /classify <void> <analytical> <coupling> <cosmology>
                                label basin rates
  /help                         this text
  /quit                         leave the shell
anything else is scored as one response
`)
}

// profileView is the compact profile printed by /profile
type profileView struct {
	Name         string           `json:"name"`
	Version      int              `json:"version"`
	CountingMode string           `json:"counting_mode"`
	Categories   map[string]int   `json:"categories"`
	Pairs        int              `json:"coupling_pairs"`
	Markers      []string         `json:"markers"`
	Window       int              `json:"window"`
	Thresholds   basin.Thresholds `json:"thresholds"`
}

func viewOf(p *lexicon.Profile) profileView {
	v := profileView{
		Name:         p.Name,
		Version:      p.Version,
		CountingMode: p.CountingMode,
		Categories:   make(map[string]int, len(p.Categories)),
		Pairs:        len(p.CouplingPairs),
		Markers:      p.MarkerNames(),
		Window:       p.Temporal.Window,
		Thresholds:   p.Basin.Thresholds,
	}
	for _, c := range p.Categories {
		v.Categories[c.Name] = len(c.Terms)
	}
	return v
}

func (s *Shell) profile() error { return s.json(viewOf(s.svc.Profile())) }

func (s *Shell) mode(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(s.out, s.svc.Profile().CountingMode)
		return nil
	}
	if len(args) > 1 {
		return perr.InvalidArgf("usage: /mode multiset|distinct")
	}
	m := args[0]
	next, err := s.svc.WithProfile(s.svc.Profile().With(lexicon.Overrides{CountingMode: &m}))
	if err != nil {
		return err
	}
	s.svc = next
	s.log.Debug().Str("mode", m).Msg("counting mode changed")
	fmt.Fprintf(s.out, "counting mode: %s\n", m)
	return nil
}

func (s *Shell) classify(args []string) error {
	if len(args) != 4 {
		return perr.InvalidArgf("usage: /classify <void> <analytical> <coupling> <cosmology>")
	}
	var v [4]float64
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return perr.WithField(perr.InvalidArgf("not a number: %q", a), strconv.Itoa(i+1))
		}
		v[i] = f
	}
	label := s.svc.Classify(basin.Input{
		MeanVoidDensity:       v[0],
		MeanAnalyticalDensity: v[1],
		CouplingRate:          v[2],
		CosmologyRate:         v[3],
	})
	fmt.Fprintln(s.out, label)
	return nil
}

func (s *Shell) json(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode")
	}
	return nil
}
