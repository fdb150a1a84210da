// Package main is the entry point for the inlinemark tool.
//
// Usage:
//
//	inlinemark apply [--rules FILE] FILE
//	inlinemark scan [--rules FILE] [--select FROM:TO]... [--range FROM:TO]... FILE
//	inlinemark watch --rules FILE FILE
//
// Offsets on the command line and in scan output are character offsets.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/dshills/inlinemark/internal/config/loader"
	"github.com/dshills/inlinemark/internal/config/watcher"
	"github.com/dshills/inlinemark/internal/logging"
	"github.com/dshills/inlinemark/internal/markup/artifact"
	"github.com/dshills/inlinemark/internal/markup/bulk"
	"github.com/dshills/inlinemark/internal/markup/core"
	"github.com/dshills/inlinemark/internal/markup/guard"
	"github.com/dshills/inlinemark/internal/markup/rule"
	"github.com/dshills/inlinemark/internal/markup/scan"
	"github.com/dshills/inlinemark/internal/plugin/lua"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// CLI defines the command-line interface.
type CLI struct {
	LogLevel   string `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat  string `name:"log-format" default:"text" enum:"text,json" help:"Log format"`
	Rules      string `short:"r" type:"existingfile" help:"Rule file (TOML or YAML); built-in rules when unset"`
	Typesetter string `short:"t" type:"existingfile" help:"Lua typesetting script for math rules"`

	Apply   ApplyCmd   `cmd:"" help:"Substitute markup in a finished fragment"`
	Scan    ScanCmd    `cmd:"" help:"List live-mode decorations for a document"`
	Watch   WatchCmd   `cmd:"" help:"Re-apply a rule file whenever it changes"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// runEnv carries what every command needs.
type runEnv struct {
	ctx    context.Context
	stdout io.Writer
	logger *slog.Logger
	loader *loader.Loader
	ts     artifact.Typesetter
}

func (e *runEnv) ruleSet(path string) (*rule.RuleSet, error) {
	if path == "" {
		return rule.Default(), nil
	}
	return e.loader.Load(path)
}

// ApplyCmd runs static mode.
type ApplyCmd struct {
	File string `arg:"" type:"existingfile" help:"Fragment to transform"`
}

func (c *ApplyCmd) Run(cli *CLI, e *runEnv) error {
	rs, err := e.ruleSet(cli.Rules)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	out, err := bulk.ApplyContext(e.ctx, string(data), rs,
		bulk.WithTypesetter(e.ts), bulk.WithLogger(e.logger))
	if err != nil {
		return err
	}
	_, err = io.WriteString(e.stdout, out)
	return err
}

// ScanCmd runs live mode.
type ScanCmd struct {
	File       string   `arg:"" type:"existingfile" help:"Document to scan"`
	Select     []string `short:"s" placeholder:"FROM:TO" help:"Active selection; repeatable"`
	Range      []string `placeholder:"FROM:TO" help:"Range to scan; repeatable, whole document when unset"`
	Policy     string   `default:"overlap" enum:"overlap,endpoint" help:"Selection guard policy"`
	Discipline string   `placeholder:"independent|first-match" help:"Override the rule set's scanning discipline"`
	Strict     bool     `help:"Panic on out-of-range rule offsets"`
	Nodes      bool     `help:"Print artifacts built through the HTML surface"`
}

func (c *ScanCmd) Run(cli *CLI, e *runEnv) error {
	rs, err := e.ruleSet(cli.Rules)
	if err != nil {
		return err
	}
	if c.Discipline != "" {
		d, ok := rule.DisciplineFromString(c.Discipline)
		if !ok {
			return fmt.Errorf("unknown discipline %q", c.Discipline)
		}
		rs.WithDiscipline(d)
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	doc := string(data)

	selections, err := parseRanges(doc, c.Select)
	if err != nil {
		return fmt.Errorf("--select: %w", err)
	}
	ranges, err := parseRanges(doc, c.Range)
	if err != nil {
		return fmt.Errorf("--range: %w", err)
	}

	policy, ok := guard.PolicyFromString(c.Policy)
	if !ok {
		return fmt.Errorf("unknown policy %q", c.Policy)
	}
	s := scan.New(rs,
		scan.WithPolicy(policy),
		scan.WithTypesetter(e.ts),
		scan.WithLogger(e.logger),
		scan.WithStrictOffsets(c.Strict),
	)
	decorations, err := s.DecorateContext(e.ctx, doc, ranges, selections)
	if err != nil {
		return err
	}
	for _, d := range decorations {
		if err := c.print(e.stdout, doc, d); err != nil {
			return err
		}
	}
	return nil
}

func (c *ScanCmd) print(w io.Writer, doc string, d scan.Decoration) error {
	kind := "replace"
	if d.IsMark() {
		kind = "mark"
	}
	payload := d.Artifact.String()
	if c.Nodes {
		n, err := d.Artifact.Node(artifact.HTMLSurface{})
		if err != nil {
			return err
		}
		if payload, err = artifact.Render(n); err != nil {
			return err
		}
	}
	span := core.CharRange(doc, d.Span())
	_, err := fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", span.From, span.To, d.Rule, kind, payload)
	return err
}

// WatchCmd re-runs static mode on every rule file change.
type WatchCmd struct {
	File string `arg:"" type:"existingfile" help:"Fragment to transform"`
}

func (c *WatchCmd) Run(cli *CLI, e *runEnv) error {
	if cli.Rules == "" {
		return errors.New("watch requires --rules")
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	fragment := string(data)

	r, err := watcher.New(e.loader, cli.Rules, watcher.WithLogger(e.logger))
	if err != nil {
		return err
	}
	defer r.Close()

	emit := func(rs *rule.RuleSet) {
		out := bulk.Apply(fragment, rs, bulk.WithTypesetter(e.ts), bulk.WithLogger(e.logger))
		fmt.Fprintf(e.stdout, "%s\n\f\n", out)
	}
	r.OnReload(func(rs *rule.RuleSet, err error) {
		if err == nil {
			emit(rs)
		}
	})
	emit(r.Current())

	if err := r.Start(); err != nil {
		return err
	}
	<-e.ctx.Done()
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (VersionCmd) Run(e *runEnv) error {
	_, err := fmt.Fprintf(e.stdout, "inlinemark %s (%s)\n", version, commit)
	return err
}

// parseRanges parses FROM:TO character offsets into byte ranges of doc.
func parseRanges(doc string, specs []string) ([]core.Range, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make([]core.Range, 0, len(specs))
	for _, spec := range specs {
		from, to, ok := strings.Cut(spec, ":")
		if !ok {
			return nil, fmt.Errorf("%q: want FROM:TO", spec)
		}
		f, err := strconv.Atoi(from)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", spec, err)
		}
		t, err := strconv.Atoi(to)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", spec, err)
		}
		out = append(out, core.NewRange(core.ByteOffset(doc, f), core.ByteOffset(doc, t)).Normalize())
	}
	return out, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("inlinemark"),
		kong.Description("Recognize lightweight inline markup and render it"),
		kong.Writers(stdout, stderr),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	level, _ := logging.ParseLevel(cli.LogLevel)
	format, _ := logging.ParseFormat(cli.LogFormat)
	logger := logging.New(level, format, stderr)

	e := &runEnv{
		ctx:    ctx,
		stdout: stdout,
		logger: logger,
		loader: loader.New(loader.WithLogger(logger)),
	}
	if cli.Typesetter != "" {
		ts, err := lua.LoadTypesetter(cli.Typesetter)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer ts.Close()
		e.ts = ts
	}

	if err := kctx.Run(&cli, e); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
