package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"endgames/internal/analysis"
	"endgames/internal/assemble"
	"endgames/internal/browse"
	"endgames/internal/logging"
	"endgames/internal/render"
	"endgames/internal/scenario"
	"endgames/internal/settings"
	"endgames/internal/tree"
	"endgames/internal/writer"
)

// command describes a CLI subcommand.
type command struct {
	name  string
	short string
	usage string
	long  string
	run   func(args []string) error
}

var commands = []command{
	{
		name:  "generate",
		short: "Regenerate the scenario repository (default)",
		usage: "endgames generate",
		long: `Delete the output directory if it exists, then write every scenario
artifact and the aggregate documents into it.

Running endgames with no arguments does the same. The output directory is
$ENDGAMES_OUTPUT_DIR (default 2026-endgames).
`,
		run: runGenerate,
	},
	{
		name:  "analyze",
		short: "Print trigger statistics for a generated repository",
		usage: "endgames analyze [dir | --table]",
		long: `Read every branches/*/scenario.json under dir (default: the output
directory), count triggers by status and list scenarios by descending
probability. Prints the same report as scripts/analyze.py.

With --table, analyze the built-in scenario table in table order instead
of a generated repository.
`,
		run: runAnalyze,
	},
	{
		name:  "check",
		short: "Report whether the output directory is up to date",
		usage: "endgames check",
		long: `Generate into a temporary directory and compare it with the output
directory byte for byte. Exits non-zero and lists the differing files when
they do not match.
`,
		run: runCheck,
	},
	{
		name:  "show",
		short: "Render one scenario summary in the terminal",
		usage: "endgames show <branch>",
		long: `Render branches/<branch>/scenario.md for the terminal without writing
anything to disk.
`,
		run: runShow,
	},
	{
		name:  "browse",
		short: "Browse scenarios interactively",
		usage: "endgames browse",
		long: `Open an interactive table of scenarios. enter opens the summary, esc
goes back, q quits.
`,
		run: runBrowse,
	},
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "endgames — scenario repository generator\n\n")
	fmt.Fprintf(w, "Usage:\n  endgames [command] [arguments]\n\n")
	fmt.Fprintf(w, "With no command, endgames regenerates the repository.\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.short)
	}
	fmt.Fprintf(w, "\nRun 'endgames help <command>' for details on a specific command.\n")
}

func printCommandHelp(w io.Writer, name string) {
	for _, cmd := range commands {
		if cmd.name == name {
			fmt.Fprintf(w, "Usage: %s\n\n%s", cmd.usage, cmd.long)
			return
		}
	}
	fmt.Fprintf(w, "endgames: unknown command %q\n\nRun 'endgames help' for usage.\n", name)
}

func dispatch(args []string) error {
	if len(args) == 0 {
		return runGenerate(nil)
	}
	if args[0] == "--help" || args[0] == "-h" {
		printUsage(os.Stdout)
		return nil
	}
	if args[0] == "help" {
		if len(args) >= 2 {
			printCommandHelp(os.Stdout, args[1])
		} else {
			printUsage(os.Stdout)
		}
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(args[1:])
		}
	}
	return fmt.Errorf("unknown command %q\n\nRun 'endgames help' for usage.", args[0])
}

// ---------------------------------------------------------------------------
// generate
// ---------------------------------------------------------------------------

func runGenerate(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("usage: endgames generate")
	}
	cfg, err := settings.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	table, err := scenario.Default()
	if err != nil {
		return err
	}
	if err := generate(cfg, table, logger); err != nil {
		return err
	}
	printGuidance(os.Stdout, cfg.OutputDir)
	return nil
}

// generate builds the repository, then clears cfg.OutputDir and writes it.
// A build failure leaves the previous output untouched.
func generate(cfg settings.Settings, table scenario.Table, logger *zap.Logger) error {
	bundle, err := assemble.Generate(table, cfg)
	if err != nil {
		return err
	}

	existed, err := writer.Reset(cfg.OutputDir)
	if err != nil {
		return err
	}
	if existed {
		logger.Info("removed previous output", zap.String("dir", cfg.OutputDir))
	}
	logger.Info("generating", zap.Int("scenarios", table.Len()), zap.Int("files", len(bundle.Pages())))
	return render.WriteBundle(bundle, writer.New(cfg.OutputDir, logger))
}

var (
	doneStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	stepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// printGuidance prints the next steps after a successful run.
func printGuidance(w io.Writer, outputDir string) {
	repo := filepath.Base(outputDir)
	fmt.Fprintln(w, doneStyle.Render(fmt.Sprintf("✅ 完成：已生成 %s", outputDir)))
	fmt.Fprintln(w, "下一步：")
	for _, step := range []string{
		"cd " + outputDir,
		"git init && git add . && git commit -m 'Initial commit: scenarios'",
		fmt.Sprintf("（若使用 GitHub CLI）gh repo create %s --public --source=. --remote=origin --push", repo),
	} {
		fmt.Fprintln(w, "  "+stepStyle.Render(step))
	}
}

// ---------------------------------------------------------------------------
// analyze
// ---------------------------------------------------------------------------

func runAnalyze(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: endgames analyze [dir | --table]")
	}
	cfg, err := settings.Load()
	if err != nil {
		return err
	}
	return analyze(os.Stdout, cfg, args)
}

// analyze prints the report for the generated tree (or args[0]), or for the
// built-in table when args[0] is --table.
func analyze(w io.Writer, cfg settings.Settings, args []string) error {
	var scenarios []scenario.Scenario
	if len(args) == 1 && args[0] == "--table" {
		table, err := scenario.Default()
		if err != nil {
			return err
		}
		scenarios = analysis.FromTable(table)
	} else {
		root := cfg.OutputDir
		if len(args) == 1 {
			root = args[0]
		}
		loaded, err := analysis.Load(root)
		if err != nil {
			return err
		}
		if len(loaded) == 0 {
			return fmt.Errorf("no scenarios under %s (run 'endgames' first, or use --table)", root)
		}
		scenarios = loaded
	}
	report, err := analysis.Summarize(scenarios)
	if err != nil {
		return err
	}
	return report.Print(w)
}

// ---------------------------------------------------------------------------
// check
// ---------------------------------------------------------------------------

var errStale = errors.New("output is stale")

func runCheck(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("usage: endgames check")
	}
	cfg, err := settings.Load()
	if err != nil {
		return err
	}
	table, err := scenario.Default()
	if err != nil {
		return err
	}
	diffs, err := check(cfg, table)
	if err != nil {
		return err
	}
	if len(diffs) > 0 {
		for _, d := range diffs {
			fmt.Fprintln(os.Stdout, d)
		}
		return fmt.Errorf("%w: %d file(s) differ from %s; run 'endgames' to regenerate", errStale, len(diffs), cfg.OutputDir)
	}
	fmt.Fprintf(os.Stdout, "%s is up to date\n", cfg.OutputDir)
	return nil
}

// check regenerates into a temporary directory and diffs it against
// cfg.OutputDir.
func check(cfg settings.Settings, table scenario.Table) ([]string, error) {
	if _, err := os.Stat(cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("%w: %v", errStale, err)
	}
	tmp, err := os.MkdirTemp("", "endgames-check-")
	if err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	fresh := cfg
	fresh.OutputDir = tmp
	if err := generate(fresh, table, zap.NewNop()); err != nil {
		return nil, err
	}

	want, err := tree.Snapshot(tmp)
	if err != nil {
		return nil, err
	}
	got, err := tree.Snapshot(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	return tree.Diff(want, got), nil
}

// ---------------------------------------------------------------------------
// show / browse
// ---------------------------------------------------------------------------

func runShow(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: endgames show <branch>")
	}
	table, err := scenario.Default()
	if err != nil {
		return err
	}
	s, err := table.Lookup(args[0])
	if err != nil {
		return err
	}
	out, err := browse.Render(render.Summary(s), 80)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, out)
	return nil
}

func runBrowse(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("usage: endgames browse")
	}
	table, err := scenario.Default()
	if err != nil {
		return err
	}
	return browse.Run(table)
}

func main() {
	if err := dispatch(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
