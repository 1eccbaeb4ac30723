package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapview/internal/preview"
	"github.com/leapstack-labs/leapview/pkg/core"
	"github.com/spf13/cobra"
)

// previewSession is the state of an interactive preview REPL.
type previewSession struct {
	cc     *CommandContext
	virt   *core.Virtualization
	runner *preview.Runner
	format string
	out    io.Writer
	errOut io.Writer
}

func runPreviewREPL(cmd *cobra.Command, cc *CommandContext, virt *core.Virtualization, runner *preview.Runner, format string) error {
	ctx := cmd.Context()
	s := &previewSession{
		cc:     cc,
		virt:   virt,
		runner: runner,
		format: format,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}

	historyFile := ""
	if cc.Cfg.StatePath != ":memory:" {
		historyFile = filepath.Join(filepath.Dir(cc.Cfg.StatePath), "preview_history")
	}

	prompt := fmt.Sprintf("leapview(%s)> ", virt.ID)
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		AutoComplete:    s.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(s.out, "LeapView Preview REPL (virtualization: %s, %d views)\n", virt.ID, len(virt.Views))
	_, _ = fmt.Fprintln(s.out, "Type a view name to preview it, .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(s.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if s.handle(ctx, line) {
			break
		}
	}
	return nil
}

// handle processes one input line and reports whether the session should end.
func (s *previewSession) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, ".") {
		s.preview(ctx, line)
		return false
	}

	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	arg := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".views":
		for _, name := range s.virt.ViewNames() {
			_, _ = fmt.Fprintln(s.out, name)
		}

	case ".preview":
		if arg == "" {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .preview <view>")
			return false
		}
		s.preview(ctx, arg)

	case ".sources":
		if arg == "" {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .sources <view>")
			return false
		}
		view, ok := s.virt.View(arg)
		if !ok {
			_, _ = fmt.Fprintf(s.errOut, "Error: view %q not found\n", arg)
			return false
		}
		for _, src := range view.Sources {
			_, _ = fmt.Fprintln(s.out, src.String())
		}

	case ".format":
		if !isResultFormat(arg) {
			_, _ = fmt.Fprintf(s.errOut, "Usage: .format <%s>\n", strings.Join(resultFormats, "|"))
			return false
		}
		s.format = arg

	case ".limit":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .limit <rows>")
			return false
		}
		s.cc.Cfg.PreviewLimit = n
		s.runner = s.cc.NewRunner()

	case ".clear":
		_, _ = fmt.Fprint(s.out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func (s *previewSession) preview(ctx context.Context, name string) {
	view, ok := s.virt.View(name)
	if !ok {
		_, _ = fmt.Fprintf(s.errOut, "Error: view %q not found\n", name)
		return
	}
	results, err := s.runner.Run(ctx, view)
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}
	if err := renderResults(s.out, results, s.format); err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
	}
	_, _ = fmt.Fprintln(s.out)
}

func isResultFormat(f string) bool {
	for _, v := range resultFormats {
		if v == f {
			return true
		}
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  <view>            Preview a view by name
  .preview <view>   Preview a view
  .views            List the views of the virtualization
  .sources <view>   Show the sources of a view
  .format <fmt>     Set the output format (table, json, csv, md)
  .limit <rows>     Set the row limit
  .clear            Clear the screen
  .quit / .exit     Exit the REPL

Tips:
  - Use arrow keys to navigate history
  - Tab completion works for view names
`
	_, _ = fmt.Fprintln(w, help)
}

// completer creates a readline completer for view names and dot-commands.
func (s *previewSession) completer() *readline.PrefixCompleter {
	names := s.virt.ViewNames()
	views := make([]readline.PrefixCompleterInterface, 0, len(names))
	for _, name := range names {
		views = append(views, readline.PcItem(name))
	}
	formats := make([]readline.PrefixCompleterInterface, 0, len(resultFormats))
	for _, f := range resultFormats {
		formats = append(formats, readline.PcItem(f))
	}

	items := append([]readline.PrefixCompleterInterface{}, views...)
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".views"),
		readline.PcItem(".preview", views...),
		readline.PcItem(".sources", views...),
		readline.PcItem(".format", formats...),
		readline.PcItem(".limit"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
