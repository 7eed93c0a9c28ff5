package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	json "github.com/goccy/go-json"

	"github.com/treetop-tui/treetop/internal/datasource"
	"github.com/treetop-tui/treetop/pkg/analysis"
	"github.com/treetop-tui/treetop/pkg/config"
	"github.com/treetop-tui/treetop/pkg/debug"
	"github.com/treetop-tui/treetop/pkg/export"
	"github.com/treetop-tui/treetop/pkg/model"
	"github.com/treetop-tui/treetop/pkg/ui"
	"github.com/treetop-tui/treetop/pkg/watcher"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	initFlag := flag.Bool("init", false, "Run the first-run configuration wizard")
	configPath := flag.String("config", "", "Load configuration from an explicit file")
	exportMD := flag.String("export-md", "", "Export the outline to a Markdown report (e.g., report.md)")
	exportSnapshot := flag.String("export-snapshot", "", "Export a static outline snapshot (.svg or .png)")
	robotStats := flag.Bool("robot-stats", false, "Output outline statistics as JSON for AI agents")
	forcePoll := flag.Bool("force-poll", false, "Use polling instead of filesystem events for live reload")
	noWatch := flag.Bool("no-watch", false, "Disable live reload entirely")
	flag.Parse()

	if *help {
		fmt.Println("Usage: treetop [options] [document]")
		fmt.Println("\nA terminal outline browser for hierarchical design documents.")
		fmt.Println("The document may be a .yaml/.json/.db outline file or a directory")
		fmt.Println("to discover one in. With no argument the current directory is used.")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("treetop %s\n", Version)
		os.Exit(0)
	}

	if *initFlag {
		if err := runInitWizard(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	docPath := resolveDocPath(cfg, flag.Args())

	loadStart := time.Now()
	doc, src, err := datasource.LoadDocument(docPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading document: %v\n", err)
		fmt.Fprintln(os.Stderr, "Point treetop at an outline file or a directory containing one.")
		os.Exit(1)
	}
	debug.LogTiming("load document", time.Since(loadStart))
	debug.Log("source: %s (%s, %d nodes)", src.Path, src.Type, src.NodeCount)

	if *robotStats {
		out, err := robotStatsJSON(doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding stats: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		os.Exit(0)
	}

	if *exportMD != "" {
		if err := exportMarkdown(doc, *exportMD); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *exportMD)
		os.Exit(0)
	}

	if *exportSnapshot != "" {
		tree, err := doc.BuildTree()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building outline: %v\n", err)
			os.Exit(1)
		}
		if err := export.SaveSnapshot(export.SnapshotOptions{
			Path:  *exportSnapshot,
			Title: doc.Title,
			Tree:  tree,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *exportSnapshot)
		os.Exit(0)
	}

	prefs, err := config.OpenPrefs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: display preferences unavailable: %v\n", err)
		prefs = config.NewPrefs()
	}

	app, err := ui.NewApp(doc, src, docPath, cfg, prefs, ui.DefaultTheme())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	var w *watcher.Watcher
	if cfg.Watch.Enabled && !*noWatch {
		w, err = watcher.New(src.Path,
			watcher.WithDebounce(cfg.Watch.Debounce),
			watcher.WithPollInterval(cfg.Watch.PollInterval),
			watcher.WithForcePoll(*forcePoll),
			watcher.WithOnChange(func() {
				reloaded, rsrc, rerr := datasource.LoadDocument(src.Path)
				p.Send(ui.DocumentReloadedMsg{Doc: reloaded, Source: rsrc, Err: rerr})
			}),
			watcher.WithOnError(func(werr error) {
				debug.Log("watcher: %v", werr)
			}),
		)
		if err != nil {
			debug.Log("watcher unavailable: %v", err)
		} else if err := w.Start(); err != nil {
			debug.Log("watcher start: %v", err)
			w = nil
		} else {
			debug.Log("watching %s (polling=%v)", w.Path(), w.IsPolling())
		}
	}
	if w != nil {
		defer w.Stop()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running treetop: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// resolveDocPath picks the document to open: the positional argument wins,
// then the configured default, then the current directory.
func resolveDocPath(cfg config.Config, args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if cfg.Document.DefaultPath != "" {
		return cfg.Document.DefaultPath
	}
	return "."
}

// robotStatsJSON computes outline statistics and renders them as indented
// JSON with a generation timestamp.
func robotStatsJSON(doc *model.Document) ([]byte, error) {
	tree, err := doc.BuildTree()
	if err != nil {
		return nil, err
	}
	output := struct {
		GeneratedAt string         `json:"generated_at"`
		Stats       analysis.Stats `json:"stats"`
	}{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Stats:       analysis.Compute(doc.Title, tree),
	}
	return json.MarshalIndent(output, "", "  ")
}

func exportMarkdown(doc *model.Document, path string) error {
	tree, err := doc.BuildTree()
	if err != nil {
		return err
	}
	report, err := export.GenerateMarkdown(doc.Title, tree, time.Now())
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(report), 0o644)
}
