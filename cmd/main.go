package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/Akashdeep-Patra/sdash/internal/api"
	"github.com/Akashdeep-Patra/sdash/internal/app"
	"github.com/Akashdeep-Patra/sdash/internal/common"
	"github.com/Akashdeep-Patra/sdash/internal/config"
	"github.com/Akashdeep-Patra/sdash/internal/export"
	"github.com/Akashdeep-Patra/sdash/internal/logging"
	"github.com/Akashdeep-Patra/sdash/internal/survey"
	"github.com/Akashdeep-Patra/sdash/internal/table"
	"github.com/Akashdeep-Patra/sdash/internal/ui"
	"github.com/Akashdeep-Patra/sdash/internal/ui/views"
	"github.com/Akashdeep-Patra/sdash/internal/watcher"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Build-time variables injected via ldflags by GoReleaser / Taskfile.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	// The TUI spends nearly all its time waiting on the terminal and the
	// backend. Two OS threads are plenty for render and message dispatch,
	// and keep several open dashboards from competing for every core.
	// An explicit GOMAXPROCS wins.
	if os.Getenv("GOMAXPROCS") == "" {
		runtime.GOMAXPROCS(min(2, runtime.NumCPU()))
	}

	// Collections are small; an early GC target keeps RSS low.
	debug.SetMemoryLimit(50 * 1024 * 1024) // 50 MiB
}

func main() {
	rootCmd := buildRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sdash:", err)
		os.Exit(1)
	}
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	apiURL     string
	dataFile   string
	configPath string
	verbose    bool
}

func buildRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "sdash",
		Short: "A terminal dashboard for skincare survey data",
		Long: `sdash is a keyboard-first terminal dashboard for survey data.

It shows the backend's overview metrics and a survey table with search,
status filtering, sortable columns and pagination, and creates, edits and
deletes surveys against the survey API (or an offline JSON data file).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd.Context(), flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"sdash %s\n  commit:  %s\n  built:   %s\n  go:      %s\n  os/arch: %s/%s\n",
		version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	))

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.apiURL, "api", "", "Survey API base URL (overrides api_base_url)")
	pf.StringVar(&flags.dataFile, "file", "", "Serve surveys from a local JSON data file instead of the API")
	pf.StringVar(&flags.configPath, "config", "", "Path to a config file (default ~/.config/sdash/config.yaml)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(buildListCmd(flags))
	rootCmd.AddCommand(buildExportCmd(flags))
	rootCmd.AddCommand(buildOverviewCmd(flags))
	rootCmd.AddCommand(buildVersionCmd())
	rootCmd.AddCommand(buildCompletionCmd())

	return rootCmd
}

// env is everything a command needs to talk to the backend.
type env struct {
	cfg      *config.Config
	log      *zap.Logger
	svc      api.Service
	source   string // "api" or "file"
	endpoint string
	file     *api.FileService // set in file mode
}

func (e *env) close() { _ = e.log.Sync() }

// setup loads config, applies flag overrides, builds the logger and picks
// the backend: the data file when one is set, the HTTP API otherwise. Both
// are wrapped in the read cache.
func setup(flags *globalFlags) (*env, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flags.apiURL != "" {
		cfg.APIBaseURL = flags.apiURL
	}
	if flags.dataFile != "" {
		cfg.DataFile = flags.dataFile
	}

	log, err := logging.New(cfg.LogFile, cfg.LogLevel, flags.verbose)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, log: log}
	var inner api.Service
	if cfg.DataFile != "" {
		fs, err := api.NewFileService(cfg.DataFile, log.Named("file"))
		if err != nil {
			return nil, fmt.Errorf("opening data file: %w", err)
		}
		inner, e.file, e.source = fs, fs, "file"
	} else {
		hs, err := api.NewHTTPService(cfg.APIBaseURL, cfg.RequestTimeout, log.Named("http"))
		if err != nil {
			return nil, err
		}
		inner, e.source = hs, "api"
	}
	e.endpoint = inner.Endpoint()

	e.svc = inner
	if cfg.CacheTTL > 0 {
		e.svc = api.NewCachedService(inner, cfg.CacheTTL)
	}
	log.Info("backend selected", zap.String("source", e.source), zap.String("endpoint", e.endpoint))
	return e, nil
}

func runApp(ctx context.Context, flags *globalFlags) error {
	e, err := setup(flags)
	if err != nil {
		return err
	}
	defer e.close()

	styles := ui.StylesFor(e.cfg.Theme)

	state := table.DefaultViewState(e.cfg.PageSize)
	state.SearchField = table.SearchField(e.cfg.SearchField)
	ctrl := table.New(state, e.log.Named("table"))

	viewMap := map[common.TabID]common.View{
		common.TabDashboard: views.NewDashboardView(e.svc, styles, e.cfg.RequestTimeout, e.log.Named("dashboard")).WithSurveys(ctrl),
		common.TabSurveys:   views.NewSurveysView(e.svc, ctrl, styles, e.cfg.RequestTimeout, e.log.Named("surveys")),
	}

	model := app.New(e.cfg, styles, e.source, e.endpoint, viewMap)

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if ctx != nil {
		opts = append(opts, tea.WithContext(ctx))
	}
	p := tea.NewProgram(model, opts...)

	// Offline mode: reload when the data file changes on disk.
	if e.file != nil {
		if watchCh, stop, watchErr := watcher.Watch(e.file.Endpoint(), 500*time.Millisecond); watchErr == nil {
			defer stop()
			go func() {
				for range watchCh {
					p.Send(common.RefreshMsg{})
				}
			}()
		} else {
			e.log.Warn("data file watch unavailable", zap.Error(watchErr))
		}
	}

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// ── list / export ───────────────────────────────────────────────────────────

// viewFlags select the table view for list and export.
type viewFlags struct {
	search   string
	by       string
	status   string
	sort     string
	desc     bool
	page     int
	pageSize int
}

func (vf *viewFlags) register(cmd *cobra.Command, paged bool) {
	f := cmd.Flags()
	f.StringVarP(&vf.search, "search", "s", "", "Case-insensitive search term")
	f.StringVar(&vf.by, "by", "", "Search field: name or category (default from config)")
	f.StringVar(&vf.status, "status", table.StatusAll, "Status filter: all, Active, Draft or Closed")
	f.StringVar(&vf.sort, "sort", "", "Sort column: "+columnList())
	f.BoolVar(&vf.desc, "desc", false, "Sort descending")
	if paged {
		f.IntVarP(&vf.page, "page", "p", 1, "Page number (clamped to the last page)")
		f.IntVar(&vf.pageSize, "page-size", 0, "Rows per page (default from config)")
	}
}

func columnList() string {
	names := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// loadController fetches the collection into a controller configured from vf.
func loadController(ctx context.Context, e *env, vf *viewFlags) (*table.Controller, error) {
	state := table.DefaultViewState(e.cfg.PageSize)
	state.SearchField = table.SearchField(e.cfg.SearchField)
	ctrl := table.New(state, e.log.Named("table"))

	ctrl.BeginLoad()
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.RequestTimeout)
	defer cancel()
	records, err := e.svc.ListSurveys(callCtx)
	if res := ctrl.ApplyLoad(records, err); !res.OK() {
		return nil, fmt.Errorf("%s: %w", strings.ToLower(res.Title), res.Err)
	}

	if vf.by != "" {
		field := table.SearchField(strings.ToLower(vf.by))
		if !field.Valid() {
			return nil, fmt.Errorf("--by must be name or category, got %q", vf.by)
		}
		ctrl.SetSearchField(field)
	}
	ctrl.SetSearchTerm(vf.search)
	if !strings.EqualFold(vf.status, table.StatusAll) {
		status := survey.Status(vf.status)
		for _, s := range survey.AllStatuses {
			if strings.EqualFold(string(s), vf.status) {
				status = s
			}
		}
		ctrl.SetStatusFilter(string(status))
	}
	if vf.sort != "" {
		col, ok := table.ParseColumn(vf.sort)
		if !ok {
			return nil, fmt.Errorf("unknown sort column %q (want one of %s)", vf.sort, columnList())
		}
		dir := table.SortAsc
		if vf.desc {
			dir = table.SortDesc
		}
		ctrl.SetSort(col, dir)
	}
	if vf.pageSize > 0 {
		ctrl.SetPageSize(vf.pageSize)
	}
	if vf.page > 1 {
		ctrl.SetPage(vf.page)
	}
	return ctrl, nil
}

func buildListCmd(flags *globalFlags) *cobra.Command {
	vf := &viewFlags{}
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the survey table",
		Long: `Print one page of the survey table, filtered, sorted and paginated
exactly as the dashboard would show it.

Examples:
  sdash list --search skin --status Active
  sdash list --by category --search hair --sort startDate --desc
  sdash list --page 3 --page-size 25`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(flags)
			if err != nil {
				return err
			}
			defer e.close()

			ctrl, err := loadController(cmd.Context(), e, vf)
			if err != nil {
				return err
			}
			page := ctrl.View()
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), pageJSON(page))
			}
			renderPage(cmd.OutOrStdout(), page)
			return nil
		},
	}
	vf.register(cmd, true)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the page as JSON")
	return cmd
}

type listOutput struct {
	Surveys     []survey.Survey `json:"surveys"`
	Total       int             `json:"total"`
	Page        int             `json:"page"`
	TotalPages  int             `json:"totalPages"`
	PageSize    int             `json:"pageSize"`
	ShowingFrom int             `json:"showingFrom"`
	ShowingTo   int             `json:"showingTo"`
}

func pageJSON(p table.Page) listOutput {
	out := listOutput{
		Surveys:    p.Rows,
		Total:      p.Total,
		Page:       p.CurrentPage,
		TotalPages: p.TotalPages,
		PageSize:   p.PageSize,
		ShowingTo:  p.End,
	}
	if out.Surveys == nil {
		out.Surveys = []survey.Survey{}
	}
	if p.Total > 0 {
		out.ShowingFrom = p.Start + 1
	}
	return out
}

func renderPage(w io.Writer, p table.Page) {
	rows := make([][]string, 0, len(p.Rows))
	for _, s := range p.Rows {
		rows = append(rows, []string{
			s.Code, s.Name, s.Category, string(s.Status),
			survey.FormatDate(s.StartDate), survey.FormatDate(s.EndDate),
			s.Respondents, survey.FormatCost(s.Currency, s.Cost),
		})
	}
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers("Code", "Survey Name", "Category", "Status", "Start Date", "End Date", "Respondents", "Cost").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())

	summary := "No surveys found"
	if p.Total > 0 {
		summary = fmt.Sprintf("Showing %d to %d of %d surveys", p.Start+1, p.End, p.Total)
	}
	if p.ShowPagination() {
		summary += fmt.Sprintf("  (page %d of %d)", p.CurrentPage, p.TotalPages)
	}
	fmt.Fprintln(w, summary)
}

func buildExportCmd(flags *globalFlags) *cobra.Command {
	vf := &viewFlags{}
	var (
		outPath string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered and sorted survey table",
		Long: `Export every page of the filtered and sorted survey table to an
Excel workbook or CSV file. Cost is written in base units.

Examples:
  sdash export --out surveys.xlsx
  sdash export --status Active --sort cost --desc --out active.csv
  sdash export --format csv > surveys.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := export.FormatFromPath(outPath)
			if format != "" {
				parsed, err := export.ParseFormat(format)
				if err != nil {
					return err
				}
				f = parsed
			}

			e, err := setup(flags)
			if err != nil {
				return err
			}
			defer e.close()

			ctrl, err := loadController(cmd.Context(), e, vf)
			if err != nil {
				return err
			}
			records := ctrl.Filtered()

			if outPath == "" || outPath == "-" {
				return export.Write(cmd.OutOrStdout(), f, records)
			}
			file, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			if err := export.Write(file, f, records); err != nil {
				_ = file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("close %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d surveys to %s\n", len(records), outPath)
			return nil
		},
	}
	vf.register(cmd, false)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "", "xlsx or csv (default from --out extension, else xlsx)")
	return cmd
}

// ── overview ────────────────────────────────────────────────────────────────

func buildOverviewCmd(flags *globalFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Print the dashboard overview metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(flags)
			if err != nil {
				return err
			}
			defer e.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.RequestTimeout)
			defer cancel()
			o, err := e.svc.Overview(ctx)
			if err != nil {
				return fmt.Errorf("loading overview: %w", err)
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), o)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Active users:          %s\n", ui.FormatCount(o.ActiveUsers))
			fmt.Fprintf(w, "Total routines:        %s\n", ui.FormatCount(o.TotalRoutines))
			fmt.Fprintf(w, "Avg routines / user:   %.2f\n", o.AvgRoutinesPerUser)
			fmt.Fprintf(w, "Avg products / routine: %.2f\n", o.AvgProductsPerRoutine)
			for _, d := range []struct {
				name    string
				buckets []survey.Bucket
			}{
				{"Gender", o.Genders()},
				{"Age", o.Ages()},
				{"Skin type", o.SkinTypes()},
			} {
				parts := make([]string, len(d.buckets))
				for i, b := range d.buckets {
					parts[i] = b.Label + " " + strconv.Itoa(b.Value)
				}
				fmt.Fprintf(w, "%-23s%s\n", d.name+":", strings.Join(parts, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the overview as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ── version / completion ────────────────────────────────────────────────────

// buildVersionCmd creates the `sdash version` subcommand supporting --json.
func buildVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
				"go":      runtime.Version(),
				"os":      runtime.GOOS,
				"arch":    runtime.GOARCH,
			}
			w := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(w, info)
			}
			fmt.Fprintf(w, "sdash %s\n", version)
			fmt.Fprintf(w, "  commit:  %s\n", commit)
			fmt.Fprintf(w, "  built:   %s\n", date)
			fmt.Fprintf(w, "  go:      %s\n", runtime.Version())
			fmt.Fprintf(w, "  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	return cmd
}

// buildCompletionCmd creates the `sdash completion` subcommand for shell completions.
func buildCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sdash.

Examples:
  # Bash (add to ~/.bashrc)
  sdash completion bash > /etc/bash_completion.d/sdash

  # Zsh (add to ~/.zshrc before compinit)
  sdash completion zsh > "${fpath[1]}/_sdash"

  # Fish
  sdash completion fish > ~/.config/fish/completions/sdash.fish

  # PowerShell
  sdash completion powershell > sdash.ps1`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}

	return cmd
}
