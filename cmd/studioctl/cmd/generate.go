package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"creativestudio/internal/domain"
	"creativestudio/internal/poller"
	"creativestudio/internal/providers/prompt"
	"creativestudio/internal/studio"
)

type generateFlags struct {
	style        string
	aspect       string
	size         string
	format       string
	asset        string
	hd           bool
	search       bool
	retry        bool
	background   string
	bgPrompt     string
	colorTarget  string
	colorReplace string
}

var genFlags generateFlags

var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate or edit an image and wait for the result",
	Long: `Submits a generation job and polls it until it is done or failed.

Creative prompts without a source asset are enhanced first. Edit tools
(--background, --color-target/--color-replace) are folded into the prompt
and skip enhancement.

Examples:
  studioctl generate "a lighthouse at dusk" --style cinematic --aspect 16:9
  studioctl generate --asset 7d0c... --background remove
  studioctl generate "a lighthouse at dusk" --hd`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.StringVar(&genFlags.style, "style", string(domain.StylePhotorealistic), "visual style")
	f.StringVar(&genFlags.aspect, "aspect", string(domain.Aspect1x1), "aspect ratio")
	f.StringVar(&genFlags.size, "size", string(domain.ImageSize1K), "image size: 1K, 2K or 4K")
	f.StringVar(&genFlags.format, "format", "", "preferred output format: png, jpg or webp")
	f.StringVar(&genFlags.asset, "asset", "", "source asset id to edit")
	f.BoolVar(&genFlags.hd, "hd", false, "also regenerate the result at 4K")
	f.BoolVar(&genFlags.search, "search", false, "ground the generation with Google Search")
	f.BoolVar(&genFlags.retry, "retry", false, "retry once at 1K when generation fails")
	f.StringVar(&genFlags.background, "background", "", "background tool: remove, replace or blur")
	f.StringVar(&genFlags.bgPrompt, "background-prompt", "", "replacement background description")
	f.StringVar(&genFlags.colorTarget, "color-target", "", "color to replace")
	f.StringVar(&genFlags.colorReplace, "color-replace", "", "replacement color")
}

func (g generateFlags) settings() domain.GenerationSettings {
	s := domain.GenerationSettings{
		Style:           domain.Style(g.style),
		AspectRatio:     domain.AspectRatio(g.aspect),
		ImageSize:       domain.ImageSize(g.size),
		UseGoogleSearch: g.search,
		OutputFormat:    domain.OutputFormat(g.format),
	}
	tools := &domain.EditTools{
		BackgroundMode:   domain.BackgroundMode(g.background),
		BackgroundPrompt: g.bgPrompt,
	}
	if g.colorTarget != "" || g.colorReplace != "" {
		tools.ColorSwap = &domain.ColorSwap{TargetColor: g.colorTarget, ReplaceColor: g.colorReplace}
	}
	if tools.BackgroundMode != "" || tools.ColorSwap != nil {
		s.EditTools = tools
	}
	return s
}

func runGenerate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	var userPrompt string
	if len(args) == 1 {
		userPrompt = args[0]
	}

	settings := genFlags.settings()
	finalPrompt, isTool := prompt.ComposeToolPrompt(userPrompt, settings.EditTools)
	if strings.TrimSpace(finalPrompt) == "" {
		return fmt.Errorf("a prompt or an edit tool is required")
	}

	session, err := studio.NewSession(studio.SessionOptions{
		API:            apiClient(),
		Tracker:        poller.NewTracker(newPoller(out)),
		DeviceID:       deviceID(out),
		APIKeyOverride: viper.GetString("api_key"),
		OnUpdate:       progressPrinter(out),
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	outcome, err := session.Generate(ctx, studio.GenerateInput{
		Prompt:          finalPrompt,
		Settings:        settings,
		AssetID:         genFlags.asset,
		IsToolOperation: isTool,
	})
	if err != nil {
		return err
	}
	if err := report(out, outcome); err != nil {
		return err
	}

	if !outcome.Success && genFlags.retry {
		fmt.Fprintln(out, "retrying at 1K...")
		if outcome, err = session.Retry(ctx); err != nil {
			return err
		}
		if err := report(out, outcome); err != nil {
			return err
		}
	}
	if outcome.Success && genFlags.hd {
		fmt.Fprintln(out, "regenerating at 4K...")
		if outcome, err = session.GenerateHD(ctx); err != nil {
			return err
		}
		if err := report(out, outcome); err != nil {
			return err
		}
	}
	if !outcome.Success {
		return fmt.Errorf("%s", outcome.Message)
	}
	return nil
}

// progressPrinter prints each new progress message once.
func progressPrinter(out io.Writer) func(*domain.Job) {
	var last string
	return func(job *domain.Job) {
		if jsonOutput() {
			return
		}
		msg := domain.Deref(job.ProgressMessage)
		if msg == "" || msg == last {
			return
		}
		last = msg
		fmt.Fprintf(out, "[%s] %s\n", job.ID, msg)
	}
}

func report(out io.Writer, outcome poller.Outcome) error {
	if jsonOutput() {
		return printJSON(out, outcome.Job)
	}
	fmt.Fprintln(out, outcome.Message)
	if job := outcome.Job; job != nil {
		if url := domain.Deref(job.FinalURL); url != "" {
			fmt.Fprintf(out, "  image: %s\n", url)
		}
		if msg := domain.Deref(job.Error); msg != "" {
			fmt.Fprintf(out, "  error: %s\n", msg)
		}
	}
	return nil
}
