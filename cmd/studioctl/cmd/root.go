package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"creativestudio/internal/poller"
	"creativestudio/internal/studio"
)

var rootCmd = &cobra.Command{
	Use:          "studioctl",
	Short:        "Command line client for the creative studio API",
	SilenceUsage: true,
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("api", "http://localhost:8080", "studio API base URL")
	flags.String("device", "", "device id that owns the jobs (generated when empty)")
	flags.String("api-key", "", "personal Gemini key sent as the override credential")
	flags.Duration("interval", poller.DefaultInterval, "delay between status polls")
	flags.Int("max-attempts", 0, "give up after this many polls (0 = never)")
	flags.String("output", "text", "output format: text or json")

	_ = viper.BindPFlag("api_url", flags.Lookup("api"))
	_ = viper.BindPFlag("device_id", flags.Lookup("device"))
	_ = viper.BindPFlag("api_key", flags.Lookup("api-key"))
	_ = viper.BindPFlag("poll_interval", flags.Lookup("interval"))
	_ = viper.BindPFlag("max_attempts", flags.Lookup("max-attempts"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))
}

func initConfig() {
	viper.SetEnvPrefix("STUDIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func apiClient() *studio.Client {
	return studio.NewClient(viper.GetString("api_url"), nil)
}

func deviceID(out io.Writer) string {
	if id := strings.TrimSpace(viper.GetString("device_id")); id != "" {
		return id
	}
	id := uuid.NewString()
	viper.Set("device_id", id)
	fmt.Fprintf(out, "using new device id %s (set STUDIO_DEVICE_ID to keep history)\n", id)
	return id
}

func newPoller(out io.Writer) *poller.Poller {
	interval := viper.GetDuration("poll_interval")
	if interval <= 0 {
		interval = poller.DefaultInterval
	}
	return &poller.Poller{
		Fetcher:     apiClient(),
		Interval:    interval,
		MaxAttempts: viper.GetInt("max_attempts"),
		OnError: func(err error) {
			fmt.Fprintf(out, "poll failed: %v\n", err)
		},
	}
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
