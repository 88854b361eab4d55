package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"creativestudio/internal/domain"
	"creativestudio/internal/poller"
)

var watch bool

var statusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show a job, optionally polling until it finishes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if watch {
			outcome, err := poller.NewTracker(newPoller(out)).Track(cmd.Context(), args[0], progressPrinter(out))
			if err != nil {
				return err
			}
			return report(out, outcome)
		}
		job, err := apiClient().FetchJob(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(out, job)
		}
		fmt.Fprintf(out, "%s  %s  %s\n", job.ID, job.Status, domain.Deref(job.ProgressMessage))
		if url := domain.Deref(job.FinalURL); url != "" {
			fmt.Fprintf(out, "  image: %s\n", url)
		}
		if msg := domain.Deref(job.Error); msg != "" {
			fmt.Fprintf(out, "  error: %s\n", msg)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent jobs for this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		list, err := apiClient().History(cmd.Context(), deviceID(out))
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(out, list)
		}
		if len(list) == 0 {
			fmt.Fprintln(out, "No jobs yet.")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "JOB\tSTATUS\tCREATED\tPROMPT")
		for _, job := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", job.ID, job.Status, formatTime(job.CreatedAt), truncate(job.OriginalPrompt, 48))
		}
		return w.Flush()
	},
}

var enhanceStyle string

var enhanceCmd = &cobra.Command{
	Use:   "enhance <prompt>",
	Short: "Print the enhanced version of a prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enhanced, err := apiClient().Enhance(cmd.Context(), args[0], domain.Style(enhanceStyle))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), enhanced)
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&watch, "watch", false, "poll until the job is done or failed")
	enhanceCmd.Flags().StringVar(&enhanceStyle, "style", string(domain.StylePhotorealistic), "visual style")
	rootCmd.AddCommand(statusCmd, historyCmd, enhanceCmd)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
