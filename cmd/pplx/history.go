// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pplx/internal/format"
	"github.com/pdiddy/pplx/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage the local query history",
	Long: `History manages the local record of past exchanges. Each saved query has
a short identifier shown by "history list"; use it with "history show" to
review the full answer or its transcript document.`,
}

// openHistory opens the facade against the configured data directory.
func openHistory() (*history.History, error) {
	cfg, err := historyConfig()
	if err != nil {
		return nil, err
	}
	return history.Open(cfg)
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent queries, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	hist, err := openHistory()
	if err != nil {
		return err
	}
	defer hist.Close()

	entries, err := hist.ListRecent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No history yet.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-16s  %-8s  %s\n", "ID", "Date", "Command", "Query")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-8s  %-16s  %-8s  %s\n",
			e.Identifier, format.Timestamp(e.Timestamp), e.Command,
			format.Truncate(e.Query, 44))
	}
	fmt.Fprintf(os.Stdout, "\n%d entries\n", len(entries))
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <identifier>",
	Short: "Show one past exchange by its identifier",
	Long: `Show prints the full transcript of one exchange. With --path it prints
only the transcript document location.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	pathOnly, _ := cmd.Flags().GetBool("path")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	hist, err := openHistory()
	if err != nil {
		return err
	}
	defer hist.Close()

	entry, err := hist.GetByIdentifier(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return fmt.Errorf("no history entry with identifier %q", args[0])
		}
		return err
	}

	switch {
	case pathOnly:
		fmt.Println(entry.TranscriptPath)
	case jsonOutput:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	default:
		fmt.Println(hist.Transcript(entry.HistoryEntry))
	}
	return nil
}

// --- clear subcommand ---

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history rows and transcripts",
	Long: `Clear irreversibly deletes every recorded exchange and the transcript
directory. It prompts for confirmation unless --yes is given.`,
	RunE: runHistoryClear,
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && !confirm("Delete all history? This cannot be undone. [y/N] ") {
		fmt.Println("Aborted.")
		return nil
	}

	hist, err := openHistory()
	if err != nil {
		return err
	}
	defer hist.Close()

	if err := hist.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("History cleared.")
	return nil
}

// confirm reads one line from stdin and reports whether it starts with y.
func confirm(prompt string) bool {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export history to YAML or JSON",
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	limit, _ := cmd.Flags().GetInt("limit")

	hist, err := openHistory()
	if err != nil {
		return err
	}
	defer hist.Close()

	var path string
	switch formatFlag {
	case "yaml", "":
		path, err = hist.ExportYAML(cmd.Context(), limit)
	case "json":
		path, err = hist.ExportJSON(cmd.Context(), limit)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", formatFlag)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 10, "maximum entries to list")
	historyListCmd.Flags().Bool("json", false, "output entries as JSON")

	historyShowCmd.Flags().Bool("path", false, "print only the transcript location")
	historyShowCmd.Flags().Bool("json", false, "output the entry as JSON")

	historyClearCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().Int("limit", 0, "maximum entries to export (0 = all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
