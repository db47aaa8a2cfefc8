// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pplx/internal/format"
	"github.com/pdiddy/pplx/internal/history"
	"github.com/pdiddy/pplx/internal/perplexity"
	"github.com/pdiddy/pplx/pkg/types"
)

// queryCommands builds one cobra command per query category. Each sends
// the query through the category's request preset, prints the answer, and
// records the exchange in history.
func init() {
	descriptions := map[types.Command][2]string{
		types.CommandSearch:   {"Search the web", "Search queries the web through the sonar model and answers with cited sources."},
		types.CommandResearch: {"Deep research on a topic", "Research runs an exhaustive multi-step investigation through the deep research model."},
		types.CommandAcademic: {"Search academic sources", "Academic restricts search to peer-reviewed and scholarly publications."},
		types.CommandAsk:      {"Ask a general question", "Ask answers a general question with web-grounded sources."},
		types.CommandCode:     {"Get coding help", "Code answers programming questions, restricting search to documentation sites."},
	}

	for _, command := range types.Commands {
		command := command
		desc := descriptions[command]
		cmd := &cobra.Command{
			Use:   string(command) + " <query>",
			Short: desc[0],
			Long:  desc[1],
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runQuery(cmd, command, args)
			},
		}
		cmd.Flags().String("model", "", "model alias: sonar, sonar-pro, sonar-deep, or sonar-reasoning")
		cmd.Flags().String("recent", "", "restrict search recency: day, week, month, or year")
		cmd.Flags().Bool("json", false, "print the completed exchange as JSON")
		cmd.Flags().Bool("no-save", false, "do not record this exchange in history")
		rootCmd.AddCommand(cmd)
	}
}

func runQuery(cmd *cobra.Command, command types.Command, args []string) error {
	query := strings.Trim(strings.Join(args, " "), `"'`)
	if query == "" {
		return fmt.Errorf("please provide a query for %q", command)
	}

	modelAlias, _ := cmd.Flags().GetString("model")
	recent, _ := cmd.Flags().GetString("recent")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	noSave, _ := cmd.Flags().GetBool("no-save")

	preset, err := perplexity.PresetFor(command)
	if err != nil {
		return err
	}
	req, err := preset.BuildRequest(query, modelAlias, recent)
	if err != nil {
		return err
	}

	apiCfg, err := apiConfig()
	if err != nil {
		return err
	}

	if !jsonOutput {
		fmt.Fprintf(os.Stderr, "\n⏳ %s...\n", preset.Label)
	}

	client := perplexity.NewClient(apiCfg)
	answer, err := client.Complete(cmd.Context(), req)
	if err != nil {
		return err
	}

	rec := exchangeRecord(command, query, answer)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			return err
		}
	} else {
		fmt.Println(format.Answer(answer.Content, answer.Citations))
		fmt.Println(format.Stats(format.Usage(answer.Usage), answer.Duration))
	}

	if noSave {
		return nil
	}
	return saveExchange(cmd.Context(), rec, jsonOutput)
}

func exchangeRecord(command types.Command, query string, answer perplexity.Answer) types.ExchangeRecord {
	duration := answer.Duration.Seconds()
	return types.ExchangeRecord{
		Command:          command,
		Query:            query,
		Model:            answer.Model,
		Response:         answer.Content,
		Citations:        answer.Citations,
		PromptTokens:     &answer.Usage.PromptTokens,
		CompletionTokens: &answer.Usage.CompletionTokens,
		TotalTokens:      &answer.Usage.TotalTokens,
		DurationSeconds:  &duration,
	}
}

// saveExchange records the exchange. A store failure is fatal; a
// transcript failure is reported as a warning since the row persisted.
func saveExchange(ctx context.Context, rec types.ExchangeRecord, quiet bool) error {
	histCfg, err := historyConfig()
	if err != nil {
		return err
	}
	hist, err := history.Open(histCfg)
	if err != nil {
		return err
	}
	defer hist.Close()

	saved, err := hist.Save(ctx, rec)
	if err != nil {
		return err
	}

	if saved.TranscriptErr != nil {
		fmt.Fprintf(os.Stderr, "warning: transcript not written: %v\n", saved.TranscriptErr)
	}
	if !quiet {
		fmt.Fprintf(os.Stderr, "\nSaved as %s (%s)\n", saved.Identifier, saved.TranscriptPath)
	}
	return nil
}
