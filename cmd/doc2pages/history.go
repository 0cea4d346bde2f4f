// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc2pages/internal/history"
	"github.com/pdiddy/doc2pages/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List recent publish runs or show one",
	Long: `History lists the publish runs recorded in the local SQLite history,
newest first, with the classification result of each PDF. Given an id,
it shows that run in full.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	addHistoryFlags(historyCmd.Flags())

	rootCmd.AddCommand(historyCmd)
}

// addHistoryFlags registers the history database flags on fs. They are not
// bound to viper because two commands define them; resolveHistoryPath falls
// back to viper for the config file and environment.
func addHistoryFlags(fs *pflag.FlagSet) {
	fs.String("history-db", "", "publish history database (default ~/.local/share/doc2pages/history.db)")
	fs.Bool("no-history", false, "do not record or read publish history")
}

// resolveHistoryPath returns the history database selected by flags,
// config, or the default location. It returns "" when history is disabled.
// Nothing is created on disk.
func resolveHistoryPath(cmd *cobra.Command) (string, error) {
	disabled, _ := cmd.Flags().GetBool("no-history")
	if !cmd.Flags().Changed("no-history") {
		disabled = viper.GetBool("no-history")
	}
	if disabled {
		return "", nil
	}

	path, _ := cmd.Flags().GetString("history-db")
	if !cmd.Flags().Changed("history-db") {
		path = viper.GetString("history-db")
	}
	if path == "" {
		return history.DefaultPath()
	}
	return path, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	path, err := resolveHistoryPath(cmd)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New("history is disabled")
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		return showRecord(cmd.Context(), store, cmd.OutOrStdout(), args[0], asJSON)
	}

	records, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	return writeRecords(cmd.OutOrStdout(), records, asJSON)
}

// showRecord prints the run with the given id.
func showRecord(ctx context.Context, store *history.Store, w io.Writer, arg string, asJSON bool) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return &types.InvalidArgumentError{Arg: "id", Reason: fmt.Sprintf("%q is not a run id", arg)}
	}
	rec, err := store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("run %d: %w", id, err)
	}

	if asJSON {
		return writeJSON(w, rec)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", rec.ID)
	fmt.Fprintf(tw, "Repo:\t%s\n", rec.Repo)
	fmt.Fprintf(tw, "Document:\t%s\n", rec.DocPath)
	fmt.Fprintf(tw, "Status:\t%s\n", rec.Status)
	fmt.Fprintf(tw, "Public:\t%t\n", rec.Public)
	fmt.Fprintf(tw, "Forced:\t%t\n", rec.Forced)
	fmt.Fprintf(tw, "Started:\t%s\n", rec.Started.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(tw, "Finished:\t%s\n", rec.Finished.Local().Format("2006-01-02 15:04:05"))
	if c := rec.Classification; c != nil {
		fmt.Fprintf(tw, "Pages:\t%d of %d text (rate %.2f, minimum %.2f)\n",
			c.TextPageCount, c.TotalPageCount, c.Rate, c.MinRate)
	}
	if rec.URL != "" {
		fmt.Fprintf(tw, "URL:\t%s\n", rec.URL)
	}
	if rec.Error != "" {
		fmt.Fprintf(tw, "Error:\t%s\n", rec.Error)
	}
	return tw.Flush()
}

// writeRecords prints runs as a table, or as JSON when asked.
func writeRecords(w io.Writer, records []types.PublishRecord, asJSON bool) error {
	if asJSON {
		return writeJSON(w, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No publish runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tREPO\tSTATUS\tRATE\tDOCUMENT\tURL")
	for _, r := range records {
		rate := "-"
		if r.Classification != nil {
			rate = fmt.Sprintf("%.2f", r.Classification.Rate)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Started.Local().Format("2006-01-02 15:04"), r.Repo, r.Status, rate, r.DocPath, r.URL)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
