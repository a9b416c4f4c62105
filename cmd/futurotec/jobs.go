package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jonathan/futurotec/internal/db"
	"github.com/jonathan/futurotec/internal/logging"
	"github.com/jonathan/futurotec/internal/portal"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Print the open postings as a table",
	Long:  `Run the postings listing against the database and print the result, newest first.`,
	RunE:  runJobs,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	database, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	return printJobs(cmd.Context(), cmd.OutOrStdout(), database, log)
}

// printJobs loads the postings and writes them to out. Empty and failed
// loads print the same message the web page shows.
func printJobs(ctx context.Context, out io.Writer, store portal.Store, log logging.Logger) error {
	rec := &portal.SectionRecorder{}
	portal.NewListingLoader(store, portal.NewResolver(store, log), log).Load(ctx, rec)

	section := rec.Current()
	switch section.Kind {
	case portal.SectionPostings:
	case portal.SectionError:
		fmt.Fprintln(out, pterm.Red(section.Message))
		return errors.New(section.Message)
	default:
		fmt.Fprintln(out, section.Message)
		return nil
	}

	data := pterm.TableData{{"Title", "Company", "Hours", "Requirements", "ID"}}
	for _, card := range section.Postings {
		data = append(data, []string{card.Title, card.CompanyName, card.Hours, card.Requirements, card.PostingID.String()})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	fmt.Fprintln(out, table)
	return nil
}
