package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/utitree/pkg/document"
	"github.com/matzehuels/utitree/pkg/errors"
	"github.com/matzehuels/utitree/pkg/store"
)

// lookupCommand creates the lookup command, which answers from the records
// saved by the last generate run.
func (c *CLI) lookupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <uti>",
		Short: "Show the top-level ancestors and descendants of a UTI",
		Long: `Show the top-level ancestors and descendants of a UTI.

Answers come from the records saved by the last 'utitree generate' run, so
lookup works offline. Use --format to print the record as YAML or JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLookup(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}

	cmd.Flags().String("format", "", "print the record as yaml or json")
	cmd.Flags().String("mongo-uri", "", "read records from MongoDB instead of the local snapshot")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(document.Formats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runLookup(ctx context.Context, w io.Writer, uti string) error {
	if err := errors.ValidateIdentifier(uti); err != nil {
		return err
	}

	var format document.Format
	if s := c.v.GetString("format"); s != "" {
		f, err := document.ParseFormat(s)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "format")
		}
		format = f
	}

	st, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	rec, err := st.Get(ctx, uti)
	if stderrors.Is(err, store.ErrNotFound) {
		return errors.Wrap(errors.ErrCodeNotFound, err, "%s is not in the saved hierarchy (run '%s generate' first)", uti, appName)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "look up %s", uti)
	}

	if format != "" {
		return document.Encode(w, rec, format)
	}
	printRecord(w, rec)
	return nil
}

// printRecord writes rec as labeled lines.
func printRecord(w io.Writer, rec *store.Record) {
	fmt.Fprintln(w, StyleTitle.Render(rec.UTI))
	ancestors := "(top-level)"
	if len(rec.Ancestors) > 0 {
		ancestors = strings.Join(rec.Ancestors, ", ")
	}
	fprintKeyValue(w, "Ancestors", ancestors)
	fprintKeyValue(w, "Descendants", fmt.Sprintf("%d", len(rec.Descendants)))
	for _, d := range rec.Descendants {
		fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(d))
	}
	fprintKeyValue(w, "Run", rec.RunID)
	fprintKeyValue(w, "Saved", rec.SavedAt.Local().Format("Jan 2, 2006 15:04"))
}
