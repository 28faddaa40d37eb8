package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	topLimit int
	topJSON  bool
)

var topCmd = &cobra.Command{
	Use:   "top <query>",
	Short: "Show the highest-priority stored prospects for a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		prospects, err := st.TopProspects(ctx, args[0], topLimit)
		if err != nil {
			return eris.Wrap(err, "top prospects")
		}

		if topJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(prospects)
		}

		if len(prospects) == 0 {
			_, _ = os.Stderr.WriteString("No prospects found.\n")
			return nil
		}
		formatProspects(os.Stdout, prospects)
		return nil
	},
}

func init() {
	topCmd.Flags().IntVar(&topLimit, "limit", 20, "max number of prospects to display")
	topCmd.Flags().BoolVar(&topJSON, "json", false, "print prospects as JSON")
	rootCmd.AddCommand(topCmd)
}
