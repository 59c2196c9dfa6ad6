package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/stockbook/ledger"
)

func newRegisterCmd(rc *RootConfig) *cobra.Command {
	var cash string

	cmd := &cobra.Command{
		Use:   "register <account-id>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opening, err := rc.cfg.Account.Opening()
			if err != nil {
				return err
			}
			if cash != "" {
				if opening, err = decimal.NewFromString(cash); err != nil {
					return fmt.Errorf("bad --cash %q: %w", cash, err)
				}
			}

			store, err := ledger.NewSQLite(rc.dbPath())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.CreateAccount(args[0], opening); err != nil {
				return err
			}

			fmt.Printf("account %s created with %s\n", args[0], usd(opening))
			return nil
		},
	}

	cmd.Flags().StringVar(&cash, "cash", "", "Opening balance (defaults to config account.opening_cash)")
	return cmd
}

func newPortfolioCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Show held positions priced at live quotes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, store, err := rc.open()
			if err != nil {
				return err
			}
			defer store.Close()

			view, err := eng.View(cmd.Context(), rc.account())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SYMBOL\tNAME\tSHARES\tPRICE\tVALUE")
			for _, h := range view.Holdings {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
					h.Symbol, h.Name, h.Quantity, usd(h.Price), usd(h.Value))
			}
			fmt.Fprintf(w, "CASH\t\t\t\t%s\n", usd(view.Cash))
			fmt.Fprintf(w, "TOTAL\t\t\t\t%s\n", usd(view.GrandTotal))
			return w.Flush()
		},
	}
}

func newHistoryCmd(rc *RootConfig) *cobra.Command {
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the account's trade history, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, store, err := rc.open()
			if err != nil {
				return err
			}
			defer store.Close()

			trades, err := eng.History(cmd.Context(), rc.account())
			if err != nil {
				return err
			}

			if asCSV {
				return ledger.WriteCSV(os.Stdout, trades)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tSYMBOL\tSHARES\tPRICE")
			for _, t := range trades {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
					t.ExecutedAt.Format(time.RFC3339), t.Symbol, t.Quantity, usd(t.Price))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "Write history as CSV")
	return cmd
}
