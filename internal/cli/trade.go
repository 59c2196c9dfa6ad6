package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stockbook/portfolio"
)

func newBuyCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <symbol> <quantity>",
		Short: "Buy shares at the live quote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := portfolio.ParseQuantity(args[1])
			if err != nil {
				return err
			}

			eng, store, err := rc.open()
			if err != nil {
				return err
			}
			defer store.Close()

			fill, err := eng.Buy(cmd.Context(), rc.account(), args[0], qty)
			if err != nil {
				return err
			}

			fmt.Printf("bought %d %s @ %s for %s, cash %s\n",
				fill.Quantity, fill.Symbol, usd(fill.Price), usd(fill.Total), usd(fill.Cash))
			return nil
		},
	}
}

func newSellCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "sell <symbol> <quantity>",
		Short: "Sell held shares at the live quote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := portfolio.ParseQuantity(args[1])
			if err != nil {
				return err
			}

			eng, store, err := rc.open()
			if err != nil {
				return err
			}
			defer store.Close()

			fill, err := eng.Sell(cmd.Context(), rc.account(), args[0], qty)
			if err != nil {
				return err
			}

			fmt.Printf("sold %d %s @ %s for %s, cash %s\n",
				-fill.Quantity, fill.Symbol, usd(fill.Price), usd(fill.Total), usd(fill.Cash))
			return nil
		},
	}
}

func newDepositCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Add cash to the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := portfolio.ParseAmount(args[0])
			if err != nil {
				return err
			}

			eng, store, err := rc.open()
			if err != nil {
				return err
			}
			defer store.Close()

			balance, err := eng.Deposit(cmd.Context(), rc.account(), amount)
			if err != nil {
				return err
			}

			fmt.Printf("deposited %s, cash %s\n", usd(amount), usd(balance))
			return nil
		},
	}
}

func newQuoteCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "quote <symbol>",
		Short: "Look up the current price for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, store, err := rc.open()
			if err != nil {
				return err
			}
			defer store.Close()

			q, err := eng.Quote(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s (%s): %s\n", q.Symbol, q.Name, usd(q.Price))
			return nil
		},
	}
}
