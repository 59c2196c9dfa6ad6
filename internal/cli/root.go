package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/stockbook/config"
	"github.com/rustyeddy/stockbook/ledger"
	"github.com/rustyeddy/stockbook/portfolio"
	"github.com/rustyeddy/stockbook/quotes"
)

// RootConfig carries the persistent flags plus the resolved config and
// logger into every subcommand.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	AccountID  string
	LogLevel   string

	cfg *config.Config
	log zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "stockbook",
		Short:         "Stockbook — a stock-trading ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "", "SQLite ledger database (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.AccountID, "account", "", "Account id (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "warn", "Log level: debug|info|warn|error")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if rc.ConfigPath != "" {
			cfg, err := config.LoadFromFile(rc.ConfigPath)
			if err != nil {
				return err
			}
			rc.cfg = cfg
		} else {
			rc.cfg = config.Default()
		}

		level, err := zerolog.ParseLevel(rc.LogLevel)
		if err != nil {
			return fmt.Errorf("bad log level %q: %w", rc.LogLevel, err)
		}
		rc.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
		return nil
	}

	// Subcommands
	cmd.AddCommand(
		newRegisterCmd(rc),
		newDepositCmd(rc),
		newBuyCmd(rc),
		newSellCmd(rc),
		newQuoteCmd(rc),
		newPortfolioCmd(rc),
		newHistoryCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("stockbook (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (rc *RootConfig) dbPath() string {
	if rc.DBPath != "" {
		return rc.DBPath
	}
	return rc.cfg.Database.Path
}

func (rc *RootConfig) account() string {
	if rc.AccountID != "" {
		return rc.AccountID
	}
	return rc.cfg.Account.ID
}

// open builds the engine and its backing store. Callers must Close the
// returned store.
func (rc *RootConfig) open() (*portfolio.Engine, *ledger.SQLite, error) {
	store, err := ledger.NewSQLite(rc.dbPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open ledger: %w", err)
	}

	eng := portfolio.NewEngine(store, rc.quoteSource())
	eng.SetLogger(rc.log)
	return eng, store, nil
}

func (rc *RootConfig) quoteSource() quotes.Source {
	q := rc.cfg.Quotes
	if q.Type == "http" {
		return quotes.NewClient(q.URL, q.Token)
	}

	st := quotes.NewStatic()
	for sym, raw := range q.Fixed {
		// Validate already checked these parse.
		p, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		st.Set(quotes.Quote{Symbol: sym, Name: sym, Price: p})
	}
	return st
}

// usd renders a decimal amount the way the ledger displays money.
func usd(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
