package cli

import (
	"github.com/spf13/cobra"

	appconfig "github.com/sweetshop/sweetshop/internal/adapters/outbound/config"
	"github.com/sweetshop/sweetshop/internal/adapters/outbound/memory"
	"github.com/sweetshop/sweetshop/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// rootOptions carries what every subcommand shares: the --config flag and
// the seams tests replace.
type rootOptions struct {
	configPath string
	loader     domain.ConfigLoader
	openStore  storeOpener
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sweetshop",
		Short:         "Order management for a pastry shop",
		Long:          "sweetshop serves the catalog and order API, and manages orders, products and back-office users from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", appconfig.DefaultFileName, "Path to the configuration file")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newUsersCmd(opts))
	cmd.AddCommand(newOrdersCmd(opts))
	cmd.AddCommand(newProductsCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

func defaultOptions() *rootOptions {
	return &rootOptions{loader: appconfig.New(), openStore: openStorage}
}

// NewRootCmdForTest returns the root command for testing. A non-nil store is
// used by every command instead of the configured database.
func NewRootCmdForTest(store *memory.Store) *cobra.Command {
	opts := defaultOptions()
	if store != nil {
		opts.openStore = fixedMemoryStore(store)
	}
	return newRootCmd(opts)
}

func Execute() error {
	return newRootCmd(defaultOptions()).Execute()
}
