package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mestredagrelha/grelha/internal/tui"
)

var globalFlags struct {
	configPath string
	debug      bool
}

// rootCmd runs the terminal UI when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "grelha",
	Short: "Controle de estoque de espetinhos",
	Long: `Grelha conta estoque, vendas e consumo dos espetos da casa.

Sem subcomando abre a interface de terminal. Os subcomandos fazem o mesmo
pela linha de comando, para scripts e para o celular via ssh.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Abre a interface de terminal",
	RunE:  runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Mostra a versão",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "grelha %s (built %s)\n", Version, BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(tuiCmd, versionCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e, err := openEnv(ctx, envOptions{delegate: true})
	if err != nil {
		return err
	}
	defer e.Close()

	// Set version info for TUI
	tui.Version = Version
	tui.BuildTime = BuildTime

	if err := tui.Run(ctx, e.svc, e.cfg); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
