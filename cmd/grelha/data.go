package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mestredagrelha/grelha/internal/database"
	"github.com/mestredagrelha/grelha/internal/report"
	"github.com/mestredagrelha/grelha/internal/repository"
	"github.com/mestredagrelha/grelha/internal/snapshot"
)

var (
	// Flags for report and maintenance commands
	reportCSV     bool
	reportLink    bool
	migrateDown   bool
	migrateStatus bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Mostra o relatório do turno",
	Long: `Mostra o resumo do turno. Com --csv escreve a planilha
(id,produto,estoque,consumo,vendido); com --link imprime o link do
WhatsApp para o contato configurado.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context(), envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		reg := e.svc.Items()

		if reportCSV {
			return report.WriteCSV(out, reg)
		}

		summary := report.Summary(reg, e.cfg.Store.Name, time.Now())
		if !reportLink {
			fmt.Fprint(out, summary)
			return nil
		}

		link, err := report.WhatsAppLink(e.cfg.Report.CountryCode, e.svc.Contact().Phone, summary)
		if err != nil {
			return fmt.Errorf("%w: run 'grelha contact PHONE' first", err)
		}
		fmt.Fprintln(out, link)
		return nil
	},
}

var contactCmd = &cobra.Command{
	Use:   "contact [TELEFONE]",
	Short: "Mostra ou define o Zap do patrão",
	Long: `Sem argumento mostra o telefone configurado. Com argumento salva o
número (só dígitos, com DDD). Use "" para apagar.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context(), envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			if c := e.svc.Contact(); c.IsSet() {
				fmt.Fprintln(out, c.Phone)
			} else {
				fmt.Fprintln(out, "nenhum contato configurado")
			}
			return nil
		}

		c, err := e.svc.SetContact(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if c.IsSet() {
			fmt.Fprintf(out, "Zap salvo: %s\n", c.Phone)
		} else {
			fmt.Fprintln(out, "Zap removido")
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [ARQUIVO]",
	Short: "Exporta os espetos em JSON",
	Long:  `Escreve a lista de espetos em JSON no arquivo dado, ou na saída padrão.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context(), envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		var w io.Writer = cmd.OutOrStdout()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating %s: %w", args[0], err)
			}
			defer f.Close()
			w = f
		}

		return snapshot.Encode(w, e.svc.Items())
	},
}

var importCmd = &cobra.Command{
	Use:   "import ARQUIVO",
	Short: "Substitui os espetos por um JSON exportado",
	Long: `Lê uma lista exportada e substitui a atual. Arquivos antigos sem o
campo "consumed" são aceitos com consumo zero.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		reg, err := snapshot.Decode(f)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd.Context(), envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.Replace(cmd.Context(), reg); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d espetos importados\n", len(reg))
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica as migrações do banco e sai",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// openEnv already migrates up
		e, err := openEnv(ctx, envOptions{skipLoad: true})
		if err != nil {
			return err
		}
		defer e.Close()

		migrator, err := database.NewMigrator(e.db)
		if err != nil {
			return fmt.Errorf("creating migrator: %w", err)
		}

		out := cmd.OutOrStdout()

		if migrateDown {
			result, err := migrator.MigrateDown(ctx)
			if err != nil {
				return fmt.Errorf("rolling back migration: %w", err)
			}
			fmt.Fprintf(out, "versão %d -> %d\n", result.CurrentVersion, result.TargetVersion)
			return nil
		}

		if migrateStatus {
			migrations, err := migrator.Status(ctx)
			if err != nil {
				return err
			}
			for _, m := range migrations {
				state := "pendente"
				if m.Applied {
					state = "aplicada em " + m.AppliedAt.Format(time.DateTime)
				}
				fmt.Fprintf(out, "%03d %-28s %s\n", m.Version, m.Description, state)
			}
			return nil
		}

		version, err := migrator.CurrentVersion(ctx)
		if err != nil {
			return err
		}
		items, err := repository.NewItemRepository(e.db.DB).Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "banco na versão %d, %d espetos\n", version, items)
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Grava uma cópia do banco na pasta de backups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context(), envOptions{skipLoad: true})
		if err != nil {
			return err
		}
		defer e.Close()

		path, err := e.db.Backup(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportCSV, "csv", false, "Write the CSV export instead of the summary")
	reportCmd.Flags().BoolVar(&reportLink, "link", false, "Print the WhatsApp share link")

	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back the latest migration")
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "List migrations and their state")

	rootCmd.AddCommand(reportCmd, contactCmd, exportCmd, importCmd, migrateCmd, backupCmd)
}
