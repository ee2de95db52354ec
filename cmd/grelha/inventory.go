package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mestredagrelha/grelha/internal/models"
	"github.com/mestredagrelha/grelha/internal/util"
)

var (
	// Flags for inventory commands
	addStock      int
	updateChannel string
	updateDelta   int
	updatePack    bool
	textChannel   string
	resetHard     bool
	resetYes      bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Lista os espetos e seus contadores",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context(), envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		printItems(cmd.OutOrStdout(), e.svc.Items())
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add NOME",
	Short: "Cadastra um espeto novo",
	Long: `Cadastra um espeto novo no fim da lista.

O identificador vem do nome sem acentos; nomes repetidos ganham sufixo
(_1, _2, ...).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context(), envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		item, err := e.svc.AddItem(cmd.Context(), strings.Join(args, " "), addStock)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Cadastrado: %s (%s), estoque %d\n", item.Name, item.ID, item.Stock)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update ITEM",
	Short: "Soma ou tira quantidade de um espeto",
	Long: `Aplica uma quantidade a um espeto na seção escolhida.

Vendas e consumo baixam o estoque; entrada mexe só no estoque. Valores
negativos desfazem lançamentos.

Exemplos:
  grelha update queijo --channel sales --delta 2
  grelha update cupim --channel entry --pack
  grelha update frango --channel consumption --delta -1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, err := models.ParseChannel(updateChannel)
		if err != nil {
			return err
		}
		if updatePack && channel != models.ChannelEntry {
			return fmt.Errorf("--pack only applies to the entry channel")
		}

		e, err := openEnv(cmd.Context(), envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		var item models.Item
		if updatePack {
			item, err = e.svc.AddPack(cmd.Context(), args[0])
		} else {
			item, err = e.svc.Update(cmd.Context(), args[0], channel.Field(), updateDelta)
		}
		if err != nil {
			return err
		}

		printItem(cmd.OutOrStdout(), item)
		return nil
	},
}

var bulkCmd = &cobra.Command{
	Use:   "bulk TEXTO",
	Short: "Lança uma lista em texto livre",
	Long: `Lança uma lista separada por vírgula, ponto ou ponto e vírgula.

Exemplo:
  grelha bulk --channel sales "2 queijo, três frango c/ bacon; 1 pacote de cupim"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, err := models.ParseChannel(textChannel)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd.Context(), envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.svc.ApplyBulk(cmd.Context(), strings.Join(args, " "), channel)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, a := range res.Applied {
			fmt.Fprintf(out, "ok   %-24s %+d %s\n", a.Clause, a.Quantity, a.ItemName)
		}
		for _, u := range res.Unresolved {
			fmt.Fprintf(out, "??   %s\n", u)
		}
		for _, r := range res.Rejected {
			fmt.Fprintf(out, "erro %s: %v\n", r.Clause, r.Err)
		}

		if failed := res.Failed(); len(failed) > 0 {
			return fmt.Errorf("%d of %d clauses not applied", len(failed), len(failed)+len(res.Applied))
		}
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask FRASE",
	Short: "Interpreta uma frase com a IA e aplica",
	Long: `Envia uma frase ao modelo de linguagem configurado e aplica o espeto e
a quantidade que ele devolver.

Exemplo:
  grelha ask --channel entry "chegaram dois pacotes de frango com bacon"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, err := models.ParseChannel(textChannel)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd.Context(), envOptions{delegate: true})
		if err != nil {
			return err
		}
		defer e.Close()

		res, item, err := e.svc.Ask(cmd.Context(), strings.Join(args, " "), channel)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %+d (%s) #%s\n",
			res.ItemName, res.Quantity, strings.ToLower(channel.Label()), util.ShortID(res.RequestID))
		printItem(cmd.OutOrStdout(), item)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Zera vendas e consumo, ou tudo com --hard",
	Long: `Sem opções zera vendas e consumo e mantém o estoque (troca de turno).

Com --hard volta ao cardápio inicial com tudo em zero, removendo os
espetos cadastrados depois.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := "Zerar vendas e consumo?"
		if resetHard {
			prompt = "Zerar TUDO, inclusive o estoque?"
		}
		if !confirmDestructiveAction(cmd.OutOrStdout(), cmd.InOrStdin(), prompt) {
			return fmt.Errorf("reset not confirmed")
		}

		e, err := openEnv(cmd.Context(), envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		if resetHard {
			e.svc.HardReset(cmd.Context())
		} else {
			e.svc.SoftReset(cmd.Context())
		}

		printItems(cmd.OutOrStdout(), e.svc.Items())
		return nil
	},
}

func init() {
	addCmd.Flags().IntVar(&addStock, "stock", 0, "Initial stock")

	updateCmd.Flags().StringVar(&updateChannel, "channel", "sales", "Channel: sales, entry or consumption")
	updateCmd.Flags().IntVar(&updateDelta, "delta", 1, "Quantity to apply (negative undoes)")
	updateCmd.Flags().BoolVar(&updatePack, "pack", false, "Add one pack to stock (entry channel only)")

	for _, c := range []*cobra.Command{bulkCmd, askCmd} {
		c.Flags().StringVar(&textChannel, "channel", "sales", "Channel: sales, entry or consumption")
	}

	resetCmd.Flags().BoolVar(&resetHard, "hard", false, "Zero everything and restore the catalog")
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Auto-confirm (non-interactive)")

	rootCmd.AddCommand(listCmd, addCmd, updateCmd, bulkCmd, askCmd, resetCmd)
}

// confirmDestructiveAction asks on in unless --yes was given.
func confirmDestructiveAction(out io.Writer, in io.Reader, prompt string) bool {
	if resetYes {
		return true
	}

	fmt.Fprintf(out, "%s Digite 'sim' para confirmar: ", prompt)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "sim" || response == "s"
}

func printItem(w io.Writer, it models.Item) {
	fmt.Fprintf(w, "%s: estoque %d | vendido %d | consumo %d\n", it.Name, it.Stock, it.Sold, it.Consumed)
}

func printItems(w io.Writer, reg models.Registry) {
	rows := make([][]string, 0, len(reg)+1)
	for _, it := range reg {
		rows = append(rows, []string{
			it.ID, it.Name,
			strconv.Itoa(it.Stock), strconv.Itoa(it.Sold), strconv.Itoa(it.Consumed),
		})
	}
	t := reg.Totals()
	rows = append(rows, []string{"", "TOTAL", strconv.Itoa(t.Stock), strconv.Itoa(t.Sold), strconv.Itoa(t.Consumed)})

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "PRODUTO", "ESTOQUE", "VENDIDO", "CONSUMO").
		Rows(rows...)

	fmt.Fprintln(w, tbl.Render())
}
