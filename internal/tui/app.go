package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mestredagrelha/grelha/internal/config"
	"github.com/mestredagrelha/grelha/internal/freetext"
	"github.com/mestredagrelha/grelha/internal/models"
	"github.com/mestredagrelha/grelha/internal/reconcile"
	"github.com/mestredagrelha/grelha/internal/report"
	"github.com/mestredagrelha/grelha/internal/services/inventory"
	"github.com/mestredagrelha/grelha/internal/tui/components"
	invviews "github.com/mestredagrelha/grelha/internal/tui/views/inventory"
	"github.com/mestredagrelha/grelha/internal/util"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// MaxContentWidth is the maximum width for content display
const MaxContentWidth = 100

// chromeLines is the height of header, alert bar and footer.
const chromeLines = 6

// Screen is what the content area currently shows.
type Screen string

const (
	ScreenInventory Screen = "inventory"
	ScreenDetail    Screen = "detail"
	ScreenBulk      Screen = "bulk"
	ScreenAsk       Screen = "ask"
	ScreenAdd       Screen = "add"
	ScreenContact   Screen = "contact"
	ScreenReport    Screen = "report"
	ScreenHelp      Screen = "help"
)

// confirmAction is the pending yes/no question, if any.
type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmQuit
	confirmSoftReset
	confirmHardReset
)

// App is the main Bubble Tea application model.
type App struct {
	// Dependencies
	ctx    context.Context
	svc    *inventory.Service
	config *config.Config
	clock  util.Clock

	// Views
	view       *invviews.InventoryView
	input      *components.Input
	form       *components.Form
	nameInput  *components.Input
	stockInput *components.Input

	// UI state
	theme    *Theme
	keys     KeyMap
	width    int
	height   int
	ready    bool
	quitting bool
	confirm  confirmAction

	screen  Screen
	channel models.Channel

	// pending is set while a delegate call is in flight.
	pending bool

	alerts []Alert
}

// Alert represents a status message.
type Alert struct {
	Level   AlertLevel
	Message string
	Time    time.Time
}

// AlertLevel indicates the severity of an alert.
type AlertLevel int

const (
	AlertInfo AlertLevel = iota
	AlertWarning
	AlertCritical
)

// tickMsg is sent periodically to update the clock.
type tickMsg time.Time

// askResultMsg carries the outcome of a delegate call.
type askResultMsg struct {
	channel models.Channel
	res     freetext.Resolution
	item    models.Item
	err     error
}

// New creates a new App instance. svc must already be loaded.
func New(svc *inventory.Service, cfg *config.Config, clock util.Clock) *App {
	if clock == nil {
		clock = util.SystemClock
	}

	theme := NewTheme(cfg.Display.ColorScheme)

	view := invviews.NewInventoryView(theme.Palette)
	view.SetShowTotals(cfg.Display.ShowTotals)
	view.SetItems(svc.Items())

	return &App{
		ctx:     context.Background(),
		svc:     svc,
		config:  cfg,
		clock:   clock,
		view:    view,
		theme:   theme,
		keys:    DefaultKeyMap(),
		screen:  ScreenInventory,
		channel: models.ChannelSales,
		alerts:  []Alert{},
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(),
	)
}

// tickCmd returns a command that sends tick messages.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.updateViewDimensions()
		return a, nil

	case tickMsg:
		return a, tickCmd()

	case askResultMsg:
		a.pending = false
		if msg.err != nil {
			a.AddAlert(AlertWarning, "IA: "+describeError(msg.err))
			return a, nil
		}
		a.refresh()
		a.AddAlert(AlertInfo, fmt.Sprintf("IA lançou %d em %s (%s): %s #%s",
			msg.res.Quantity, msg.item.Name, strings.ToLower(msg.channel.Label()), counterSummary(msg.item),
			util.ShortID(msg.res.RequestID)))
		return a, nil
	}

	return a, nil
}

func (a *App) updateViewDimensions() {
	// title, blank line, table header, separator, totals, warning
	a.view.SetHeight(ContentHeight(a.height, chromeLines+6))
}

// handleKeyPress processes key press events.
func (a *App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Confirmation dialog takes priority
	if a.confirm != confirmNone {
		return a.handleConfirmKeys(msg)
	}

	// Text entry screens need all input
	switch a.screen {
	case ScreenBulk, ScreenAsk, ScreenContact:
		return a.handleInputKeys(msg)
	case ScreenAdd:
		return a.handleFormKeys(msg)
	}

	if a.keys.IsQuit(msg) {
		a.confirm = confirmQuit
		return a, nil
	}

	if a.keys.Help.Matches(msg) {
		a.screen = ScreenHelp
		return a, nil
	}

	if a.screen != ScreenInventory {
		if a.keys.Back.Matches(msg) {
			a.screen = ScreenInventory
		}
		return a, nil
	}

	return a.handleInventoryKeys(msg)
}

// handleConfirmKeys answers the pending confirmation.
func (a *App) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "s", "S", "enter":
		action := a.confirm
		a.confirm = confirmNone
		switch action {
		case confirmQuit:
			a.quitting = true
			return a, tea.Quit
		case confirmSoftReset:
			a.svc.SoftReset(a.ctx)
			a.refresh()
			a.AddAlert(AlertInfo, "Vendas e consumo zerados. Estoque mantido.")
		case confirmHardReset:
			a.svc.HardReset(a.ctx)
			a.refresh()
			a.AddAlert(AlertCritical, "Sistema zerado! Lance a contagem inicial na Entrada.")
		}
	case "n", "N", "esc":
		a.confirm = confirmNone
	}
	return a, nil
}

// handleInventoryKeys handles key presses on the main table.
func (a *App) handleInventoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := a.keys

	switch {
	case k.Up.Matches(msg):
		a.view.MoveUp()
	case k.Down.Matches(msg):
		a.view.MoveDown()
	case k.NextChannel.Matches(msg):
		a.setChannel(a.nextChannel(1))
	case k.PrevChannel.Matches(msg):
		a.setChannel(a.nextChannel(-1))
	case k.Sales.Matches(msg):
		a.setChannel(models.ChannelSales)
	case k.Entry.Matches(msg):
		a.setChannel(models.ChannelEntry)
	case k.Consumption.Matches(msg):
		a.setChannel(models.ChannelConsumption)

	case k.Increment.Matches(msg):
		a.adjust(1)
	case k.Decrement.Matches(msg):
		a.adjust(-1)
	case k.Pack.Matches(msg):
		a.addPack()

	case k.Bulk.Matches(msg):
		a.openInput(ScreenBulk, "Lista", "2 queijo, três frango, 1 pacote de cupim")
	case k.Ask.Matches(msg):
		if !a.svc.DelegateEnabled() {
			a.AddAlert(AlertWarning, "IA desativada. Configure a chave da API.")
			return a, nil
		}
		a.openInput(ScreenAsk, "Frase", "vendi dois de queijo com mel")
	case k.Contact.Matches(msg):
		a.openInput(ScreenContact, "Telefone", "11 98765-4321")
		a.input.SetValue(a.svc.Contact().Phone).SetMaxLength(20)
	case k.Add.Matches(msg):
		a.openAddForm()

	case k.SoftReset.Matches(msg):
		a.confirm = confirmSoftReset
	case k.HardReset.Matches(msg):
		a.confirm = confirmHardReset
	case k.Report.Matches(msg):
		a.screen = ScreenReport
	case k.Detail.Matches(msg):
		a.screen = ScreenDetail
	}

	return a, nil
}

func (a *App) nextChannel(step int) models.Channel {
	n := len(models.Channels)
	for i, c := range models.Channels {
		if c == a.channel {
			return models.Channels[((i+step)%n+n)%n]
		}
	}
	return models.ChannelSales
}

func (a *App) setChannel(c models.Channel) {
	a.channel = c
	a.view.SetChannel(c)
}

// adjust applies ±1 to the selected item on the active channel.
func (a *App) adjust(delta int) {
	item, ok := a.view.SelectedItem()
	if !ok {
		return
	}

	updated, err := a.svc.Update(a.ctx, item.ID, a.channel.Field(), delta)
	if err != nil {
		a.AddAlert(AlertWarning, item.Name+": "+describeError(err))
		return
	}

	a.refresh()
	a.AddAlert(AlertInfo, updated.Name+": "+counterSummary(updated))
}

func (a *App) addPack() {
	if a.channel != models.ChannelEntry {
		a.AddAlert(AlertWarning, "Pacote só na Entrada (tecla 2).")
		return
	}

	item, ok := a.view.SelectedItem()
	if !ok {
		return
	}

	updated, err := a.svc.AddPack(a.ctx, item.ID)
	if err != nil {
		a.AddAlert(AlertWarning, item.Name+": "+describeError(err))
		return
	}

	a.refresh()
	a.AddAlert(AlertInfo, fmt.Sprintf("%s: +%d (pacote), estoque %d", updated.Name, a.svc.PackSize(), updated.Stock))
}

func (a *App) openInput(screen Screen, label, placeholder string) {
	a.input = components.NewInput(label).
		SetPlaceholder(placeholder).
		SetWidth(40).
		SetMaxLength(300).
		SetPalette(a.theme.Palette)
	a.input.Focus(true)
	a.screen = screen
}

func (a *App) closeInput() {
	a.input = nil
	a.screen = ScreenInventory
}

// handleInputKeys handles key presses on the single-line input screens.
func (a *App) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.closeInput()
		return a, nil
	case "enter":
		return a.submitInput()
	}

	a.input.HandleKey(msg.String())
	return a, nil
}

func (a *App) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(a.input.Value())

	switch a.screen {
	case ScreenBulk:
		a.closeInput()
		if text == "" {
			return a, nil
		}
		res, err := a.svc.ApplyBulk(a.ctx, text, a.channel)
		if err != nil {
			a.AddAlert(AlertWarning, describeError(err))
			return a, nil
		}
		a.refresh()
		a.AddAlert(bulkAlert(res))
		return a, nil

	case ScreenAsk:
		if text == "" {
			a.closeInput()
			return a, nil
		}
		if a.pending {
			a.AddAlert(AlertWarning, "Aguarde: a IA ainda está respondendo.")
			return a, nil
		}
		a.pending = true
		a.closeInput()
		return a, a.askCmd(text, a.channel)

	case ScreenContact:
		a.closeInput()
		c, err := a.svc.SetContact(a.ctx, text)
		if err != nil {
			a.AddAlert(AlertWarning, "Telefone não salvo: "+err.Error())
			return a, nil
		}
		if c.IsSet() {
			a.AddAlert(AlertInfo, "Zap salvo: "+c.Masked())
		} else {
			a.AddAlert(AlertWarning, "Zap removido.")
		}
		return a, nil
	}

	return a, nil
}

// askCmd runs the delegate off the event loop.
func (a *App) askCmd(text string, channel models.Channel) tea.Cmd {
	ctx := a.ctx
	svc := a.svc
	return func() tea.Msg {
		res, item, err := svc.Ask(ctx, text, channel)
		return askResultMsg{channel: channel, res: res, item: item, err: err}
	}
}

func (a *App) openAddForm() {
	a.nameInput = components.NewInput("Nome").
		SetRequired(true).
		SetMaxLength(40).
		SetPalette(a.theme.Palette)
	a.stockInput = components.NewInput("Estoque inicial").
		SetNumeric(true).
		SetMaxLength(6).
		SetPlaceholder("0").
		SetPalette(a.theme.Palette)

	a.form = components.NewForm("NOVO ESPETO").SetPalette(a.theme.Palette)
	a.form.AddField(a.nameInput).AddField(a.stockInput)
	a.screen = ScreenAdd
}

// handleFormKeys handles key presses in the add-item form.
func (a *App) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.form.HandleKey(msg.String())

	if a.form.IsCancelled() {
		a.form = nil
		a.screen = ScreenInventory
		return a, nil
	}

	if a.form.IsSubmitted() {
		a.saveItem()
	}

	return a, nil
}

func (a *App) saveItem() {
	if !a.nameInput.Validate() {
		a.form.Reopen()
		return
	}

	stock := 0
	if s := strings.TrimSpace(a.stockInput.Value()); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			a.form.SetError("estoque inválido")
			a.form.Reopen()
			return
		}
		stock = n
	}

	item, err := a.svc.AddItem(a.ctx, a.nameInput.Value(), stock)
	if err != nil {
		a.form.SetError(describeError(err))
		a.form.Reopen()
		return
	}

	a.form = nil
	a.screen = ScreenInventory
	a.refresh()
	a.view.SelectLast()
	a.AddAlert(AlertInfo, fmt.Sprintf("Espeto cadastrado: %s (%s)", item.Name, item.ID))
}

// refresh reloads the view from the service.
func (a *App) refresh() {
	a.view.SetItems(a.svc.Items())
}

func counterSummary(it models.Item) string {
	return fmt.Sprintf("estoque %d | vendido %d | consumo %d", it.Stock, it.Sold, it.Consumed)
}

func bulkAlert(res freetext.BulkResult) (AlertLevel, string) {
	msg := fmt.Sprintf("Lista: %d lançado(s)", len(res.Applied))
	if len(res.Failed()) == 0 {
		return AlertInfo, msg
	}
	if len(res.Unresolved) > 0 {
		msg += ". Não entendi: " + strings.Join(res.Unresolved, "; ")
	}
	if len(res.Rejected) > 0 {
		parts := make([]string, len(res.Rejected))
		for i, r := range res.Rejected {
			parts[i] = fmt.Sprintf("%s (%s)", r.Clause, describeError(r.Err))
		}
		msg += ". Não lançado: " + strings.Join(parts, "; ")
	}
	return AlertWarning, msg
}

// describeError turns a domain error into an operator-facing message.
func describeError(err error) string {
	switch {
	case errors.Is(err, reconcile.ErrInvalidDelta):
		return "o contador ficaria negativo"
	case errors.Is(err, reconcile.ErrItemNotFound):
		return "espeto não encontrado"
	case errors.Is(err, reconcile.ErrEmptyName):
		return "informe o nome do espeto"
	case errors.Is(err, freetext.ErrZeroQuantity):
		return "quantidade zero"
	case errors.Is(err, freetext.ErrDelegateUnavailable):
		return "indisponível no momento"
	case errors.Is(err, freetext.ErrDelegateMalformed):
		return "não reconheci o espeto ou a quantidade"
	case errors.Is(err, freetext.ErrNotUnderstood):
		return "não entendi"
	default:
		return err.Error()
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Acendendo a grelha..."
	}

	if a.quitting {
		return a.theme.Title.Render("Grelha fechada. Até amanhã!")
	}

	var b strings.Builder

	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	b.WriteString(a.renderAlertBar())
	b.WriteString("\n")

	contentHeight := a.height - chromeLines
	if a.confirm != confirmNone {
		b.WriteString(a.renderConfirmDialog(contentHeight))
	} else {
		b.WriteString(a.renderContent(contentHeight))
	}

	b.WriteString("\n")
	b.WriteString(a.renderFooter())

	return b.String()
}

// renderHeader renders the top header bar with the channel tabs.
func (a *App) renderHeader() string {
	title := fmt.Sprintf("GRELHA v%s · %s", Version, a.config.Store.Name)

	var tabs []string
	for i, c := range models.Channels {
		label := fmt.Sprintf("%d %s", i+1, c.Label())
		if c == a.channel {
			tabs = append(tabs, a.theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, a.theme.Tab.Render(label))
		}
	}
	right := strings.Join(tabs, " ")
	if a.pending {
		right = a.theme.Warning.Render("IA pensando… ") + right
	}

	if GetBreakpoint(a.width) == BreakpointNarrow {
		title = Truncate(title, a.width-lipgloss.Width(right)-3)
	}

	spacing := a.width - lipgloss.Width(title) - lipgloss.Width(right) - 2
	if spacing < 1 {
		spacing = 1
	}

	header := a.theme.Header.Render(title) +
		strings.Repeat(" ", spacing) +
		right

	return header + "\n" + a.theme.DrawDoubleLine(a.width)
}

// renderAlertBar renders the latest alert next to the clock.
func (a *App) renderAlertBar() string {
	var alertText string
	if len(a.alerts) > 0 {
		alert := a.alerts[0]
		switch alert.Level {
		case AlertCritical:
			alertText = a.theme.AlertCrit.Render(alert.Message)
		case AlertWarning:
			alertText = a.theme.AlertWarn.Render(alert.Message)
		default:
			alertText = a.theme.Alert.Render(alert.Message)
		}
	} else if !a.svc.Contact().IsSet() {
		alertText = a.theme.AlertWarn.Render("Zap do patrão não configurado (tecla s)")
	} else {
		alertText = a.theme.Muted.Render("Pronto. Vendas baixam o estoque.")
	}

	timeDisplay := a.theme.Value.Render(util.FormatDateTime(a.clock()))
	divider := a.theme.StatusDivider.Render()

	return timeDisplay + divider + alertText
}

// renderContent renders the main content area based on current screen.
func (a *App) renderContent(height int) string {
	contentWidth := ContentWidth(a.width, 20, MaxContentWidth)
	content := a.screenContent(contentWidth)

	style := lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Top)

	contentStyle := lipgloss.NewStyle().
		Width(contentWidth)

	return style.Render(contentStyle.Render(content))
}

func (a *App) screenContent(width int) string {
	switch a.screen {
	case ScreenDetail:
		item, ok := a.view.SelectedItem()
		return a.view.RenderDetail(item, ok) + "\n" + a.theme.Muted.Render("Esc:Voltar")
	case ScreenBulk:
		return a.renderInputScreen("LANÇAR LISTA",
			fmt.Sprintf("Seção: %s. Separe os itens por vírgula, ponto ou ponto e vírgula.", a.channel.Label()))
	case ScreenAsk:
		return a.renderInputScreen("PERGUNTAR À IA",
			fmt.Sprintf("Seção: %s. Escreva como falaria: \"chegaram 2 pacotes de frango\".", a.channel.Label()))
	case ScreenContact:
		return a.renderInputScreen("ZAP DO PATRÃO",
			"Número com DDD. O relatório será enviado para ele. Vazio remove.")
	case ScreenAdd:
		if a.form != nil {
			return a.form.Render()
		}
	case ScreenReport:
		return a.renderReport()
	case ScreenHelp:
		return a.renderHelp()
	}
	return a.view.Render(width)
}

func (a *App) renderInputScreen(title, hint string) string {
	var b strings.Builder
	b.WriteString(a.theme.Title.Render("=== " + title + " ==="))
	b.WriteString("\n\n")
	b.WriteString(a.theme.Label.Render(hint))
	b.WriteString("\n\n")
	if a.input != nil {
		b.WriteString(a.input.Render())
	}
	b.WriteString("\n\n")
	b.WriteString(a.theme.Muted.Render("Enter:Confirmar  Esc:Cancelar"))
	return b.String()
}

// renderReport renders the summary and the share link.
func (a *App) renderReport() string {
	summary := report.Summary(a.svc.Items(), a.config.Store.Name, a.clock())

	var b strings.Builder
	b.WriteString(a.theme.Title.Render("=== RELATÓRIO ==="))
	b.WriteString("\n\n")
	b.WriteString(a.theme.Value.Render(summary))
	b.WriteString("\n")

	link, err := report.WhatsAppLink(a.config.Report.CountryCode, a.svc.Contact().Phone, summary)
	if errors.Is(err, report.ErrNoContact) {
		b.WriteString(a.theme.Warning.Render("Configure o Zap do patrão (tecla s) para gerar o link."))
	} else {
		b.WriteString(a.theme.Label.Render("Enviar pelo WhatsApp:"))
		b.WriteString("\n")
		b.WriteString(a.theme.Accent.Render(link))
	}

	b.WriteString("\n\n")
	b.WriteString(a.theme.Muted.Render("Esc:Voltar"))
	return b.String()
}

// renderHelp renders the help screen.
func (a *App) renderHelp() string {
	var b strings.Builder

	b.WriteString(a.theme.Title.Render("=== AJUDA ==="))
	b.WriteString("\n\n")

	for _, item := range a.keys.HelpLines() {
		line := fmt.Sprintf("    %s  %s", PadRight(item[0], 10), item[1])
		b.WriteString(a.theme.Primary.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Label.Render(fmt.Sprintf("    Um pacote = %d espetos.", a.svc.PackSize())))
	b.WriteString("\n\n")
	b.WriteString(a.theme.Muted.Render("Esc:Voltar"))

	return b.String()
}

// renderConfirmDialog renders the pending yes/no question.
func (a *App) renderConfirmDialog(height int) string {
	var title, body string
	switch a.confirm {
	case confirmSoftReset:
		title = "LIMPAR VENDAS E CONSUMO?"
		body = "Vendas e consumo vão para ZERO.\nO estoque mantém o valor atual."
	case confirmHardReset:
		title = "ZERAR GERAL?"
		body = "Isso coloca ZERO em TUDO, inclusive o estoque.\nEspetos cadastrados depois do cardápio são removidos."
	default:
		title = "SAIR?"
		body = "Deseja fechar a grelha?"
	}

	dialog := a.theme.Box.Render(
		a.theme.Title.Render(title) + "\n\n" +
			a.theme.Base.Render(body) + "\n\n" +
			a.theme.Label.Render("[S]im  [N]ão"),
	)

	style := lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return style.Render(dialog)
}

// renderFooter renders the bottom status bar.
func (a *App) renderFooter() string {
	separator := a.theme.DrawHorizontalLine(a.width)
	help := a.keys.StatusBarHelp()
	if GetBreakpoint(a.width) == BreakpointNarrow {
		help = "[?]Ajuda [q]Sair"
	}
	return separator + "\n" + a.theme.Footer.Render(help)
}

// AddAlert adds a new alert to the display.
func (a *App) AddAlert(level AlertLevel, message string) {
	a.alerts = append([]Alert{{
		Level:   level,
		Message: message,
		Time:    a.clock(),
	}}, a.alerts...)

	// Keep only last 10 alerts
	if len(a.alerts) > 10 {
		a.alerts = a.alerts[:10]
	}
}

// ClearAlerts removes all alerts.
func (a *App) ClearAlerts() {
	a.alerts = []Alert{}
}

// Run starts the TUI application.
func Run(ctx context.Context, svc *inventory.Service, cfg *config.Config) error {
	app := New(svc, cfg, util.SystemClock)
	app.ctx = ctx

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
