package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	// Navigation
	Up          Key
	Down        Key
	NextChannel Key
	PrevChannel Key
	Sales       Key
	Entry       Key
	Consumption Key

	// Counter actions
	Increment Key
	Decrement Key
	Pack      Key

	// Text entry
	Bulk Key
	Ask  Key

	// Registry actions
	Add       Key
	Contact   Key
	SoftReset Key
	HardReset Key
	Report    Key
	Detail    Key

	// General
	Back Key
	Quit Key
	Help Key
}

// Key represents a key binding.
type Key struct {
	Keys    []string
	Help    string
	Enabled bool
}

func bind(help string, keys ...string) Key {
	return Key{Keys: keys, Help: help, Enabled: true}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          bind("subir", "up", "k"),
		Down:        bind("descer", "down", "j"),
		NextChannel: bind("próxima seção", "tab", "right", "l"),
		PrevChannel: bind("seção anterior", "shift+tab", "left", "h"),
		Sales:       bind("vendas", "1", "f1"),
		Entry:       bind("entrada", "2", "f2"),
		Consumption: bind("consumo", "3", "f3"),

		Increment: bind("+1", "+", "="),
		Decrement: bind("-1", "-", "_"),
		Pack:      bind("+pacote", "p"),

		Bulk: bind("lista", "b"),
		Ask:  bind("IA", "i"),

		Add:       bind("novo espeto", "a"),
		Contact:   bind("zap", "s"),
		SoftReset: bind("limpar vendas", "d"),
		HardReset: bind("zerar geral", "z"),
		Report:    bind("relatório", "r"),
		Detail:    bind("detalhes", "enter"),

		Back: bind("voltar", "esc"),
		Quit: bind("sair", "q", "ctrl+c"),
		Help: bind("ajuda", "?"),
	}
}

// Matches checks if a key message matches this key binding.
func (k Key) Matches(msg tea.KeyMsg) bool {
	if !k.Enabled {
		return false
	}

	keyStr := msg.String()
	for _, key := range k.Keys {
		if keyStr == key {
			return true
		}
	}
	return false
}

// MatchesAny checks if a key message matches any of the provided key bindings.
func MatchesAny(msg tea.KeyMsg, keys ...Key) bool {
	for _, k := range keys {
		if k.Matches(msg) {
			return true
		}
	}
	return false
}

// IsQuit checks if the key message is a quit command.
func (km KeyMap) IsQuit(msg tea.KeyMsg) bool {
	return km.Quit.Matches(msg)
}

// IsNavigation checks if the key message moves the selection or the
// active section.
func (km KeyMap) IsNavigation(msg tea.KeyMsg) bool {
	return MatchesAny(msg, km.Up, km.Down, km.NextChannel, km.PrevChannel,
		km.Sales, km.Entry, km.Consumption)
}

// StatusBarHelp returns the help text for the status bar.
func (km KeyMap) StatusBarHelp() string {
	return "[Tab]Seção [+/-]Ajustar [p]Pacote [b]Lista [i]IA [a]Novo [r]Relatório [?]Ajuda [q]Sair"
}

// HelpLines lists every binding as (keys, description) pairs for the help
// screen.
func (km KeyMap) HelpLines() [][2]string {
	return [][2]string{
		{"↑/↓ j/k", "Escolher espeto"},
		{"Tab 1 2 3", "Trocar seção (Vendas, Entrada, Consumo)"},
		{"+ / -", "Somar ou tirar 1 na seção atual"},
		{"p", "Somar um pacote (só na Entrada)"},
		{"b", "Lançar lista: \"2 queijo, 3 frango\""},
		{"i", "Frase livre interpretada pela IA"},
		{"a", "Cadastrar novo espeto"},
		{"Enter", "Ver detalhes"},
		{"s", "Configurar Zap do patrão"},
		{"r", "Relatório e link do WhatsApp"},
		{"d", "Limpar vendas e consumo (mantém estoque)"},
		{"z", "Zerar geral (inclusive estoque)"},
		{"q", "Sair"},
	}
}
