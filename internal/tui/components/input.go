package components

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Input is a simple text input component.
type Input struct {
	label       string
	value       []rune
	placeholder string
	width       int
	focused     bool
	cursorPos   int
	maxLength   int
	required    bool
	numeric     bool
	err         string
	palette     Palette
}

// NewInput creates a new input field.
func NewInput(label string) *Input {
	return &Input{
		label:     label,
		width:     20,
		maxLength: 100,
		palette:   DefaultPalette(),
	}
}

// SetValue sets the input value.
func (i *Input) SetValue(v string) *Input {
	i.value = []rune(v)
	i.cursorPos = len(i.value)
	return i
}

// SetPlaceholder sets the placeholder text.
func (i *Input) SetPlaceholder(p string) *Input {
	i.placeholder = p
	return i
}

// SetWidth sets the input width.
func (i *Input) SetWidth(w int) *Input {
	i.width = w
	return i
}

// SetMaxLength sets the maximum input length.
func (i *Input) SetMaxLength(m int) *Input {
	i.maxLength = m
	return i
}

// SetRequired marks the field as required.
func (i *Input) SetRequired(r bool) *Input {
	i.required = r
	return i
}

// SetNumeric restricts input to an optionally signed integer.
func (i *Input) SetNumeric(n bool) *Input {
	i.numeric = n
	return i
}

// SetPalette sets the render colors.
func (i *Input) SetPalette(p Palette) *Input {
	i.palette = p
	return i
}

// SetError sets an error message.
func (i *Input) SetError(e string) *Input {
	i.err = e
	return i
}

// Focus sets the focus state.
func (i *Input) Focus(focused bool) {
	i.focused = focused
	if focused && i.cursorPos > len(i.value) {
		i.cursorPos = len(i.value)
	}
}

// IsFocused returns the focus state.
func (i *Input) IsFocused() bool {
	return i.focused
}

// Value returns the current value.
func (i *Input) Value() string {
	return string(i.value)
}

// HandleKey handles a key press.
func (i *Input) HandleKey(key string) {
	if !i.focused {
		return
	}

	switch key {
	case "backspace":
		if i.cursorPos > 0 {
			i.value = append(i.value[:i.cursorPos-1], i.value[i.cursorPos:]...)
			i.cursorPos--
		}
	case "delete":
		if i.cursorPos < len(i.value) {
			i.value = append(i.value[:i.cursorPos], i.value[i.cursorPos+1:]...)
		}
	case "left":
		if i.cursorPos > 0 {
			i.cursorPos--
		}
	case "right":
		if i.cursorPos < len(i.value) {
			i.cursorPos++
		}
	case "home", "ctrl+a":
		i.cursorPos = 0
	case "end", "ctrl+e":
		i.cursorPos = len(i.value)
	default:
		// Insert printable character
		if utf8.RuneCountInString(key) != 1 || len(i.value) >= i.maxLength {
			return
		}
		r, _ := utf8.DecodeRuneInString(key)
		if !unicode.IsPrint(r) || !i.accepts(r) {
			return
		}
		i.value = append(i.value[:i.cursorPos], append([]rune{r}, i.value[i.cursorPos:]...)...)
		i.cursorPos++
	}
}

func (i *Input) accepts(r rune) bool {
	if !i.numeric {
		return true
	}
	return unicode.IsDigit(r) || (r == '-' && i.cursorPos == 0)
}

// Validate validates the input.
func (i *Input) Validate() bool {
	if i.required && strings.TrimSpace(string(i.value)) == "" {
		i.err = "Obrigatório"
		return false
	}
	i.err = ""
	return true
}

// Render renders the input field.
func (i *Input) Render() string {
	labelStyle := i.palette.fg(i.palette.Secondary).Width(16)
	valueStyle := i.palette.fg(i.palette.Primary)
	focusStyle := i.palette.fg(i.palette.Accent)
	errStyle := i.palette.fg(i.palette.Error)
	mutedStyle := i.palette.fg(i.palette.Muted)

	// Build label
	label := i.label
	if i.required {
		label += "*"
	}
	label += ":"

	// Build value display
	var display string
	if len(i.value) == 0 && i.placeholder != "" && !i.focused {
		display = mutedStyle.Render(i.placeholder)
	} else if i.focused {
		before := string(i.value[:i.cursorPos])
		after := string(i.value[i.cursorPos:])
		display = focusStyle.Render(before + "_" + after)
	} else {
		display = valueStyle.Render(string(i.value))
	}

	// Pad display to width
	displayLen := len(i.value)
	if i.focused {
		displayLen++ // cursor
	}
	if displayLen < i.width {
		display += strings.Repeat(" ", i.width-displayLen)
	}

	result := labelStyle.Render(label) + " " + display

	if i.err != "" {
		result += " " + errStyle.Render(i.err)
	}

	return result
}

// FormField is a focusable form component.
type FormField interface {
	Focus(bool)
	IsFocused() bool
	HandleKey(string)
	Render() string
}

var _ FormField = (*Input)(nil)

// Form is a simple form container.
type Form struct {
	title      string
	fields     []FormField
	focusIndex int
	submitted  bool
	cancelled  bool
	err        string
	palette    Palette
}

// NewForm creates a new form.
func NewForm(title string) *Form {
	return &Form{
		title:   title,
		palette: DefaultPalette(),
	}
}

// SetPalette sets the render colors.
func (f *Form) SetPalette(p Palette) *Form {
	f.palette = p
	return f
}

// AddField adds a field to the form.
func (f *Form) AddField(field FormField) *Form {
	f.fields = append(f.fields, field)
	if len(f.fields) == 1 {
		field.Focus(true)
	}
	return f
}

// HandleKey handles form navigation.
func (f *Form) HandleKey(key string) {
	switch key {
	case "tab", "down":
		f.nextField()
	case "shift+tab", "up":
		f.prevField()
	case "ctrl+s":
		f.submitted = true
	case "esc":
		f.cancelled = true
	case "enter":
		// Move to next field on enter, or submit if on last field
		if f.focusIndex == len(f.fields)-1 {
			f.submitted = true
		} else {
			f.nextField()
		}
	default:
		if f.focusIndex < len(f.fields) {
			f.fields[f.focusIndex].HandleKey(key)
		}
	}
}

func (f *Form) nextField() {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focusIndex].Focus(false)
	f.focusIndex = (f.focusIndex + 1) % len(f.fields)
	f.fields[f.focusIndex].Focus(true)
}

func (f *Form) prevField() {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focusIndex].Focus(false)
	f.focusIndex--
	if f.focusIndex < 0 {
		f.focusIndex = len(f.fields) - 1
	}
	f.fields[f.focusIndex].Focus(true)
}

// IsSubmitted returns true if form was submitted.
func (f *Form) IsSubmitted() bool {
	return f.submitted
}

// IsCancelled returns true if form was cancelled.
func (f *Form) IsCancelled() bool {
	return f.cancelled
}

// Reopen clears the submitted flag after a rejected submission.
func (f *Form) Reopen() {
	f.submitted = false
}

// SetError sets an error message.
func (f *Form) SetError(err string) {
	f.err = err
}

// Render renders the form.
func (f *Form) Render() string {
	titleStyle := f.palette.fg(f.palette.Accent).Bold(true)
	helpStyle := f.palette.fg(f.palette.Secondary)
	errStyle := f.palette.fg(f.palette.Error)

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("=== %s ===", f.title)))
	b.WriteString("\n\n")

	for _, field := range f.fields {
		b.WriteString(field.Render())
		b.WriteString("\n")
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render("Erro: " + f.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Tab:Próximo  Enter:Confirmar  Esc:Cancelar"))

	return b.String()
}
