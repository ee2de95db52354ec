package gemini

import (
	"fmt"
	"strings"

	"github.com/mestredagrelha/grelha/internal/freetext"
	"github.com/mestredagrelha/grelha/internal/models"
)

// BuildPrompt renders the instruction sent to the model.
func BuildPrompt(req freetext.Request, packSize int) string {
	var b strings.Builder

	b.WriteString("You help the kitchen of a skewer grill keep its stock count.\n")
	b.WriteString("Known items: [")
	for i, it := range req.AvailableItems {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s (id: %s)", it.Name, it.ID)
	}
	b.WriteString("].\n\n")

	fmt.Fprintf(&b, "Section: %s.\n", req.ContextHint)
	fmt.Fprintf(&b, "Sentence: %q.\n\n", req.FreeText)

	b.WriteString("Rules:\n")
	b.WriteString("1. Pick the id of the single item the sentence talks about. Nicknames count (\"bife\" is contra_file).\n")
	b.WriteString("2. Read the quantity as a whole number of units.\n")
	if req.ContextHint == string(models.ChannelEntry) {
		fmt.Fprintf(&b, "3. A pack word (pacote, fardo, caixa) means %d units each; multiply.\n", packSize)
	}
	b.WriteString("If no known item fits, use null for itemId. Never guess.\n\n")

	b.WriteString("Answer with JSON only:\n")
	b.WriteString(`{"itemId": "id_or_null", "quantity": number, "subType": "optional note or null"}`)
	b.WriteString("\n")

	return b.String()
}
