// Package report renders the registry for sharing: CSV export, a plain
// text summary, and a WhatsApp link carrying that summary.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mestredagrelha/grelha/internal/models"
	"github.com/mestredagrelha/grelha/internal/util"
)

// ErrNoContact is returned when a share link is requested without a phone.
var ErrNoContact = errors.New("no contact phone configured")

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{"id", "produto", "estoque", "consumo", "vendido"}

// WriteCSV writes reg to w, one row per item in registry order.
func WriteCSV(w io.Writer, reg models.Registry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, it := range reg {
		row := []string{
			it.ID,
			it.Name,
			strconv.Itoa(it.Stock),
			strconv.Itoa(it.Consumed),
			strconv.Itoa(it.Sold),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row %s: %w", it.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSV returns reg as CSV text.
func CSV(reg models.Registry) (string, error) {
	var b strings.Builder
	if err := WriteCSV(&b, reg); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Summary renders a short human-readable report. Items with no activity and
// no stock are listed only in the totals.
func Summary(reg models.Registry, storeName string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*%s* - %s\n\n", storeName, util.FormatDateTime(now))

	for _, it := range reg {
		if it.Stock == 0 && it.Sold == 0 && it.Consumed == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: estoque %d | vendido %d | consumo %d\n",
			it.Name, it.Stock, it.Sold, it.Consumed)
	}

	totals := reg.Totals()
	fmt.Fprintf(&b, "\nTotal vendido: %d\n", totals.Sold)
	fmt.Fprintf(&b, "Total consumo: %d\n", totals.Consumed)
	fmt.Fprintf(&b, "Estoque restante: %d\n", totals.Stock)

	if empty := emptyItems(reg); len(empty) > 0 {
		fmt.Fprintf(&b, "\nSem estoque: %s\n", strings.Join(empty, ", "))
	}

	return b.String()
}

func emptyItems(reg models.Registry) []string {
	var names []string
	for _, it := range reg {
		if it.Stock == 0 {
			names = append(names, it.Name)
		}
	}
	return names
}

// WhatsAppLink builds a wa.me link that opens a chat with phone and text
// pre-filled.
func WhatsAppLink(countryCode, phone, text string) (string, error) {
	phone = models.NormalizePhone(phone)
	if phone == "" {
		return "", ErrNoContact
	}

	cc := models.NormalizePhone(countryCode)
	if strings.HasPrefix(phone, cc) && len(phone) > 11 {
		cc = ""
	}

	return "https://wa.me/" + cc + phone + "?text=" + url.QueryEscape(text), nil
}
