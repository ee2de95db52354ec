package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mestredagrelha/grelha/internal/models"
)

func sampleRegistry() models.Registry {
	return models.Registry{
		{ID: "contra_file", Name: "Contra Filé", Stock: 12, Sold: 8, Consumed: 1},
		{ID: "frango_bacon", Name: "Frango c/ Bacon", Stock: 0, Sold: 15},
		{ID: "misto", Name: "Misto"},
	}
}

func TestCSV(t *testing.T) {
	got, err := CSV(sampleRegistry())
	if err != nil {
		t.Fatalf("CSV failed: %v", err)
	}

	want := "id,produto,estoque,consumo,vendido\n" +
		"contra_file,Contra Filé,12,1,8\n" +
		"frango_bacon,Frango c/ Bacon,0,0,15\n" +
		"misto,Misto,0,0,0\n"
	if got != want {
		t.Errorf("CSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestCSV_QuotesNames(t *testing.T) {
	got, err := CSV(models.Registry{{ID: "x", Name: "Queijo, coalho"}})
	if err != nil {
		t.Fatalf("CSV failed: %v", err)
	}
	if !strings.Contains(got, `"Queijo, coalho"`) {
		t.Errorf("expected quoted name, got %s", got)
	}
}

func TestSummary(t *testing.T) {
	now := time.Date(2024, 6, 1, 22, 30, 0, 0, time.UTC)
	got := Summary(sampleRegistry(), "Grelha", now)

	for _, want := range []string{
		"*Grelha* - 01/06/2024 22:30",
		"Contra Filé: estoque 12 | vendido 8 | consumo 1",
		"Frango c/ Bacon: estoque 0 | vendido 15 | consumo 0",
		"Total vendido: 23",
		"Total consumo: 1",
		"Estoque restante: 12",
		"Sem estoque: Frango c/ Bacon, Misto",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Misto: estoque") {
		t.Error("idle item should not get its own line")
	}
}

func TestWhatsAppLink(t *testing.T) {
	tests := []struct {
		name    string
		cc      string
		phone   string
		text    string
		want    string
		wantErr error
	}{
		{
			name: "Local number gets country code",
			cc:   "55", phone: "(11) 98765-4321", text: "oi tudo bem",
			want: "https://wa.me/5511987654321?text=oi+tudo+bem",
		},
		{
			name: "Leading zero stripped",
			cc:   "55", phone: "011987654321", text: "x",
			want: "https://wa.me/5511987654321?text=x",
		},
		{
			name: "Already international",
			cc:   "55", phone: "5511987654321", text: "x",
			want: "https://wa.me/5511987654321?text=x",
		},
		{
			name: "Special characters escaped",
			cc:   "55", phone: "11987654321", text: "*Grelha* & Cia\nTotal: 5",
			want: "https://wa.me/5511987654321?text=%2AGrelha%2A+%26+Cia%0ATotal%3A+5",
		},
		{
			name: "No phone",
			cc:   "55", phone: "  ", text: "x",
			wantErr: ErrNoContact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WhatsAppLink(tt.cc, tt.phone, tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("WhatsAppLink() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("WhatsAppLink() = %q, want %q", got, tt.want)
			}
		})
	}
}
