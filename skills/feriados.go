// Package skills implements the synchronous informational commands. Each
// skill wraps one upstream API behind a short timeout and always returns
// renderable text: upstream failures degrade to a friendly fallback
// message instead of an error, so command handlers can reply with whatever
// comes back.
package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"
)

const feriadosAPIDown = "🏳️ La api de feriados no responde"

// argentinaTZ is UTC-3, without daylight saving.
var argentinaTZ = time.FixedZone("ART", -3*60*60)

// Feriado is one holiday entry as the nolaborables API returns it.
type Feriado struct {
	Motivo string `json:"motivo"`
	Tipo   string `json:"tipo"`
	Dia    int    `json:"dia"`
	Mes    int    `json:"mes"`
}

// Holidays reports the remaining Argentine holidays of the year.
type Holidays struct {
	baseURL string
	http    *http.Client
	now     func() time.Time
}

func NewHolidays(baseURL string) *Holidays {
	return &Holidays{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
		now:     time.Now,
	}
}

// Remaining renders the next holiday plus the rest of the year's list.
func (h *Holidays) Remaining(ctx context.Context) string {
	today := h.now().In(argentinaTZ)

	feriados, err := h.fetchYear(ctx, today.Year())
	if err != nil {
		log.Printf("⚠️ Holidays api failed: %v", err)
		return feriadosAPIDown
	}

	upcoming := upcomingFeriados(today, feriados)
	if len(upcoming) == 0 {
		return "No hay más feriados este año"
	}

	next := upcoming[0]
	header := fmt.Sprintf("El próximo feriado es el %d/%d por *%s*", next.Dia, next.Mes, next.Motivo)
	return header + "\n" + prettifyFeriados(upcoming)
}

func (h *Holidays) fetchYear(ctx context.Context, year int) ([]Feriado, error) {
	url := fmt.Sprintf("%s/%d", h.baseURL, year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build holidays request: %w", err)
	}
	resp, err := h.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("holidays request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holidays api answered %d", resp.StatusCode)
	}

	var feriados []Feriado
	if err := json.NewDecoder(resp.Body).Decode(&feriados); err != nil {
		return nil, fmt.Errorf("failed to decode holidays response: %w", err)
	}
	return feriados, nil
}

func upcomingFeriados(today time.Time, feriados []Feriado) []Feriado {
	var upcoming []Feriado
	for _, f := range feriados {
		if f.Mes > int(today.Month()) || (f.Mes == int(today.Month()) && f.Dia >= today.Day()) {
			upcoming = append(upcoming, f)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		if upcoming[i].Mes != upcoming[j].Mes {
			return upcoming[i].Mes < upcoming[j].Mes
		}
		return upcoming[i].Dia < upcoming[j].Dia
	})
	return upcoming
}

func prettifyFeriados(feriados []Feriado) string {
	var b strings.Builder
	for _, f := range feriados {
		fmt.Fprintf(&b, "%d/%d | %s | %s\n", f.Dia, f.Mes, f.Motivo, f.Tipo)
	}
	return strings.TrimRight(b.String(), "\n")
}
