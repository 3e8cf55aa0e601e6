package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ambro17/slacker/utils"
)

const dolarAPIDown = "No pude obtener las cotizaciones 😢"

// Rate is one bank's buy/sell quote. Values come as strings to keep the
// upstream's exact decimals out of float territory.
type Rate struct {
	Name string `json:"name"`
	Buy  string `json:"buy"`
	Sell string `json:"sell"`
}

// Dolar renders the peso/dollar board of the main banks.
type Dolar struct {
	baseURL string
	http    *http.Client
}

func NewDolar(baseURL string) *Dolar {
	return &Dolar{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Rates renders all quotes as a monospaced bank | buy | sell table.
func (d *Dolar) Rates(ctx context.Context) string {
	rates, err := d.fetchRates(ctx)
	if err != nil {
		log.Printf("⚠️ Dolar api failed: %v", err)
		return dolarAPIDown
	}
	if len(rates) == 0 {
		return dolarAPIDown
	}
	return prettifyRates(rates)
}

func (d *Dolar) fetchRates(ctx context.Context) ([]Rate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates api answered %d", resp.StatusCode)
	}

	var rates []Rate
	if err := json.NewDecoder(resp.Body).Decode(&rates); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}
	return rates, nil
}

func prettifyRates(rates []Rate) string {
	lines := make([]string, 0, len(rates))
	for _, rate := range rates {
		buy, err := decimal.NewFromString(rate.Buy)
		if err != nil {
			continue
		}
		sell, err := decimal.NewFromString(rate.Sell)
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf(
			"%-12s | $%7s | $%7s",
			utils.Trim(rate.Name, 11), buy.StringFixed(2), sell.StringFixed(2),
		))
	}
	return utils.Monospace(strings.Join(lines, "\n"))
}
