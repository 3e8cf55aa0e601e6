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

const (
	hoypidoAPIDown    = "🍽️ El menú no está disponible ahora, probá más tarde"
	hoypidoUnknownDay = "No entiendo ese día.\nLas opciones son `L`, `M`, `X`, `J` y `V`"
)

var dayCodes = map[string]int{
	"L": 0, "M": 1, "X": 2, "J": 3, "V": 4,
}

var dayNames = map[int]string{
	0: "Lunes", 1: "Martes", 2: "Miércoles", 3: "Jueves", 4: "Viernes",
}

// DayMenu is one weekday's offer as the menu API returns it: food options
// grouped by category, "especiales" among them.
type DayMenu struct {
	Day     int                 `json:"day"`
	Options map[string][]string `json:"options"`
}

// Hoypido fetches the office cafeteria's weekly menu.
type Hoypido struct {
	baseURL string
	http    *http.Client
}

func NewHoypido(baseURL string) *Hoypido {
	return &Hoypido{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Weekly renders the food options of every weekday.
func (h *Hoypido) Weekly(ctx context.Context) string {
	menus, err := h.fetchWeek(ctx)
	if err != nil {
		log.Printf("⚠️ Hoypido api failed: %v", err)
		return hoypidoAPIDown
	}
	return prettifyMenus(menus)
}

// ByDay renders one weekday's options. Day is a single-letter code, L
// through V; anything else gets a usage hint.
func (h *Hoypido) ByDay(ctx context.Context, day string) string {
	dayNum, ok := dayCodes[strings.ToUpper(strings.TrimSpace(day))]
	if !ok {
		return hoypidoUnknownDay
	}

	menus, err := h.fetchWeek(ctx)
	if err != nil {
		log.Printf("⚠️ Hoypido api failed: %v", err)
		return hoypidoAPIDown
	}

	for _, menu := range menus {
		if menu.Day == dayNum {
			return prettifyMenus([]DayMenu{menu})
		}
	}
	return fmt.Sprintf("No hay menú para el %s", dayNames[dayNum])
}

// Specials renders only the "especiales" category, for the whole week.
func (h *Hoypido) Specials(ctx context.Context) string {
	menus, err := h.fetchWeek(ctx)
	if err != nil {
		log.Printf("⚠️ Hoypido api failed: %v", err)
		return hoypidoAPIDown
	}

	var b strings.Builder
	b.WriteString(":carrot: *Especiales de la semana* :carrot:\n")
	for _, menu := range sortedByDay(menus) {
		specials := menu.Options["especiales"]
		if len(specials) == 0 {
			continue
		}
		fmt.Fprintf(&b, "*» %s:*\n", dayNames[menu.Day])
		for _, food := range specials {
			fmt.Fprintf(&b, "> %s\n", food)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (h *Hoypido) fetchWeek(ctx context.Context) ([]DayMenu, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build menu request: %w", err)
	}
	resp, err := h.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("menu request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("menu api answered %d", resp.StatusCode)
	}

	var menus []DayMenu
	if err := json.NewDecoder(resp.Body).Decode(&menus); err != nil {
		return nil, fmt.Errorf("failed to decode menu response: %w", err)
	}
	return menus, nil
}

func sortedByDay(menus []DayMenu) []DayMenu {
	sorted := make([]DayMenu, len(menus))
	copy(sorted, menus)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Day < sorted[j].Day })
	return sorted
}

func prettifyMenus(menus []DayMenu) string {
	var b strings.Builder
	for _, menu := range sortedByDay(menus) {
		fmt.Fprintf(&b, "*» %s:*\n", dayNames[menu.Day])

		categories := make([]string, 0, len(menu.Options))
		for category := range menu.Options {
			categories = append(categories, category)
		}
		sort.Strings(categories)

		for _, category := range categories {
			for _, food := range menu.Options[category] {
				fmt.Fprintf(&b, "> %s\n", food)
			}
		}
	}
	if b.Len() == 0 {
		return "No hay menú esta semana"
	}
	return strings.TrimRight(b.String(), "\n")
}
