package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
)

const subteAllNormal = ":check: Los subtes funcionan normalmente"

var lineaPattern = regexp.MustCompile(`Linea([A-Z])`)

var delayIcons = []string{
	":construction:", ":traffic_light:", ":warning:",
	":train2:", ":bullettrain_front:", ":metro:",
}

// Subte reports service incidents of the Buenos Aires subway lines from
// the city's transit alerts API.
type Subte struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client
}

func NewSubte(baseURL, clientID, clientSecret string) *Subte {
	return &Subte{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         &http.Client{Timeout: 5 * time.Second},
	}
}

type subteAlerts struct {
	Entity []struct {
		Alert struct {
			InformedEntity []informedEntity `json:"informed_entity"`
			HeaderText     struct {
				Translation []translation `json:"translation"`
			} `json:"header_text"`
		} `json:"alert"`
	} `json:"entity"`
}

type informedEntity struct {
	RouteID string `json:"route_id"`
}

type translation struct {
	Language string `json:"language"`
	Text     string `json:"text"`
}

// Status renders the current incidents per line, one line each, or an
// all-normal message when the alert feed is empty.
func (s *Subte) Status(ctx context.Context) string {
	incidents, err := s.fetchIncidents(ctx)
	if err != nil {
		log.Printf("⚠️ Subte api failed: %v", err)
		return "Internal error"
	}
	if len(incidents) == 0 {
		return subteAllNormal
	}
	return prettifyIncidents(incidents)
}

// fetchIncidents returns a map of line name to incident description.
func (s *Subte) fetchIncidents(ctx context.Context) (map[string]string, error) {
	query := url.Values{
		"client_id":     {s.clientID},
		"client_secret": {s.clientSecret},
		"json":          {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build subte request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subte request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("subte api answered %d", resp.StatusCode)
	}

	var alerts subteAlerts
	if err := json.NewDecoder(resp.Body).Decode(&alerts); err != nil {
		return nil, fmt.Errorf("failed to decode subte response: %w", err)
	}

	incidents := make(map[string]string)
	for _, entity := range alerts.Entity {
		linea := lineaName(entity.Alert.InformedEntity)
		if linea == "" {
			continue
		}
		text := spanishText(entity.Alert.HeaderText.Translation)
		if text == "" {
			continue
		}
		incidents[linea] = text
	}
	return incidents, nil
}

func lineaName(informed []informedEntity) string {
	if len(informed) == 0 {
		return ""
	}
	routeID := informed[0].RouteID
	if m := lineaPattern.FindStringSubmatch(routeID); m != nil {
		return m[1]
	}
	// Premetro and linea Urquiza have no Linea<X> route id.
	return strings.Replace(routeID, "PM-", "PM ", 1)
}

func spanishText(translations []translation) string {
	for _, t := range translations {
		if t.Language == "es" {
			return t.Text
		}
	}
	return ""
}

func prettifyIncidents(incidents map[string]string) string {
	lineas := make([]string, 0, len(incidents))
	for linea := range incidents {
		lineas = append(lineas, linea)
	}
	sort.Strings(lineas)

	lines := make([]string, 0, len(lineas))
	for i, linea := range lineas {
		icon := delayIcons[i%len(delayIcons)]
		lines = append(lines, fmt.Sprintf("%s | %s %s", linea, icon, strings.TrimSpace(incidents[linea])))
	}
	return strings.Join(lines, "\n")
}
