package rooms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Ambro17/slacker/core"
)

const defaultFreeBusyURL = "https://www.googleapis.com/calendar/v3/freeBusy"

// argentinaTZ is UTC-3, without daylight saving.
var argentinaTZ = time.FixedZone("ART", -3*60*60)

// Calendar runs the user-consent OAuth flow and answers free/busy queries
// against the office room calendars. The token lives in memory: a restart
// requires re-authorizing, which the commands explain to the user.
type Calendar struct {
	config      *oauth2.Config
	freeBusyURL string
	now         func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

func NewCalendar(clientID, clientSecret string) *Calendar {
	return &Calendar{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
			Scopes:       []string{"https://www.googleapis.com/auth/calendar"},
		},
		freeBusyURL: defaultFreeBusyURL,
		now:         time.Now,
	}
}

// AuthorizationURL is the first step of the consent flow: the user visits
// it, approves, and comes back with an auth code for SetToken.
func (c *Calendar) AuthorizationURL() string {
	return c.config.AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// SetToken exchanges the auth code for an API token.
func (c *Calendar) SetToken(ctx context.Context, code string) error {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

func (c *Calendar) client(ctx context.Context) (*http.Client, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token == nil {
		return nil, core.NewDomainError(core.KindNotAuthorized, "You must first authorize the app")
	}
	client := c.config.Client(ctx, token)
	client.Timeout = 10 * time.Second
	return client, nil
}

type freeBusyRequest struct {
	TimeMin  string            `json:"timeMin"`
	TimeMax  string            `json:"timeMax"`
	TimeZone string            `json:"timeZone"`
	Items    []freeBusyItem    `json:"items"`
}

type freeBusyItem struct {
	ID string `json:"id"`
}

type freeBusyResponse struct {
	Calendars map[string]struct {
		Busy []struct {
			Start time.Time `json:"start"`
			End   time.Time `json:"end"`
		} `json:"busy"`
	} `json:"calendars"`
}

// FreeRooms lists the rooms free right now, until the end of the day.
// Args support `--all` (include currently busy rooms) and `--floor=N`.
func (c *Calendar) FreeRooms(ctx context.Context, args []string) (string, error) {
	includeBusy := false
	floorFilter := -1
	for _, arg := range args {
		switch {
		case arg == "--all":
			includeBusy = true
		case strings.HasPrefix(arg, "--floor="):
			floor, err := strconv.Atoi(strings.TrimPrefix(arg, "--floor="))
			if err != nil {
				return "", core.NewDomainError(core.KindBadUsage, "Usage: /find_free_rooms [--all] [--floor=N]")
			}
			floorFilter = floor
		default:
			return "", core.NewDomainError(core.KindBadUsage, "Usage: /find_free_rooms [--all] [--floor=N]")
		}
	}

	client, err := c.client(ctx)
	if err != nil {
		return "", err
	}

	now := c.now().In(argentinaTZ)
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, argentinaTZ)
	busy, err := c.queryFreeBusy(ctx, client, now, endOfDay)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, room := range AllRooms() {
		if floorFilter >= 0 && room.Floor != floorFilter {
			continue
		}
		if busy[room.CalendarID] && !includeBusy {
			continue
		}
		line := room.String()
		if busy[room.CalendarID] {
			line += " (busy now)"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// queryFreeBusy returns which rooms are busy at the start of the window.
func (c *Calendar) queryFreeBusy(ctx context.Context, client *http.Client, start, end time.Time) (map[string]bool, error) {
	items := make([]freeBusyItem, 0, len(AllRooms()))
	for _, room := range AllRooms() {
		items = append(items, freeBusyItem{ID: room.CalendarID})
	}
	body, err := json.Marshal(freeBusyRequest{
		TimeMin:  start.Format(time.RFC3339),
		TimeMax:  end.Format(time.RFC3339),
		TimeZone: "America/Argentina/Buenos_Aires",
		Items:    items,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode freebusy request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.freeBusyURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build freebusy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("freebusy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("freebusy api answered %d", resp.StatusCode)
	}

	var parsed freeBusyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode freebusy response: %w", err)
	}

	busyNow := make(map[string]bool)
	for calendarID, calendar := range parsed.Calendars {
		for _, slot := range calendar.Busy {
			if !slot.Start.After(start) && slot.End.After(start) {
				busyNow[calendarID] = true
				break
			}
		}
	}
	return busyNow, nil
}
