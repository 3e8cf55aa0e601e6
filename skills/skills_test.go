package skills

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHolidaysRendersNextAndRemaining(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2026", r.URL.Path)
		w.Write([]byte(`[
			{"motivo": "Año Nuevo", "tipo": "inamovible", "dia": 1, "mes": 1},
			{"motivo": "Día de la Independencia", "tipo": "inamovible", "dia": 9, "mes": 7},
			{"motivo": "Navidad", "tipo": "inamovible", "dia": 25, "mes": 12}
		]`))
	}))
	defer server.Close()

	holidays := NewHolidays(server.URL)
	holidays.now = func() time.Time { return time.Date(2026, time.June, 15, 12, 0, 0, 0, argentinaTZ) }

	msg := holidays.Remaining(context.Background())

	assert.Contains(t, msg, "El próximo feriado es el 9/7 por *Día de la Independencia*")
	assert.Contains(t, msg, "25/12 | Navidad | inamovible")
	assert.NotContains(t, msg, "Año Nuevo")
}

func TestHolidaysNoneLeftThisYear(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"motivo": "Año Nuevo", "tipo": "inamovible", "dia": 1, "mes": 1}]`))
	}))
	defer server.Close()

	holidays := NewHolidays(server.URL)
	holidays.now = func() time.Time { return time.Date(2026, time.December, 28, 12, 0, 0, 0, argentinaTZ) }

	assert.Equal(t, "No hay más feriados este año", holidays.Remaining(context.Background()))
}

func TestHolidaysAPIDownFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	holidays := NewHolidays(server.URL)
	assert.Equal(t, feriadosAPIDown, holidays.Remaining(context.Background()))
}

func TestSubteAllNormalWhenNoAlerts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "caba-id", r.URL.Query().Get("client_id"))
		assert.Equal(t, "caba-secret", r.URL.Query().Get("client_secret"))
		w.Write([]byte(`{"entity": []}`))
	}))
	defer server.Close()

	subte := NewSubte(server.URL, "caba-id", "caba-secret")
	assert.Equal(t, subteAllNormal, subte.Status(context.Background()))
}

func TestSubteRendersIncidentsPerLine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"entity": [
			{"alert": {
				"informed_entity": [{"route_id": "LineaB"}],
				"header_text": {"translation": [
					{"language": "en", "text": "Delayed"},
					{"language": "es", "text": "Demoras en toda la línea"}
				]}
			}},
			{"alert": {
				"informed_entity": [{"route_id": "PM-Premetro"}],
				"header_text": {"translation": [{"language": "es", "text": "Servicio limitado"}]}
			}}
		]}`))
	}))
	defer server.Close()

	subte := NewSubte(server.URL, "id", "secret")
	msg := subte.Status(context.Background())

	assert.Contains(t, msg, "B | ")
	assert.Contains(t, msg, "Demoras en toda la línea")
	assert.Contains(t, msg, "PM Premetro | ")
	assert.NotContains(t, msg, "Delayed")
}

func TestSubteInternalErrorOnBadResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	subte := NewSubte(server.URL, "id", "secret")
	assert.Equal(t, "Internal error", subte.Status(context.Background()))
}

const weekMenuJSON = `[
	{"day": 0, "options": {"vegetariano": ["Tarta de acelga"], "especiales": ["Milanesa napolitana"]}},
	{"day": 2, "options": {"vegetariano": ["Wok de verduras"]}}
]`

func TestHoypidoByDay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(weekMenuJSON))
	}))
	defer server.Close()

	hoypido := NewHoypido(server.URL)

	msg := hoypido.ByDay(context.Background(), "l")
	assert.Contains(t, msg, "*» Lunes:*")
	assert.Contains(t, msg, "> Tarta de acelga")

	msg = hoypido.ByDay(context.Background(), "x")
	assert.Contains(t, msg, "*» Miércoles:*")
	assert.Contains(t, msg, "> Wok de verduras")
}

func TestHoypidoUnknownDayGetsUsageHint(t *testing.T) {
	hoypido := NewHoypido("http://unused.invalid")
	assert.Equal(t, hoypidoUnknownDay, hoypido.ByDay(context.Background(), "domingo"))
}

func TestHoypidoSpecialsSkipsDaysWithoutSpecials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(weekMenuJSON))
	}))
	defer server.Close()

	hoypido := NewHoypido(server.URL)
	msg := hoypido.Specials(context.Background())

	assert.Contains(t, msg, ":carrot: *Especiales de la semana* :carrot:")
	assert.Contains(t, msg, "> Milanesa napolitana")
	assert.NotContains(t, msg, "Miércoles")
}

func TestDolarRendersMonospacedBoard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"name": "Nación", "buy": "980.5", "sell": "1020"},
			{"name": "Hipotecario Nacional", "buy": "975", "sell": "1015.25"}
		]`))
	}))
	defer server.Close()

	dolar := NewDolar(server.URL)
	msg := dolar.Rates(context.Background())

	assert.Contains(t, msg, "```")
	assert.Contains(t, msg, "$ 980.50")
	assert.Contains(t, msg, "$1020.00")
	// Long bank names are trimmed to keep the table aligned.
	assert.Contains(t, msg, "Hipotecario.")
}

func TestDolarAPIDownFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	dolar := NewDolar(server.URL)
	assert.Equal(t, dolarAPIDown, dolar.Rates(context.Background()))
}
