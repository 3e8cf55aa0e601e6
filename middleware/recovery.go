package middleware

import (
	"context"
	"crypto/md5"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Ambro17/slacker/notify"
)

// RecoveryMiddleware catches panics in webhook handlers. Slack retries any
// non-200 response, so a crashed handler still answers 200 with an apology
// while the admin gets the real error. Repeated identical panics are
// deduplicated with a cooldown to avoid paging storms.
type RecoveryMiddleware struct {
	admin         notify.AdminNotifier
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.Mutex
	alertCooldown time.Duration
}

func NewRecoveryMiddleware(admin notify.AdminNotifier) *RecoveryMiddleware {
	return &RecoveryMiddleware{
		admin:         admin,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute,
	}
}

// HTTPMiddleware wraps the webhook routes with panic recovery.
func (m *RecoveryMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				detail := fmt.Sprintf("PANIC on %s %s: %v", r.Method, r.URL.Path, rec)
				log.Printf("❌ %s", detail)
				m.alertOnce(detail)

				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("Something went wrong, try again later 🍀"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (m *RecoveryMiddleware) alertOnce(detail string) {
	hash := fmt.Sprintf("%x", md5.Sum([]byte(detail)))

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if lastAlert, exists := m.alertedErrors[hash]; exists {
		if time.Since(lastAlert) < m.alertCooldown {
			return
		}
	}
	m.alertedErrors[hash] = time.Now()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.admin.NotifyError(ctx, detail); err != nil {
			log.Printf("⚠️ Failed to notify admin about panic: %v", err)
		}
	}()
}
