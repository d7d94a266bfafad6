package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jeswanthsaravanan/smartcampus/chat"
)

type metrics struct {
	chatMessages  *prometheus.CounterVec
	chatSessions  prometheus.Gauge
	loginAttempts *prometheus.CounterVec
	storeFailures prometheus.Counter
}

var collectors *metrics

// newMetrics registers the portal collectors once; later servers (e.g.
// in tests) share the same set.
func newMetrics() *metrics {
	if collectors != nil {
		return collectors
	}
	collectors = &metrics{
		chatMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_chat_messages_total",
			Help: "Chat messages processed, by module and classified intent.",
		}, []string{"module", "intent"}),
		chatSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "portal_chat_sessions_active",
			Help: "Chat sessions currently held by the registry.",
		}),
		loginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_login_attempts_total",
			Help: "Login attempts, by outcome.",
		}, []string{"outcome"}),
		storeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "portal_chat_store_failures_total",
			Help: "Chat turns that ended in a store failure reply.",
		}),
	}
	return collectors
}

func (m *metrics) observeMessage(module chat.Module, intent string) {
	m.chatMessages.WithLabelValues(string(module), intent).Inc()
}
