package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics methods are safe on a nil receiver so services can run without them.
type Metrics struct {
	registry *prometheus.Registry

	Requests       *prometheus.CounterVec
	Registrations  prometheus.Counter
	Follows        prometheus.Counter
	Unfollows      prometheus.Counter
	RecipesCreated prometheus.Counter
	Favorites      *prometheus.CounterVec
	ShoppingCart   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foodgram_http_requests_total",
				Help: "Total number of HTTP requests by method and status class",
			},
			[]string{"method", "status"},
		),
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodgram_registrations_total",
			Help: "Total number of registered users",
		}),
		Follows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodgram_follows_total",
			Help: "Total number of successful subscribe requests",
		}),
		Unfollows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodgram_unfollows_total",
			Help: "Total number of successful unsubscribe requests",
		}),
		RecipesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodgram_recipes_created_total",
			Help: "Total number of created recipes",
		}),
		Favorites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foodgram_favorites_total",
				Help: "Favorite toggles by action",
			},
			[]string{"action"},
		),
		ShoppingCart: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foodgram_shopping_cart_total",
				Help: "Shopping cart toggles by action",
			},
			[]string{"action"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests,
		m.Registrations,
		m.Follows,
		m.Unfollows,
		m.RecipesCreated,
		m.Favorites,
		m.ShoppingCart,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method string, status int) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, strconv.Itoa(status/100)+"xx").Inc()
}

func (m *Metrics) IncRegistration() {
	if m == nil {
		return
	}
	m.Registrations.Inc()
}

func (m *Metrics) IncFollow() {
	if m == nil {
		return
	}
	m.Follows.Inc()
}

func (m *Metrics) IncUnfollow() {
	if m == nil {
		return
	}
	m.Unfollows.Inc()
}

func (m *Metrics) IncRecipeCreated() {
	if m == nil {
		return
	}
	m.RecipesCreated.Inc()
}

func (m *Metrics) IncFavorite(action string) {
	if m == nil {
		return
	}
	m.Favorites.WithLabelValues(action).Inc()
}

func (m *Metrics) IncShoppingCart(action string) {
	if m == nil {
		return
	}
	m.ShoppingCart.WithLabelValues(action).Inc()
}
