package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/guest-marketing/internal/pkg/httputil"
)

const healthVersion = "1.0.0"

// Component states.
const (
	statusUp            = "up"
	statusDown          = "down"
	statusDegraded      = "degraded"
	statusNotConfigured = "not_configured"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status  string                    `json:"status"` // healthy, degraded or unhealthy
	Version string                    `json:"version"`
	Uptime  string                    `json:"uptime"`
	Checks  map[string]ComponentCheck `json:"checks"`
}

// ComponentCheck is the result of probing one backing store.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// probe pings one dependency. A nil ping means the dependency is not
// configured and the service runs on its fallback.
type probe struct {
	name     string
	timeout  time.Duration
	slow     time.Duration
	fallback string
	critical bool
	ping     func(ctx context.Context) error
}

// HealthChecker reports on the database and Redis. Either may be nil: the
// memory store and the local sync lock stand in for them.
type HealthChecker struct {
	probes    []probe
	startTime time.Time
}

// NewHealthChecker creates a HealthChecker. Either dependency may be nil.
func NewHealthChecker(db *sql.DB, redisClient *redis.Client) *HealthChecker {
	dbProbe := probe{
		name: "database", timeout: 3 * time.Second, slow: time.Second,
		fallback: "using in-memory store", critical: true,
	}
	if db != nil {
		dbProbe.ping = db.PingContext
	}

	redisProbe := probe{
		name: "redis", timeout: 2 * time.Second, slow: 500 * time.Millisecond,
		fallback: "sync lock is process-local",
	}
	if redisClient != nil {
		redisProbe.ping = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	return &HealthChecker{
		probes:    []probe{dbProbe, redisProbe},
		startTime: time.Now(),
	}
}

// HandleHealth answers 200 with the overall verdict in the body.
//
//	GET /health
func (hc *HealthChecker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := hc.runAllChecks(r.Context())
	httputil.OK(w, HealthStatus{
		Status:  hc.overall(checks),
		Version: healthVersion,
		Uptime:  hc.uptime(),
		Checks:  checks,
	})
}

// HandleLiveness answers 200 while the process is serving.
//
//	GET /health/live
func (hc *HealthChecker) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]any{"status": "alive", "uptime": hc.uptime()})
}

// HandleReadiness answers 503 when a critical dependency is down.
//
//	GET /health/ready
func (hc *HealthChecker) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := hc.runAllChecks(r.Context())
	overall := hc.overall(checks)

	ready := overall != "unhealthy"
	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}
	httputil.JSON(w, code, map[string]any{
		"ready":  ready,
		"status": overall,
		"checks": checks,
	})
}

// runAllChecks probes every dependency in parallel.
func (hc *HealthChecker) runAllChecks(ctx context.Context) map[string]ComponentCheck {
	results := make([]ComponentCheck, len(hc.probes))
	var wg sync.WaitGroup
	for i, p := range hc.probes {
		wg.Add(1)
		go func(i int, p probe) {
			defer wg.Done()
			results[i] = p.run(ctx)
		}(i, p)
	}
	wg.Wait()

	checks := make(map[string]ComponentCheck, len(hc.probes))
	for i, p := range hc.probes {
		checks[p.name] = results[i]
	}
	return checks
}

func (p probe) run(ctx context.Context) ComponentCheck {
	if p.ping == nil {
		return ComponentCheck{Status: statusNotConfigured, Message: p.fallback}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	err := p.ping(ctx)
	latency := time.Since(start)

	switch {
	case err != nil:
		return ComponentCheck{Status: statusDown, Latency: latency.String(), Message: fmt.Sprintf("ping failed: %v", err)}
	case latency > p.slow:
		return ComponentCheck{Status: statusDegraded, Latency: latency.String(), Message: "slow response"}
	default:
		return ComponentCheck{Status: statusUp, Latency: latency.String(), Message: "connected"}
	}
}

// overall is unhealthy when a critical probe is down and degraded when any
// probe is down or slow.
func (hc *HealthChecker) overall(checks map[string]ComponentCheck) string {
	verdict := "healthy"
	for _, p := range hc.probes {
		switch checks[p.name].Status {
		case statusDown:
			if p.critical {
				return "unhealthy"
			}
			verdict = "degraded"
		case statusDegraded:
			verdict = "degraded"
		}
	}
	return verdict
}

func (hc *HealthChecker) uptime() string {
	return time.Since(hc.startTime).Round(time.Second).String()
}
