// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/carterperez-dev/bookit/internal/core"
)

// Handler exposes operational statistics for admins: store health,
// connection pools, collection sizes and Go runtime figures.
type Handler struct {
	db         *core.Database
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
}

type HandlerConfig struct {
	DB         *core.Database
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		db:         cfg.DB,
		redisStats: cfg.RedisStats,
		redisPing:  cfg.RedisPing,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	redisHealthy := true
	if h.redisPing != nil {
		if err := h.redisPing(ctx); err != nil {
			redisHealthy = false
		}
	}

	response := SystemStatsResponse{
		Mongo: h.getMongoStats(ctx),
		Redis: RedisStatus{
			Healthy: redisHealthy,
			Stats:   h.getRedisStats(),
		},
		Runtime: collectRuntimeStats(),
	}

	core.OK(w, response)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getMongoStats(r.Context()))
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getRedisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, collectRuntimeStats())
}

func (h *Handler) getMongoStats(ctx context.Context) MongoStatus {
	status := MongoStatus{Healthy: true}

	if h.db == nil {
		status.Healthy = false
		return status
	}

	if err := h.db.Ping(ctx); err != nil {
		status.Healthy = false
	}
	status.SessionsInProgress = h.db.Client.NumberSessionsInProgress()
	status.Collections = h.countCollections(ctx)

	return status
}

// countCollections reports document counts for the main collections.
// A failed count shows up as -1 rather than failing the whole report.
func (h *Handler) countCollections(ctx context.Context) map[string]int64 {
	counts := make(map[string]int64, 3)
	for _, name := range []string{
		core.CollectionUsers,
		core.CollectionTours,
		core.CollectionReviews,
	} {
		n, err := h.db.Collection(name).CountDocuments(ctx, bson.M{})
		if err != nil {
			n = -1
		}
		counts[name] = n
	}
	return counts
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

func collectRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

type SystemStatsResponse struct {
	Mongo   MongoStatus  `json:"mongo"`
	Redis   RedisStatus  `json:"redis"`
	Runtime RuntimeStats `json:"runtime"`
}

type MongoStatus struct {
	Healthy            bool             `json:"healthy"`
	SessionsInProgress int              `json:"sessions_in_progress"`
	Collections        map[string]int64 `json:"collections,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
