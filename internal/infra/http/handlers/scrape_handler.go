package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

type ScrapeHandler struct {
	producer    queue.QueueProducerInterface
	rateLimiter *RateLimiter
}

func NewScrapeHandler(producer queue.QueueProducerInterface) *ScrapeHandler {
	return &ScrapeHandler{
		producer:    producer,
		rateLimiter: NewRateLimiter(5, time.Minute), // scrape é caro, 5 req/min por IP
	}
}

type ScrapeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Handle enfileira um job de captação. O run acontece no worker, fora do
// ciclo da requisição.
func (h *ScrapeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, ScrapeResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var payload queue.ScrapeJobPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, ScrapeResponse{Success: false, Message: "Invalid JSON"})
		return
	}

	if payload.Query == "" || len(payload.Zones) == 0 {
		writeJSON(w, http.StatusBadRequest, ScrapeResponse{Success: false, Message: "query and zones are required"})
		return
	}

	if err := h.producer.PublishScrapeJob(ctx, payload); err != nil {
		writeJSON(w, http.StatusInternalServerError, ScrapeResponse{Success: false, Message: "Failed to enqueue scrape job"})
		return
	}

	writeJSON(w, http.StatusAccepted, ScrapeResponse{Success: true, Message: "Scrape job enqueued"})
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
