package service

import (
	"errors"
	"strings"
	"sync"
	"time"
)

var ErrConsultRateLimited = errors.New("consult rate limited")

// ConsultRateLimiter limita la frecuencia de consultas al LLM por clave (IP del cliente).
type ConsultRateLimiter interface {
	Allow(key string) bool
}

type consultRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
	now    func() time.Time
}

// NewConsultRateLimiter crea un rate limiter en memoria con ventana deslizante.
func NewConsultRateLimiter(window time.Duration, max int) ConsultRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &consultRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *consultRateLimiter) Allow(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	cutoff := now.Add(-l.window)
	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}

// Sweep borra las claves sin hits dentro de la ventana.
func (l *consultRateLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.window)
	removed := 0
	for key, entries := range l.hits {
		if len(entries) == 0 || !entries[len(entries)-1].After(cutoff) {
			delete(l.hits, key)
			removed++
		}
	}
	return removed
}

// Sweeper lo implementan los componentes que guardan estado vencible en el proceso.
type Sweeper interface {
	Sweep() int
}
