package httpserver

import (
	"context"
	"net/http"
	"time"
)

// Check probes a single dependency.
type Check func(ctx context.Context) error

// ReadyzHandler probes DB, Redis, and Tika. Any failing check makes
// the whole endpoint return 503 so the orchestrator stops routing
// traffic here.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	probe := func(ctx context.Context, name string, fn Check, out *[]check) {
		if fn == nil {
			return
		}
		if err := fn(ctx); err != nil {
			*out = append(*out, check{Name: name, OK: false, Details: err.Error()})
			return
		}
		*out = append(*out, check{Name: name, OK: true})
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 3)
		probe(ctx, "db", s.DBCheck, &checks)
		probe(ctx, "redis", s.RedisCheck, &checks)
		probe(ctx, "tika", s.TikaCheck, &checks)
		st := http.StatusOK
		for _, c := range checks {
			if !c.OK {
				st = http.StatusServiceUnavailable
				break
			}
		}
		writeJSON(w, st, map[string]interface{}{"checks": checks})
	}
}
