// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/rosterq/rosterq/internal/filters"
	"github.com/rosterq/rosterq/internal/log"
	"github.com/rosterq/rosterq/internal/output"
	"github.com/rosterq/rosterq/internal/store"
)

// Loader supplies the records served. It is called at start and on reset.
type Loader func(ctx context.Context) ([]map[string]interface{}, error)

// Server holds the served records and the router.
type Server struct {
	mu      sync.RWMutex
	records []map[string]interface{}
	load    Loader
	router  *httprouter.Router
}

// New loads the initial records and registers the routes:
//
//	GET  /api/employees       list, honoring filters, filter, sort and limit
//	GET  /api/employees/:id   one employee
//	POST /_reset              reload the records
func New(ctx context.Context, load Loader) (*Server, error) {
	s := &Server{load: load}
	if err := s.Reset(ctx); err != nil {
		return nil, err
	}

	s.router = httprouter.New()
	s.router.GET("/api/employees", s.list)
	s.router.GET("/api/employees/:id", s.get)
	s.router.POST("/_reset", s.reset)
	s.router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})
	s.router.PanicHandler = func(w http.ResponseWriter, r *http.Request, p interface{}) {
		log.Errorf("handler panic: %s %s: %v", r.Method, r.URL.Path, p)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal error"})
	}

	return s, nil
}

// Handler returns the routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return logRequests(s.router)
}

// Reset reloads the records.
func (s *Server) Reset(ctx context.Context) error {
	records, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("loading employees: %w", err)
	}
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	log.Debugf("serving %d employees", len(records))
	return nil
}

func (s *Server) snapshot() []map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()

	conditions := store.DecodeURL("?" + r.URL.RawQuery)
	if spec := q.Get("filter"); spec != "" {
		conditions = append(conditions, filters.BuildFilters(spec)...)
	}

	result := filters.Apply(s.snapshot(), conditions)

	if spec := q.Get("sort"); spec != "" {
		output.SortDataset(result, spec)
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid limit"})
			return
		}
		if n < len(result) {
			result = result[:n]
		}
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(len(result)))
	writeJSON(w, http.StatusOK, map[string]interface{}{"employees": result})
}

func (s *Server) get(w http.ResponseWriter, _ *http.Request, params httprouter.Params) {
	id := params.ByName("id")
	for _, e := range s.snapshot() {
		if output.InterfaceToString(e["id"]) == id {
			writeJSON(w, http.StatusOK, map[string]interface{}{"employee": e})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Employee not found"})
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := s.Reset(r.Context()); err != nil {
		log.WithError(err).Errorf("reset failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"count": len(s.snapshot())})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Debugf("writing response: %v", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Infof("%s %s %d %s", r.Method, r.URL.RequestURI(), rec.status, time.Since(start).Round(time.Microsecond))
	})
}

// Serve listens on addr until ctx is done, then shuts down gracefully. The
// bound address is reported through ready, if given.
func Serve(ctx context.Context, addr string, h http.Handler, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ready != nil {
		ready(ln.Addr())
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
