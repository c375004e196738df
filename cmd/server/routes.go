package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/homequote/internal/apperr"
	"github.com/Simplici0/homequote/internal/pricing"
	"github.com/Simplici0/homequote/internal/quote"
)

const maxBodyBytes = 1 << 20

type server struct {
	svc    *quote.Service
	apiKey string
	log    *zap.Logger
}

func newServer(svc *quote.Service, apiKey string, log *zap.Logger) *server {
	if log == nil {
		log = zap.NewNop()
	}
	return &server{svc: svc, apiKey: apiKey, log: log}
}

func (s *server) routes(timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/catalog", s.handleCatalog)
		r.Post("/quotes/price", s.handlePrice)
		r.Route("/estimates", func(r chi.Router) {
			r.Get("/", s.handleEstimatesList)
			r.Get("/{key}", s.handleEstimateGet)
			r.Get("/{key}/text", s.handleEstimateText)
			r.Put("/{key}", s.handleEstimateSave)
			r.Post("/{key}/recompute", s.handleEstimateRecompute)
			r.Delete("/{key}", s.handleEstimateDelete)
		})
	})

	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type componentView struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type lineItemView struct {
	Kind       string          `json:"kind"`
	Name       string          `json:"name"`
	Price      string          `json:"price"`
	Components []componentView `json:"components,omitempty"`
}

type pricedView struct {
	CatalogVersion string         `json:"catalog_version"`
	LineItems      []lineItemView `json:"line_items"`
	Total          string         `json:"total"`
}

type quoteView struct {
	ID         string         `json:"id"`
	Key        string         `json:"key"`
	Customer   quote.Customer `json:"customer"`
	Inputs     quote.Inputs   `json:"inputs"`
	ComputedAt time.Time      `json:"computed_at"`
	pricedView
}

type summaryView struct {
	Key       string `json:"key"`
	Timestamp string `json:"timestamp"`
	Total     string `json:"total"`
}

func newPricedView(version string, items []pricing.LineItem, total string) pricedView {
	out := pricedView{CatalogVersion: version, LineItems: make([]lineItemView, 0, len(items)), Total: total}
	for _, item := range items {
		v := lineItemView{Kind: item.Kind, Name: item.Name, Price: item.Price.StringFixed(2)}
		for _, c := range item.Components {
			v.Components = append(v.Components, componentView{Name: c.Name, Price: c.Price.StringFixed(2)})
		}
		out.LineItems = append(out.LineItems, v)
	}
	return out
}

func newQuoteView(q quote.Quote) quoteView {
	return quoteView{
		ID:         q.ID.String(),
		Key:        q.Key,
		Customer:   q.Customer,
		Inputs:     q.Inputs,
		ComputedAt: q.ComputedAt,
		pricedView: newPricedView(q.CatalogVersion, q.LineItems, q.Total.StringFixed(2)),
	}
}

type priceRequest struct {
	Inputs quote.Inputs `json:"inputs"`
}

type saveRequest struct {
	Customer quote.Customer `json:"customer"`
	Inputs   quote.Inputs   `json:"inputs"`
}

type recomputeRequest struct {
	Inputs *quote.Inputs `json:"inputs"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Engine().Catalog())
}

func (s *server) handlePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	items, total, err := s.svc.Engine().Price(req.Inputs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPricedView(s.svc.Engine().Catalog().Version, items, total.StringFixed(2)))
}

func (s *server) handleEstimatesList(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	summaries, err := s.svc.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]summaryView, 0, len(summaries))
	for _, sum := range summaries {
		if query != "" && !strings.Contains(strings.ToLower(sum.Key), query) {
			continue
		}
		out = append(out, summaryView{Key: sum.Key, Timestamp: sum.Timestamp, Total: sum.Total.StringFixed(2)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleEstimateGet(w http.ResponseWriter, r *http.Request) {
	q, err := s.svc.Load(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuoteView(q))
}

func (s *server) handleEstimateText(w http.ResponseWriter, r *http.Request) {
	q, err := s.svc.Load(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := quote.WriteText(&buf, q); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *server) handleEstimateSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	q, err := s.svc.Save(r.Context(), chi.URLParam(r, "key"), req.Customer, req.Inputs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuoteView(q))
}

func (s *server) handleEstimateRecompute(w http.ResponseWriter, r *http.Request) {
	var req recomputeRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}

	q, err := s.svc.Recompute(r.Context(), chi.URLParam(r, "key"), req.Inputs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuoteView(q))
}

func (s *server) handleEstimateDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var errBadRequest = errors.New("malformed request body")

// decodeBody reads one JSON document into dst, rejecting unknown fields. An
// empty body is accepted only when optional is set.
func decodeBody(r *http.Request, dst any, optional bool) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if optional {
			return nil
		}
		return fmt.Errorf("%w: body is required", errBadRequest)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case apperr.IsCorrupt(err):
		return http.StatusInternalServerError
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case apperr.IsValidation(err), apperr.IsUnsupportedAddon(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case apperr.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		resp.Field = ve.Field
	}

	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		resp.Field = ""
		if !apperr.IsConfig(err) {
			resp.Error = "internal error"
		}
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
