// Package apitest runs an in-process fake of the catalog service for tests.
// It honours the service's HTTP contract (paths, JSON shapes, {"detail"}
// errors) on top of an in-memory sqlite store.
package apitest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"productdash/internal/platform/models"
)

// DefaultProgressSteps are the values successive progress polls report for a task.
var DefaultProgressSteps = []int{0, 25, 50, 75, 100}

type Server struct {
	*httptest.Server
	Store *Store

	mu            sync.Mutex
	progressSteps []int
	tasks         map[string]*task
	requests      []string
	deliveries    *http.Client
}

type task struct {
	steps []int
	polls int
	rows  int
}

func NewServer(t testing.TB) *Server {
	t.Helper()

	db, err := OpenDB()
	if err != nil {
		t.Fatalf("open fake catalog db: %v", err)
	}

	s := &Server{
		Store:         NewStore(db),
		progressSteps: DefaultProgressSteps,
		tasks:         make(map[string]*task),
		deliveries:    &http.Client{Timeout: 5 * time.Second},
	}
	s.Server = httptest.NewServer(s.routes())

	t.Cleanup(func() {
		s.Close()
		db.Close()
	})
	return s
}

// SetProgressSteps changes the script for tasks created afterwards.
func (s *Server) SetProgressSteps(steps ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progressSteps = steps
}

// Requests returns "METHOD /path?query" for every request served so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) routes() http.Handler {
	router := httprouter.New()

	router.GET("/products", s.listProducts)
	router.POST("/products", s.createProduct)
	router.POST("/products/delete_all", s.deleteAllProducts)
	router.GET("/products/:id", s.getProduct)
	router.PUT("/products/:id", s.updateProduct)
	router.DELETE("/products/:id", s.deleteProduct)

	router.GET("/webhooks", s.listWebhooks)
	router.POST("/webhooks", s.createWebhook)
	router.PUT("/webhooks/:id", s.updateWebhook)
	router.DELETE("/webhooks/:id", s.deleteWebhook)
	router.POST("/webhooks/:id/test", s.testWebhook)

	router.POST("/upload", s.upload)
	router.GET("/progress/:task_id", s.progress)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.RequestURI())
		s.mu.Unlock()
		router.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	var items []map[string]interface{}
	for field, msg := range fields {
		items = append(items, map[string]interface{}{
			"loc":  []string{"body", field},
			"msg":  msg,
			"type": "value_error",
		})
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"detail": items})
}

func pathID(ps httprouter.Params) (int64, bool) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	return id, err == nil
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	f := ProductFilter{SKU: q.Get("sku"), Name: q.Get("name")}
	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			writeFieldErrors(w, map[string]string{"active": "value could not be parsed to a boolean"})
			return
		}
		f.Active = &active
	}

	products, err := s.Store.ListProducts(skip, limit, f)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := pathID(ps)
	if !ok {
		writeFieldErrors(w, map[string]string{"pid": "value is not a valid integer"})
		return
	}
	p, err := s.Store.GetProduct(id)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if p == nil {
		writeDetail(w, http.StatusNotFound, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(in.SKU) == "" {
		writeFieldErrors(w, map[string]string{"sku": "field required"})
		return
	}

	p, err := s.Store.CreateProduct(in)
	if errors.Is(err, ErrDuplicateSKU) {
		writeDetail(w, http.StatusConflict, "SKU already exists")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := pathID(ps)
	if !ok {
		writeFieldErrors(w, map[string]string{"pid": "value is not a valid integer"})
		return
	}
	var upd models.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := s.Store.UpdateProduct(id, upd)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if p == nil {
		writeDetail(w, http.StatusNotFound, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, _ := pathID(ps)
	ok, err := s.Store.DeleteProduct(id)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) deleteAllProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := s.Store.DeleteAllProducts(); err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listWebhooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	hooks, err := s.Store.ListWebhooks()
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, hooks)
}

func decodeWebhook(w http.ResponseWriter, r *http.Request) (models.WebhookInput, bool) {
	var in models.WebhookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return in, false
	}
	if !strings.HasPrefix(in.URL, "http://") && !strings.HasPrefix(in.URL, "https://") {
		writeFieldErrors(w, map[string]string{"url": "invalid or missing URL scheme"})
		return in, false
	}
	return in, true
}

func (s *Server) createWebhook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	in, ok := decodeWebhook(w, r)
	if !ok {
		return
	}
	hook, err := s.Store.CreateWebhook(in)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, hook)
}

func (s *Server) updateWebhook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, _ := pathID(ps)
	in, ok := decodeWebhook(w, r)
	if !ok {
		return
	}
	hook, err := s.Store.UpdateWebhook(id, in)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if hook == nil {
		writeDetail(w, http.StatusNotFound, "Webhook not found")
		return
	}
	writeJSON(w, http.StatusOK, hook)
}

func (s *Server) deleteWebhook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, _ := pathID(ps)
	ok, err := s.Store.DeleteWebhook(id)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeDetail(w, http.StatusNotFound, "Webhook not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// testWebhook delivers {"test": true, "event": ...} to the webhook URL and
// reports the remote status code, or the delivery error.
func (s *Server) testWebhook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, _ := pathID(ps)
	hook, err := s.Store.GetWebhook(id)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if hook == nil {
		writeDetail(w, http.StatusNotFound, "Webhook not found")
		return
	}

	payload, _ := json.Marshal(map[string]interface{}{"test": true, "event": hook.Event})
	start := time.Now()
	resp, err := s.deliveries.Post(hook.URL, "application/json", bytes.NewReader(payload))
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"error": err.Error(), "status": "failed"})
		return
	}
	resp.Body.Close()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status_code": resp.StatusCode,
		"response_ms": float64(time.Since(start).Microseconds()) / 1000,
	})
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeFieldErrors(w, map[string]string{"file": "field required"})
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		writeDetail(w, http.StatusBadRequest, "Only CSV files allowed")
		return
	}

	rows, err := readProducts(file)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Store.UpsertProducts(rows); err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	id := uuid.New().String()
	s.mu.Lock()
	s.tasks[id] = &task{steps: append([]int(nil), s.progressSteps...), rows: len(rows)}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.ImportTask{TaskID: id, Status: "started"})
}

func (s *Server) progress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.mu.Lock()
	t, ok := s.tasks[ps.ByName("task_id")]
	var p models.Progress
	switch {
	case !ok:
		p = models.Progress{Progress: 0, Status: "not found"}
	case len(t.steps) == 0:
		p = models.Progress{Progress: 100, Status: "Completed"}
	default:
		i := t.polls
		if i >= len(t.steps) {
			i = len(t.steps) - 1
		}
		t.polls++
		p = models.Progress{Progress: t.steps[i]}
		if p.Progress >= 100 {
			p.Status = "Completed"
		} else {
			p.Status = "Processed " + strconv.Itoa(t.rows*p.Progress/100) + "/" + strconv.Itoa(t.rows)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, p)
}

// readProducts accepts a header row with sku (or SKU), name and description
// columns; rows without a SKU are skipped.
func readProducts(r io.Reader) ([]models.ProductInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	get := func(rec []string, name string) string {
		if i, ok := col[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	var out []models.ProductInput
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		sku := get(rec, "sku")
		if sku == "" {
			continue
		}
		out = append(out, models.ProductInput{
			SKU:         sku,
			Name:        get(rec, "name"),
			Description: get(rec, "description"),
			Active:      true,
		})
	}
}
