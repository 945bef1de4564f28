package promtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// Reply is one canned HTTP response.
type Reply struct {
	Status int
	Body   string
}

// Request is what the fake backend received.
type Request struct {
	Method string
	Form   url.Values
	Header http.Header
}

// Server is a fake query API bound to a local httptest listener.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	replies  []Reply
	requests []Request
}

// NewServer starts a fake backend that answers POST /api/v1/query_range with
// replies in order. It is closed when the test ends.
func NewServer(t testing.TB, replies ...Reply) *Server {
	t.Helper()
	if len(replies) == 0 {
		replies = []Reply{Success(`[]`)}
	}
	s := &Server{replies: replies}

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/query_range", s.handleQueryRange).Methods(http.MethodPost)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) handleQueryRange(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: r.Method, Form: r.PostForm, Header: r.Header.Clone()})
	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	_, _ = w.Write([]byte(reply.Body))
}

// Requests returns a copy of the recorded requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Success wraps a raw JSON result array in a matrix success envelope.
func Success(result string) Reply {
	return Reply{
		Status: http.StatusOK,
		Body:   fmt.Sprintf(`{"status":"success","data":{"resultType":"matrix","result":%s}}`, result),
	}
}

// Failure returns an error envelope with the given HTTP status.
func Failure(status int, errorType, msg string) Reply {
	b, _ := json.Marshal(map[string]string{"status": "error", "errorType": errorType, "error": msg})
	return Reply{Status: status, Body: string(b)}
}

// Series renders one matrix series with samples given as (unix seconds, value) pairs.
func Series(labels map[string]string, samples ...Sample) string {
	lb, _ := json.Marshal(labels)
	vals := make([]string, len(samples))
	for i, smp := range samples {
		v, _ := json.Marshal(smp.Value)
		vals[i] = fmt.Sprintf("[%d,%s]", smp.Unix, v)
	}
	return fmt.Sprintf(`{"metric":%s,"values":[%s]}`, lb, strings.Join(vals, ","))
}

// Sample is one (timestamp, value) pair as the API encodes it.
type Sample struct {
	Unix  int64
	Value string
}

// Matrix joins rendered series into a JSON array.
func Matrix(series ...string) string {
	return "[" + strings.Join(series, ",") + "]"
}
