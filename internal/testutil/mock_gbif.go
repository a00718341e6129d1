// Package testutil provides testing utilities for the GBIF records module.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
)

// SearchPath is the occurrence search endpoint the mock serves.
const SearchPath = "/v1/occurrence/search"

// MockGBIF is a configurable mock GBIF occurrence API for testing. It slices
// a configured record set into pages according to the offset and limit query
// parameters, exactly as the real search endpoint paginates.
type MockGBIF struct {
	server *httptest.Server
	mu     sync.RWMutex

	// records keyed by the "year" query parameter ("start,end"); the empty
	// key is the fallback set served for any interval.
	records map[string][]map[string]any

	forcedStatus int
	rawBody      string

	// Tracking
	requestCount int
	offsets      []int
	lastQuery    url.Values
}

// NewMockGBIF creates a new mock GBIF server.
func NewMockGBIF() *MockGBIF {
	mock := &MockGBIF{
		records: make(map[string][]map[string]any),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// URL returns the mock server URL.
func (m *MockGBIF) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockGBIF) Close() {
	m.server.Close()
}

// SetRecords configures the record set served for any queried interval.
func (m *MockGBIF) SetRecords(records []map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[""] = records
}

// SetRecordsForInterval configures the record set served when the "year"
// query parameter equals yearParam (e.g. "1950,1960").
func (m *MockGBIF) SetRecordsForInterval(yearParam string, records []map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[yearParam] = records
}

// SetStatus forces every response to the given HTTP status. Zero restores
// normal paging behavior.
func (m *MockGBIF) SetStatus(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forcedStatus = status
}

// SetRawBody forces every response body to the given string (status 200),
// for exercising malformed-response handling.
func (m *MockGBIF) SetRawBody(body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rawBody = body
}

// RequestCount returns the number of requests served.
func (m *MockGBIF) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// Offsets returns the offset parameter of every request in order.
func (m *MockGBIF) Offsets() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int, len(m.offsets))
	copy(out, m.offsets)
	return out
}

// LastQuery returns the query parameters of the most recent request.
func (m *MockGBIF) LastQuery() url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery
}

func (m *MockGBIF) handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	offset, _ := strconv.Atoi(query.Get("offset"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 {
		limit = 20 // GBIF's own default page size
	}

	m.mu.Lock()
	m.requestCount++
	m.offsets = append(m.offsets, offset)
	m.lastQuery = query
	status := m.forcedStatus
	raw := m.rawBody
	records, ok := m.records[query.Get("year")]
	if !ok {
		records = m.records[""]
	}
	m.mu.Unlock()

	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if raw != "" {
		w.Write([]byte(raw))
		return
	}

	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	page := []map[string]any{}
	if offset < len(records) {
		page = records[offset:end]
	}

	json.NewEncoder(w).Encode(map[string]any{
		"offset":       offset,
		"limit":        limit,
		"count":        len(records),
		"results":      page,
		"endOfRecords": end >= len(records),
	})
}

// MakeOccurrences builds n synthetic occurrence records cycling through the
// given species names, with years spread across the given interval.
func MakeOccurrences(n int, species []string, startYear, endYear int) []map[string]any {
	records := make([]map[string]any, n)
	span := endYear - startYear
	if span <= 0 {
		span = 1
	}
	for i := 0; i < n; i++ {
		records[i] = map[string]any{
			"species":       species[i%len(species)],
			"year":          float64(startYear + i%span),
			"country":       "US",
			"stateProvince": "New York",
			"basisOfRecord": "PRESERVED_SPECIMEN",
		}
	}
	return records
}
