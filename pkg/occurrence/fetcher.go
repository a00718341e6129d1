package occurrence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/savantlab/gbif-records/pkg/client"
	"github.com/savantlab/gbif-records/pkg/table"
)

// SearchPath is the occurrence search endpoint.
const SearchPath = "/v1/occurrence/search"

// Prometheus metrics for occurrence fetches.
var (
	gbifPagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gbif_pages_fetched_total",
		Help: "Total occurrence search pages fetched",
	})

	gbifRecordsFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gbif_records_fetched_total",
		Help: "Total occurrence records fetched",
	})
)

// Errors returned by the fetcher.
var (
	// ErrMalformedResponse is returned when a search response lacks the
	// results list or the endOfRecords flag.
	ErrMalformedResponse = errors.New("malformed occurrence search response")

	// ErrPageLimitExceeded is returned when the optional page safety cap is
	// reached before the server signals end of records.
	ErrPageLimitExceeded = errors.New("page limit exceeded before end of records")
)

// Config holds fetcher configuration.
type Config struct {
	// Client is the GBIF API client (required).
	Client *client.Client

	// Query is the taxon name filter. Empty matches all taxa.
	Query string

	// YearStart and YearEnd bound the queried year interval, rendered as the
	// comma-joined "year" filter.
	YearStart int
	YearEnd   int

	// Overrides are merged over the default filter set; overrides win on key
	// collision. Any recognized filter key may appear here, including page
	// size ("limit"); overriding "offset" is possible but not normally useful.
	Overrides map[string]string

	// MaxPages optionally caps the pagination loop. Zero means no cap: the
	// fetch runs until the server says stop, so a server that never reports
	// endOfRecords loops forever. That unbounded contract is deliberate; the
	// cap exists for callers that want a guard against it.
	MaxPages int
}

// Fetcher retrieves the complete occurrence set for one search, however many
// pages the API requires.
type Fetcher struct {
	client   *client.Client
	params   *Params
	pageSize int
	maxPages int
	logger   zerolog.Logger
}

// NewFetcher creates a fetcher from the given configuration.
func NewFetcher(cfg Config) (*Fetcher, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if cfg.MaxPages < 0 {
		return nil, fmt.Errorf("max pages must be >= 0 (got %d)", cfg.MaxPages)
	}

	params := DefaultParams(cfg.Query, cfg.YearStart, cfg.YearEnd)
	params.Merge(cfg.Overrides)

	limit, _ := params.Get(ParamLimit)
	pageSize, err := strconv.Atoi(limit)
	if err != nil || pageSize <= 0 {
		return nil, fmt.Errorf("invalid page size %q", limit)
	}

	return &Fetcher{
		client:   cfg.Client,
		params:   params,
		pageSize: pageSize,
		maxPages: cfg.MaxPages,
		logger:   log.With().Str("component", "fetcher").Logger(),
	}, nil
}

// Params returns a copy of the resolved filter parameter set.
func (f *Fetcher) Params() *Params {
	return f.params.Clone()
}

// searchPage is one page of the search response. Pointer fields distinguish
// an absent key from a zero value so malformed responses fail loudly.
type searchPage struct {
	Results      *[]table.Record `json:"results"`
	EndOfRecords *bool           `json:"endOfRecords"`
	Count        int64           `json:"count"`
}

// FetchAll drains the search endpoint and returns all records as a table, in
// API-returned order. The offset starts at the configured value and advances
// by the page size after every successful page; it never resets mid-fetch.
// Any transport failure, non-2xx status, or malformed page aborts the fetch
// with no partial result.
func (f *Fetcher) FetchAll(ctx context.Context) (*table.Table, error) {
	start := time.Now()

	params := f.params.Clone()
	offset := 0
	if v, ok := params.Get(ParamOffset); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid offset %q", v)
		}
		offset = n
	}

	var records []table.Record
	for pages := 1; ; pages++ {
		params.Set(ParamOffset, strconv.Itoa(offset))

		page, err := f.fetchPage(ctx, params)
		if err != nil {
			return nil, err
		}

		records = append(records, *page.Results...)
		offset += f.pageSize

		gbifPagesFetchedTotal.Inc()
		gbifRecordsFetchedTotal.Add(float64(len(*page.Results)))

		f.logger.Debug().
			Int("offset", offset).
			Int("page_records", len(*page.Results)).
			Int("records", len(records)).
			Msg("Fetched occurrence page")

		if *page.EndOfRecords {
			f.logger.Info().
				Int("pages", pages).
				Int("records", len(records)).
				Dur("duration", time.Since(start)).
				Msg("Fetch complete")
			return table.FromRecords(records), nil
		}

		if f.maxPages > 0 && pages >= f.maxPages {
			return nil, fmt.Errorf("%w: fetched %d pages (%d records)",
				ErrPageLimitExceeded, pages, len(records))
		}
	}
}

// fetchPage issues one search request and decodes it.
func (f *Fetcher) fetchPage(ctx context.Context, params *Params) (*searchPage, error) {
	resp, err := f.client.Get(ctx, SearchPath, params.Values())
	if err != nil {
		return nil, fmt.Errorf("occurrence search: %w", err)
	}
	defer resp.Body.Close()

	var page searchPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode occurrence search response: %w", err)
	}

	if page.Results == nil {
		return nil, fmt.Errorf("%w: missing results", ErrMalformedResponse)
	}
	if page.EndOfRecords == nil {
		return nil, fmt.Errorf("%w: missing endOfRecords", ErrMalformedResponse)
	}

	return &page, nil
}
