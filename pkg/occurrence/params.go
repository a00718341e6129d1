package occurrence

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

// Filter parameter keys recognized by the occurrence search endpoint.
const (
	ParamQuery              = "q"
	ParamYear               = "year"
	ParamBasisOfRecord      = "basisOfRecord"
	ParamHasCoordinate      = "hasCoordinate"
	ParamHasGeospatialIssue = "hasGeospatialIssue"
	ParamCountry            = "country"
	ParamOffset             = "offset"
	ParamLimit              = "limit"
)

// Fixed search defaults.
const (
	// DefaultBasisOfRecord restricts results to preserved specimens.
	DefaultBasisOfRecord = "PRESERVED_SPECIMEN"

	// DefaultCountry is the ISO country code filter.
	DefaultCountry = "US"

	// DefaultPageSize is the GBIF maximum page size.
	DefaultPageSize = 300
)

// Params is an ordered mapping of filter keys to string values. Order is
// preserved so that a parameter set renders and logs deterministically.
type Params struct {
	keys   []string
	values map[string]string
}

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return &Params{values: make(map[string]string)}
}

// DefaultParams builds the standard occurrence search filter set for a taxon
// query over an inclusive year interval: preserved specimens only, with
// coordinates, without geospatial issues, US records, offset 0, page size 300.
func DefaultParams(query string, yearStart, yearEnd int) *Params {
	p := NewParams()
	p.Set(ParamQuery, query)
	p.Set(ParamYear, fmt.Sprintf("%d,%d", yearStart, yearEnd))
	p.Set(ParamBasisOfRecord, DefaultBasisOfRecord)
	p.Set(ParamHasCoordinate, "true")
	p.Set(ParamHasGeospatialIssue, "false")
	p.Set(ParamCountry, DefaultCountry)
	p.Set(ParamOffset, "0")
	p.Set(ParamLimit, strconv.Itoa(DefaultPageSize))
	return p
}

// Set stores a value, registering the key at the end of the order if new.
func (p *Params) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value for a key and whether it is present.
func (p *Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the parameter keys in insertion order.
func (p *Params) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Merge applies caller-supplied overrides; overrides win on key collision.
func (p *Params) Merge(overrides map[string]string) {
	// Deterministic application order for new keys.
	newKeys := make([]string, 0, len(overrides))
	for k := range overrides {
		if _, ok := p.values[k]; ok {
			p.values[k] = overrides[k]
		} else {
			newKeys = append(newKeys, k)
		}
	}
	sort.Strings(newKeys)
	for _, k := range newKeys {
		p.Set(k, overrides[k])
	}
}

// Clone returns an independent copy.
func (p *Params) Clone() *Params {
	out := NewParams()
	for _, k := range p.keys {
		out.Set(k, p.values[k])
	}
	return out
}

// Values renders the set as url.Values for a request.
func (p *Params) Values() url.Values {
	out := make(url.Values, len(p.keys))
	for _, k := range p.keys {
		out.Set(k, p.values[k])
	}
	return out
}
