// Package occurrence implements the GBIF occurrence search fetcher.
//
// A Fetcher drains the paged search endpoint for one taxon query over one
// year interval: it issues requests with an advancing offset until the server
// reports endOfRecords, and materializes the concatenated pages as a
// table.Table in API-returned order. There is no retry and no partial-result
// salvage; any failed page fails the whole fetch.
//
// The pagination cursor is local loop state, not a field on the Fetcher, so a
// Fetcher value is safe to reuse and fetches never interfere with each other.
package occurrence
