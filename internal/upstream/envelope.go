package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"

	"chinguetti/pkg/models"
)

// Page is the server pagination envelope {count, next, previous, results}.
// List endpoints sometimes return a bare array instead; callers get a Page
// either way, with Count set to the slice length when no envelope came back.
type Page struct {
	Count    int            `json:"count"`
	Next     string         `json:"next"`
	Previous string         `json:"previous"`
	Results  []models.Entry `json:"results"`
}

// decodeList normalizes the three list body shapes the API has been observed
// to produce, in precedence order: {"results": [...]}, {"value": [...]},
// bare array. Anything else decodes to an empty list rather than an error.
func decodeList(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return fmt.Errorf("decode list body: %w", err)
		}
		return nil
	}

	var env struct {
		Results json.RawMessage `json:"results"`
		Value   json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return fmt.Errorf("decode list envelope: %w", err)
	}

	switch {
	case len(env.Results) > 0 && string(env.Results) != "null":
		if err := json.Unmarshal(env.Results, out); err != nil {
			return fmt.Errorf("decode results: %w", err)
		}
	case len(env.Value) > 0 && string(env.Value) != "null":
		if err := json.Unmarshal(env.Value, out); err != nil {
			return fmt.Errorf("decode value: %w", err)
		}
	}
	return nil
}

// decodePage reads the full pagination envelope. A bare array body is
// wrapped into a single synthetic page.
func decodePage(body []byte) (Page, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Page{}, nil
	}

	if trimmed[0] == '[' {
		var entries []models.Entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return Page{}, fmt.Errorf("decode page body: %w", err)
		}
		return Page{Count: len(entries), Results: entries}, nil
	}

	var p Page
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return Page{}, fmt.Errorf("decode page envelope: %w", err)
	}
	if p.Results == nil {
		// tolerate the {"value": [...]} variant on paginated endpoints too
		var entries []models.Entry
		if err := decodeList(trimmed, &entries); err != nil {
			return Page{}, err
		}
		p.Results = entries
		if p.Count == 0 {
			p.Count = len(entries)
		}
	}
	return p, nil
}
