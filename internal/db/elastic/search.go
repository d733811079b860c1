package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain/query"
)

// Search runs a query against one index and returns at most req.Size hits.
func (s *Store) Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResult, error) {
	if req.Index == "" {
		return nil, fmt.Errorf("%w: index name is required", db.ErrInvalidRequest)
	}
	if req.Size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive", db.ErrInvalidRequest)
	}

	body, err := buildBody(req.Query)
	if err != nil {
		return nil, err
	}

	size := req.Size
	sr := esapi.SearchRequest{
		Index: []string{req.Index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}

	res, err := sr.Do(ctx, s.client)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, &db.Error{Op: db.OpSearch, Err: decodeError(res.StatusCode, res.Status(), res.Body)}
	}

	return decodeResult(res.Body)
}

// buildBody renders the request body for q.
func buildBody(q query.Query) ([]byte, error) {
	dsl, err := buildQuery(q)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(map[string]any{"query": dsl})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	return b, nil
}

// buildQuery translates q into the Elasticsearch query DSL.
func buildQuery(q query.Query) (map[string]any, error) {
	switch q.Kind() {
	case query.KindMatchAll:
		return map[string]any{"match_all": map[string]any{}}, nil

	case query.KindMultiMatch:
		fields := q.Fields()
		names := make([]string, len(fields))
		for i, f := range fields {
			names[i] = f.String()
		}
		return map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     q.Text(),
						"fields":    names,
						"fuzziness": q.Fuzziness(),
					},
				},
			},
		}, nil

	case query.KindWildcard:
		return map[string]any{
			"wildcard": map[string]any{q.Field(): q.Pattern()},
		}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported query kind %q", db.ErrInvalidRequest, q.Kind())
	}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Score  *float64        `json:"_score"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func decodeResult(r io.Reader) (*db.SearchResult, error) {
	var resp searchResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, &db.Error{Op: db.OpDecode, Err: err}
	}

	hits := make([]db.Hit, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		hit := db.Hit{ID: h.ID, Source: h.Source}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		hits = append(hits, hit)
	}

	total := resp.Hits.Total.Value
	if total < len(hits) {
		total = len(hits)
	}
	return &db.SearchResult{Total: total, Hits: hits}, nil
}

type errorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

func decodeError(code int, status string, r io.Reader) error {
	var resp errorResponse
	_ = json.NewDecoder(r).Decode(&resp)

	if code == http.StatusNotFound && resp.Error.Type == "index_not_found_exception" {
		return fmt.Errorf("%w: %s", db.ErrIndexNotFound, resp.Error.Reason)
	}
	if resp.Error.Type != "" {
		return fmt.Errorf("%s: %s: %s", status, resp.Error.Type, resp.Error.Reason)
	}
	return fmt.Errorf("search failed: %s", status)
}
