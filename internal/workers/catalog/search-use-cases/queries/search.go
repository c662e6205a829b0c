// internal/workers/catalog/search-use-cases/queries/search.go
package queries

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrMissingIndex = errors.New("index name is required")
)

// CatalogSearch describes one search against the use-case index.
type CatalogSearch struct {
	Index         string
	Keywords      string
	Pillar        string
	Category      string
	Tags          []string
	ActiveOnly    bool
	DashboardOnly bool
	Pagination    struct {
		From int
		Size int
	}
}

type SearchResult struct {
	Data      []map[string]interface{}
	TotalHits int64
	MaxScore  float64
	Took      int64
}

// BuildQuery assembles the bool query for a catalog search. Keywords search
// name and description with name boosted; everything else is a filter clause
// so scoring stays driven by text relevance.
func BuildQuery(cs CatalogSearch) (map[string]interface{}, error) {
	if cs.Index == "" {
		return nil, ErrMissingIndex
	}

	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if cs.Keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  cs.Keywords,
				"fields": []string{"name^3", "description^2", "category"},
				"type":   "best_fields",
			},
		})
	}

	if cs.Pillar != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"exists": map[string]interface{}{
				"field": "pillar_requirements." + cs.Pillar,
			},
		})
	}

	if cs.Category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": cs.Category},
		})
	}

	if len(cs.Tags) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"tags": cs.Tags},
		})
	}

	if cs.ActiveOnly {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"active": true},
		})
	}

	if cs.DashboardOnly {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"dashboard_visible": true},
		})
	}

	boolQuery := map[string]interface{}{}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	} else {
		boolQuery["must"] = []interface{}{
			map[string]interface{}{"match_all": map[string]interface{}{}},
		}
	}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}, nil
}

// Execute runs a catalog search and flattens the hits into their sources.
func Execute(ctx context.Context, esClient *elasticsearch.Client, cs CatalogSearch) (*SearchResult, error) {
	queryBody, err := BuildQuery(cs)
	if err != nil {
		return nil, err
	}

	from := cs.Pagination.From
	size := cs.Pagination.Size
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(queryBody); err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{cs.Index},
		Body:  &buf,
		From:  &from,
		Size:  &size,
	}

	start := time.Now()
	res, err := req.Do(ctx, esClient)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == 404 || strings.Contains(res.String(), "index_not_found_exception") {
			return nil, fmt.Errorf("index %q not found: %w", cs.Index, ErrMissingIndex)
		}
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	hits, ok := r["hits"].(map[string]interface{})
	if !ok {
		return nil, errors.New("malformed search response: missing hits")
	}

	var total float64
	if t, ok := hits["total"].(map[string]interface{}); ok {
		total, _ = t["value"].(float64)
	}
	maxScore := 0.0
	if ms, ok := hits["max_score"].(float64); ok {
		maxScore = ms
	}

	var data []map[string]interface{}
	if hitList, ok := hits["hits"].([]interface{}); ok {
		for _, hit := range hitList {
			if h, ok := hit.(map[string]interface{}); ok {
				if source, ok := h["_source"].(map[string]interface{}); ok {
					data = append(data, source)
				}
			}
		}
	}

	return &SearchResult{
		Data:      data,
		TotalHits: int64(total),
		MaxScore:  maxScore,
		Took:      time.Since(start).Milliseconds(),
	}, nil
}
