// internal/workers/catalog/search-use-cases/handler_test.go
package searchusecases

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessment-workers/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:   30 * time.Second,
		IndexName: "use-cases",
	}
}

// createRealElasticsearchClient connects to a local Elasticsearch container
// and skips the test when none is running.
func createRealElasticsearchClient(t *testing.T) *elasticsearch.Client {
	cfg := elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
	}

	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		t.Skipf("Skipping test: Failed to create Elasticsearch client: %v", err)
		return nil
	}

	res, err := esClient.Info()
	if err != nil {
		t.Skipf("Skipping test: Elasticsearch container not responding: %v", err)
		return nil
	}
	defer res.Body.Close()

	if res.IsError() {
		t.Skipf("Skipping test: Elasticsearch error: %s", res.String())
		return nil
	}

	return esClient
}

func setupCatalogIndex(t *testing.T, esClient *elasticsearch.Client) {
	esClient.Indices.Delete([]string{"use-cases"}, esClient.Indices.Delete.WithIgnoreUnavailable(true))

	indexBody := `{
		"mappings": {
			"properties": {
				"name": {"type": "text"},
				"description": {"type": "text"},
				"category": {"type": "keyword"},
				"tags": {"type": "keyword"},
				"active": {"type": "boolean"},
				"dashboard_visible": {"type": "boolean"},
				"pillar_requirements": {"type": "object"}
			}
		}
	}`

	res, err := esClient.Indices.Create(
		"use-cases",
		esClient.Indices.Create.WithBody(strings.NewReader(indexBody)),
	)
	require.NoError(t, err, "Failed to create index")
	res.Body.Close()

	docs := []map[string]interface{}{
		{
			"name":                "Self-Service Dashboards",
			"description":         "Business intelligence rollout across departments",
			"category":            "analytics",
			"tags":                []string{"reporting", "bi"},
			"active":              true,
			"dashboard_visible":   true,
			"pillar_requirements": map[string]float64{"strategy": 4},
		},
		{
			"name":                "Predictive Maintenance",
			"description":         "ML-driven failure prediction for equipment",
			"category":            "operations",
			"tags":                []string{"ml"},
			"active":              true,
			"dashboard_visible":   false,
			"pillar_requirements": map[string]float64{"data": 4, "technology": 4},
		},
		{
			"name":              "Retired Pilot",
			"description":       "Deprecated experiment",
			"category":          "analytics",
			"active":            false,
			"dashboard_visible": false,
		},
	}

	for _, doc := range docs {
		docJSON, err := json.Marshal(doc)
		require.NoError(t, err)
		res, err := esClient.Index("use-cases", strings.NewReader(string(docJSON)))
		require.NoError(t, err)
		res.Body.Close()
	}

	// Make the documents searchable before the assertions run.
	res, err = esClient.Indices.Refresh(esClient.Indices.Refresh.WithIndex("use-cases"))
	require.NoError(t, err)
	res.Body.Close()
}

// ==========================
// Integration Tests
// ==========================

func TestHandler_Execute_KeywordSearch(t *testing.T) {
	esClient := createRealElasticsearchClient(t)
	setupCatalogIndex(t, esClient)

	handler := NewHandler(createTestConfig(), esClient, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Keywords: "dashboards",
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, output.TotalHits, int64(1))
	assert.Equal(t, "Self-Service Dashboards", output.UseCases[0]["name"])
}

func TestHandler_Execute_ActiveOnlyExcludesRetired(t *testing.T) {
	esClient := createRealElasticsearchClient(t)
	setupCatalogIndex(t, esClient)

	handler := NewHandler(createTestConfig(), esClient, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		ActiveOnly: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), output.TotalHits)
	for _, uc := range output.UseCases {
		assert.NotEqual(t, "Retired Pilot", uc["name"])
	}
}

func TestHandler_Execute_PillarFilter(t *testing.T) {
	esClient := createRealElasticsearchClient(t)
	setupCatalogIndex(t, esClient)

	handler := NewHandler(createTestConfig(), esClient, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Pillar: "data",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), output.TotalHits)
	assert.Equal(t, "Predictive Maintenance", output.UseCases[0]["name"])
}

func TestHandler_Execute_NilInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, logger.NewNoOpLogger())

	_, err := handler.Execute(context.Background(), nil)
	assert.Error(t, err)
}
