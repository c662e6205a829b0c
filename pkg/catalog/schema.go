// pkg/catalog/schema.go
package catalog

// Document is the on-disk form of the use-case catalog. The workers read the
// same entries from PostgreSQL; this document is the source the catalog
// tooling edits and syncs.
type Document struct {
	Version     string  `json:"version"`
	LastUpdated string  `json:"lastUpdated"`
	UseCases    []Entry `json:"useCases"`
}

type Entry struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	Category           string             `json:"category"`
	PillarRequirements map[string]float64 `json:"pillarRequirements"`
	Tags               []string           `json:"tags"`
	Active             bool               `json:"active"`
	DashboardVisible   bool               `json:"dashboardVisible"`
	Position           int                `json:"position"`
}
