// internal/workers/catalog/search-use-cases/models.go
package searchusecases

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Input struct {
	Keywords      string     `json:"keywords"`
	Pillar        string     `json:"pillar"`
	Category      string     `json:"category"`
	Tags          []string   `json:"tags"`
	ActiveOnly    bool       `json:"activeOnly"`
	DashboardOnly bool       `json:"dashboardOnly"`
	Pagination    Pagination `json:"pagination"`
}

type Output struct {
	UseCases  []map[string]interface{} `json:"useCases"`
	TotalHits int64                    `json:"totalHits"`
	MaxScore  float64                  `json:"maxScore"`
	Took      int64                    `json:"took"`
}
