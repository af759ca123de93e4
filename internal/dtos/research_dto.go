package dtos

// ResearchRequest asks the AI provider for a company briefing.
type ResearchRequest struct {
	Company string `json:"company" binding:"required"`
}

// ResearchResponse carries the briefing plus whether it came from cache.
type ResearchResponse struct {
	Success bool   `json:"success"`
	Company string `json:"company"`
	Answer  string `json:"answer"`
	Cached  bool   `json:"cached"`
}

// JobListFilter holds the read-side query params for active listings.
type JobListFilter struct {
	Source   string
	Location string
	Keyword  string
	Limit    int
}
