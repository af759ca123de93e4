package dtos

// IngestTriggerRequest is the optional body on the ingest trigger.
// When Locations is set it overrides the configured sweep locations for
// this run only.
type IngestTriggerRequest struct {
	Locations []string `json:"locations"`
}

// IngestionResult summarizes one orchestrated sweep. It is never persisted;
// it only travels back to the trigger caller.
type IngestionResult struct {
	RunID      string `json:"run_id"`
	Locations  int    `json:"locations"`
	Downloaded int    `json:"downloaded"`
	Unique     int    `json:"unique"`
	Duplicates int    `json:"duplicates"`
	Malformed  int    `json:"malformed"`
	Inserted   int    `json:"inserted"`
	Renewed    int    `json:"renewed"`
	Errors     int    `json:"errors"`
	DurationMS int64  `json:"duration"`
	Partial    bool   `json:"partial"`
}

// IngestTriggerResponse is the trigger endpoint's 200 payload.
type IngestTriggerResponse struct {
	Success bool             `json:"success"`
	Results *IngestionResult `json:"results"`
}
