package dto

// MarketEventInput is one upstream-classified event submitted for
// ingestion. Dates are calendar days, not timestamps.
type MarketEventInput struct {
	Symbol   string `json:"symbol" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Source   string `json:"source"`
	Headline string `json:"headline"`
}

type IngestEventsRequest struct {
	Events []MarketEventInput `json:"events" validate:"required,min=1,dive"`
}

type IngestEventsResult struct {
	Inserted int `json:"inserted"`
}
