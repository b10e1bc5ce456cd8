package model

import "time"

// QuotaState is the last rate-limit snapshot observed on an origin response.
// It is bookkeeping only: nothing ever consults it to refuse a request.
type QuotaState struct {
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    string    `json:"reset_at"`
	ObservedAt time.Time `json:"observed_at"`
}

// Low reports whether less than 10% of the quota remains.
func (q QuotaState) Low() bool {
	if q.Limit <= 0 {
		return false
	}
	return float64(q.Remaining)/float64(q.Limit) < 0.10
}

func (q QuotaState) PercentRemaining() float64 {
	if q.Limit <= 0 {
		return 0
	}
	return float64(q.Remaining) / float64(q.Limit) * 100
}
