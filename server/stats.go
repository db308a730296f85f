package server

import (
	"net/http"

	"github.com/kasuboski/reelbox/pkg/stats"
)

type StatsResponse struct {
	stats.Summary
	WatchTime string `json:"watchTime"`
}

// GetStats recomputes the dashboard from the current collections.
func (s Server) GetStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary := stats.Compute(s.collections.Snapshot())
		respond(w, r, StatsResponse{
			Summary:   summary,
			WatchTime: stats.FormatWatchTime(summary.TotalWatchTimeMinutes),
		})
	}
}
