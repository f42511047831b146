// internal/api/respond.go
package api

import (
	"encoding/json"
	"net/http"

	"github-top-tracker/internal/model"
)

// repoResponse is the wire shape of one ranked repository.
type repoResponse struct {
	Repo         string  `json:"repo"`
	Owner        string  `json:"owner"`
	PositionCur  int     `json:"position_cur"`
	PositionPrev *int    `json:"position_prev"`
	Stars        int     `json:"stars"`
	Watchers     int     `json:"watchers"`
	Forks        int     `json:"forks"`
	OpenIssues   int     `json:"open_issues"`
	Language     *string `json:"language"`
}

// activityResponse is the wire shape of one daily activity aggregate.
type activityResponse struct {
	Date    string   `json:"date"`
	Commits int      `json:"commits"`
	Authors []string `json:"authors"`
}

func toRepoResponse(repo model.Repository) repoResponse {
	return repoResponse{
		Repo:         repo.FullName(),
		Owner:        repo.Owner,
		PositionCur:  repo.PositionCur,
		PositionPrev: repo.PositionPrev,
		Stars:        repo.Stars,
		Watchers:     repo.Watchers,
		Forks:        repo.Forks,
		OpenIssues:   repo.OpenIssues,
		Language:     repo.Language,
	}
}

func toActivityResponse(day model.DailyActivity) activityResponse {
	authors := day.Authors
	if authors == nil {
		authors = []string{}
	}
	return activityResponse{
		Date:    day.Date.Format("2006-01-02"),
		Commits: day.Commits,
		Authors: authors,
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
