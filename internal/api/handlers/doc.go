// Package handlers implements the HTTP handlers of the clicklar development
// API: accounts, categories, public and private service listings, and the
// authenticated user's profile.
package handlers

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// StatusOutput wraps StatusResponse as a huma response.
type StatusOutput struct {
	Body StatusResponse
}

func status(s string) *StatusOutput {
	return &StatusOutput{Body: StatusResponse{Status: s}}
}
