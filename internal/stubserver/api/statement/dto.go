package statement

import (
	"travelex/internal/domain/statement"
)

type processInput struct {
	Body processRequest
}

type processRequest struct {
	File     string `json:"file" minLength:"1" doc:"Stored name returned by the upload"`
	Filename string `json:"filename" minLength:"1" doc:"Original filename, kept for display"`
}

type processOutput struct {
	Body statement.Import
}

type idInput struct {
	ID int `path:"id" example:"1" doc:"Import id"`
}

type groupsResponse struct {
	Groups []statement.Group `json:"groups"`
}

type groupsOutput struct {
	Body groupsResponse
}

type commitInput struct {
	ID   int `path:"id" example:"1" doc:"Import id"`
	Body commitRequest
}

type commitRequest struct {
	Decisions []statement.Decision `json:"decisions"`
}

type commitOutput struct {
	Body statement.Report
}
