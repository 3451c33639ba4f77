package resource

type listInput struct{}

type listResponse struct {
	Items []map[string]any `json:"items"`
}

type listOutput struct {
	Body listResponse
}

type idInput struct {
	ID int `path:"id" example:"1" doc:"Row id"`
}

type createInput struct {
	IdemKey string `header:"Idempotency-Key" doc:"Client-generated key; retries with the same key return the originally created row"`
	Body    map[string]any
}

type updateInput struct {
	ID   int `path:"id" example:"1" doc:"Row id"`
	Body map[string]any
}

type rowOutput struct {
	Body map[string]any
}

type deleteOutput struct{}
