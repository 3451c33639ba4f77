package alert

type candidate struct {
	Collection string  `json:"collection" minLength:"1" doc:"Collection the save targets"`
	CategoryID int     `json:"category_id,omitempty" doc:"Category, when the collection has one"`
	Country    string  `json:"country,omitempty" doc:"Destination country, when relevant"`
	Currency   string  `json:"currency" minLength:"1"`
	Amount     float64 `json:"amount"`
}

type detail struct {
	AlertAmount float64 `json:"alert_amount" doc:"The configured limit"`
	Message     string  `json:"message,omitempty"`
}

type result struct {
	Tripped bool   `json:"tripped"`
	Detail  detail `json:"detail"`
}

type checkInput struct {
	Body candidate
}

type checkOutput struct {
	Body result
}

type checkBatchInput struct {
	Body checkBatchRequest
}

type checkBatchRequest struct {
	Candidates []candidate `json:"candidates"`
}

type checkBatchResponse struct {
	Results []result `json:"results"`
}

type checkBatchOutput struct {
	Body checkBatchResponse
}
