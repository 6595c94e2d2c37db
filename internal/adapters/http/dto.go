package http

// CardResponse is the JSON shape returned by GET /v1/card.
type CardResponse struct {
	Card  string   `json:"card"`
	Frame string   `json:"frame"`
	Rows  []string `json:"rows"`
	Meta  MetaResp `json:"meta"`
}

type MetaResp struct {
	RequestID string `json:"request_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
