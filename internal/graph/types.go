package graph

import (
	"encoding/json"
	"fmt"

	"github.com/theirongolddev/adburn/internal/source"
)

// insightsPage is one page of the insights edge.
type insightsPage struct {
	Data   []source.RawRow `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// errorEnvelope wraps the error object returned on failed requests.
type errorEnvelope struct {
	Error *APIError `json:"error"`
}

// APIError is the error object of a failed Graph request.
type APIError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	Subcode   int    `json:"error_subcode"`
	FBTraceID string `json:"fbtrace_id"`
	Status    int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph: %s (code %d)", e.Message, e.Code)
}

// rateLimitCodes are the error codes signalling throttling.
var rateLimitCodes = map[int]bool{4: true, 17: true, 32: true, 613: true}

func decodeAPIError(body []byte, status int) *APIError {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error == nil {
		return nil
	}
	env.Error.Status = status
	return env.Error
}
