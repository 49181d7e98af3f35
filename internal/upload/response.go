package upload

import (
	"encoding/json"
	"fmt"
	"strings"

	"dropstage/internal/domain"
)

// Response is the parsed reply of the upload endpoint. Status is required;
// Message accompanies non-success statuses and may be absent.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StatusSuccess is the status value the endpoint sends on success.
const StatusSuccess = "success"

const maxBodyInMessage = 200

// Interpret maps an HTTP status code and raw response body onto a terminal
// outcome. The body is always read as text first and parsed leniently: a
// body that is not a JSON object yields a generic server error rather than
// a crash, and an absent status field is treated as a failure, never
// coerced to success.
func Interpret(statusCode int, body []byte) domain.Outcome {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Outcome{
			State:   domain.StateServerError,
			Message: "server response invalid",
		}
	}

	if statusCode < 200 || statusCode > 299 {
		msg := resp.Message
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d: %s", statusCode, truncate(string(body), maxBodyInMessage))
		}
		return domain.Outcome{State: domain.StateServerError, Message: msg}
	}

	if resp.Status == StatusSuccess {
		return domain.Outcome{State: domain.StateSuccess, Message: "upload complete"}
	}

	msg := resp.Message
	if msg == "" {
		msg = "upload failed"
	}
	return domain.Outcome{State: domain.StateServerError, Message: msg}
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
