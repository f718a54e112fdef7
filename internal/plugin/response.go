package plugin

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ResponseCode is the provider's own classification of its result, carried
// in the JSON body alongside the process exit code.
type ResponseCode int

const (
	ResponseCodeSuccess  ResponseCode = 0
	ResponseCodeError    ResponseCode = 1
	ResponseCodeNotFound ResponseCode = 2
)

// responseSchema is the wire shape providers must write to stdout. Shape
// violations (wrong types, out-of-range codes) are rejected before decoding.
const responseSchema = `{
	"type": "object",
	"properties": {
		"ResponseCode":        {"type": "integer", "minimum": 0, "maximum": 2},
		"Username":            {"type": ["string", "null"]},
		"Password":            {"type": ["string", "null"]},
		"Message":             {"type": ["string", "null"]},
		"AuthenticationTypes": {"type": ["array", "null"], "items": {"type": "string"}}
	}
}`

// Response is the decoded JSON payload a provider writes to stdout.
type Response struct {
	ResponseCode        ResponseCode `json:"ResponseCode"`
	Username            string       `json:"Username"`
	Password            string       `json:"Password"`
	Message             string       `json:"Message"`
	AuthenticationTypes []string     `json:"AuthenticationTypes"`
}

// IsValid is a reserved hook for semantic validation beyond the wire shape.
// Consumers must not read Username/Password unless the exit code was the
// success code; that rule is enforced by the interpreter, not here.
func (r *Response) IsValid() bool {
	return true
}

// ParseResponse validates the stdout body against the response schema and
// decodes it.
func ParseResponse(body string) (*Response, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("empty response body")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(responseSchema),
		gojsonschema.NewStringLoader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if !result.Valid() {
		var errorMessages []string
		for _, desc := range result.Errors() {
			errorMessages = append(errorMessages, desc.String())
		}
		return nil, fmt.Errorf("response schema violation:\n  - %s", strings.Join(errorMessages, "\n  - "))
	}

	var resp Response
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}
