package openai

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ChatRequest represents an OpenAI chat completion request.
// Temperature is always sent, since zero is a meaningful value.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// Message represents a message in OpenAI format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse represents an OpenAI chat completion response, or the error
// object OpenAI returns in its place. Both shapes decode into this struct.
type ChatResponse struct {
	ID      string   `json:"id,omitempty"`
	Object  string   `json:"object,omitempty"`
	Created int64    `json:"created,omitempty"`
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices,omitempty"`
	Usage   *Usage   `json:"usage,omitempty"`

	// Error is kept raw: OpenAI sends an object, but any non-null value
	// marks the reply as an error.
	Error json.RawMessage `json:"error,omitempty"`

	// StatusCode is the HTTP status the response arrived with.
	StatusCode int `json:"-"`
}

// Choice represents a completion choice in OpenAI format.
type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason,omitempty"`
}

// ChoiceMessage is the assistant message of a choice. Content is a pointer
// so that a null or absent content can be told apart from an empty string.
type ChoiceMessage struct {
	Role    string  `json:"role,omitempty"`
	Content *string `json:"content"`
}

// Usage represents token usage in OpenAI format.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// APIError is the documented shape of the error object.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Code    any    `json:"code,omitempty"`
}

var errNotObject = errors.New("response body is not a JSON object")

// HasError reports whether the response carries a non-null error field.
func (r *ChatResponse) HasError() bool {
	raw := bytes.TrimSpace(r.Error)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// ErrorMessage returns error.message. It is empty when the error field is
// absent, not an object, or has no string message.
func (r *ChatResponse) ErrorMessage() string {
	if !r.HasError() {
		return ""
	}
	var apiErr APIError
	if err := json.Unmarshal(r.Error, &apiErr); err != nil {
		return ""
	}
	return apiErr.Message
}

// FirstContent returns choices[0].message.content and whether it was present
// and non-null.
func (r *ChatResponse) FirstContent() (string, bool) {
	if len(r.Choices) == 0 || r.Choices[0].Message.Content == nil {
		return "", false
	}
	return *r.Choices[0].Message.Content, true
}

// DecodeResponse decodes an upstream body. The top level must be a JSON
// object; choices that do not match the expected shape are dropped rather
// than failing the whole decode, so an error field is still reported.
func DecodeResponse(body []byte) (*ChatResponse, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errNotObject
	}

	resp := &ChatResponse{}
	if raw, ok := fields["error"]; ok {
		resp.Error = raw
	}
	if raw, ok := fields["choices"]; ok {
		var choices []Choice
		if err := json.Unmarshal(raw, &choices); err == nil {
			resp.Choices = choices
		}
	}
	if raw, ok := fields["usage"]; ok {
		var usage Usage
		if err := json.Unmarshal(raw, &usage); err == nil {
			resp.Usage = &usage
		}
	}
	decodeString(fields["id"], &resp.ID)
	decodeString(fields["object"], &resp.Object)
	decodeString(fields["model"], &resp.Model)
	if raw, ok := fields["created"]; ok {
		_ = json.Unmarshal(raw, &resp.Created)
	}

	return resp, nil
}

func decodeString(raw json.RawMessage, dst *string) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, dst)
}
