package providers

import (
	"net/http"
	"time"

	"mercator-hq/kotoba/pkg/providers"
)

// TestConfig returns a provider configuration pointed at endpoint.
func TestConfig(endpoint string) providers.ProviderConfig {
	return providers.ProviderConfig{
		Name:     "openai",
		Endpoint: endpoint,
		APIKey:   "test-key",
		Timeout:  5 * time.Second,
	}
}

// MockOpenAIResponse creates a successful chat completion body.
func MockOpenAIResponse(content string, model string) map[string]interface{} {
	return map[string]interface{}{
		"id":      "chatcmpl-123",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []map[string]interface{}{
			{
				"index": 0,
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]interface{}{
			"prompt_tokens":     10,
			"completion_tokens": 20,
			"total_tokens":      30,
		},
	}
}

// MockNullContentResponse creates a completion whose first choice has a
// null content, as happens with refusals and tool calls.
func MockNullContentResponse() map[string]interface{} {
	return map[string]interface{}{
		"id":     "chatcmpl-456",
		"object": "chat.completion",
		"choices": []map[string]interface{}{
			{
				"index": 0,
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": nil,
				},
				"finish_reason": "content_filter",
			},
		},
	}
}

// MockErrorResponse creates an OpenAI error body with the given status.
func MockErrorResponse(statusCode int, message string) MockResponse {
	return MockResponse{
		StatusCode: statusCode,
		Body: map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
				"type":    "invalid_request_error",
				"code":    nil,
			},
		},
	}
}

// MockAuthError creates a 401 authentication error response.
func MockAuthError() MockResponse {
	return MockErrorResponse(http.StatusUnauthorized, "Incorrect API key provided")
}

// MockSuccess wraps MockOpenAIResponse in a 200 response.
func MockSuccess(content string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       MockOpenAIResponse(content, "gpt-5-mini"),
	}
}

// MockSlowResponse answers successfully after delay.
func MockSlowResponse(delay time.Duration) MockResponse {
	resp := MockSuccess("too late")
	resp.Delay = delay
	return resp
}
