// Package openai implements a client for OpenAI's chat completions API.
//
// The client sends one non-streaming request per call and returns the decoded
// body whether OpenAI answered with a completion or with an error object.
//
// # Basic Usage
//
//	client, err := openai.NewClient(providers.ProviderConfig{
//	    Endpoint: "https://api.openai.com/v1/chat/completions",
//	    APIKey:   apiKey,
//	    Timeout:  30 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	resp, err := client.Complete(ctx, &openai.ChatRequest{
//	    Model: "gpt-5-mini",
//	    Messages: []openai.Message{
//	        {Role: "system", Content: "..."},
//	        {Role: "user", Content: "Hello!"},
//	    },
//	    Temperature: 0.3,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if resp.HasError() {
//	    fmt.Println(resp.ErrorMessage())
//	} else if content, ok := resp.FirstContent(); ok {
//	    fmt.Println(content)
//	}
//
// # Response Decoding
//
// DecodeResponse only requires the body to be a JSON object. Fields that do
// not have the documented shape are ignored, so a reply is classified by
// what can be read from it instead of failing outright.
package openai
