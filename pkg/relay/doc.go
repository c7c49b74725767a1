// Package relay turns one chat page request into one upstream chat
// completion call and a plain text reply.
//
// A request body {"message": "..."} is answered with one of:
//
//   - the first completion's content, trimmed
//   - "API Error: " followed by the upstream error message
//   - "cURL Error: " followed by the transport failure
//   - a fixed Japanese message for empty input, a missing API key or an
//     unrecognised upstream answer
//
// Handle never returns an error and never retries. Empty input and a
// missing key are answered without contacting the upstream API.
//
// # Usage
//
//	client, _ := openai.NewClient(providerCfg)
//	svc := relay.New(relay.Config{Model: "gpt-5-mini", Temperature: 0.3}, client, relay.Options{
//	    Logger:   logger,
//	    Recorder: collector,
//	    Tracer:   tracer,
//	})
//	reply := svc.Handle(ctx, body)
//	fmt.Println(reply.Text, reply.Outcome)
package relay
