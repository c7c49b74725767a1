// Kotoba is a keyword translation relay.
//
// It serves a small chat page and relays each submitted sentence to an
// OpenAI-compatible chat completion API, which picks the most important word
// and translates it to English. Replies are returned as plain text.
//
// Usage:
//
//	# Start the server (reads kotoba.yaml and .env when present)
//	kotoba run
//
//	# Start with a custom configuration file
//	kotoba run --config /etc/kotoba/kotoba.yaml
//
//	# Relay one message from the terminal
//	kotoba ask "明日は新幹線で東京に行きます"
//
//	# Print the effective configuration with the API key masked
//	kotoba validate --format yaml
//
//	# Show version information
//	kotoba version
package main

func main() {
	Execute()
}
