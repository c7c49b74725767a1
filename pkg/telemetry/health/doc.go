// Package health provides liveness and readiness endpoints for the relay.
//
// Liveness (/health) answers 200 as long as the process serves HTTP.
// Readiness (/ready) runs the registered checks and answers 503 when any
// of them fails. Checks never call the upstream API; provider health is
// derived from the outcome of real relay requests.
//
// # Usage
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("credential", health.CredentialCheck(client.HasCredential))
//	checker.RegisterCheck("openai", health.ProviderCheck(client))
//	checker.Register(mux, health.NewVersionInfo(version, commit, buildTime))
package health
