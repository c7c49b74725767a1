package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

const (
	// WarmupSource identifies scheduled warmup events.
	WarmupSource = "warmup"

	// WarmupDelay keeps this instance busy long enough for the self
	// invocations to land on other instances.
	WarmupDelay = 75 * time.Millisecond

	// MaxWarmupConcurrency caps self invocations per warmup event.
	MaxWarmupConcurrency = 50
)

// WarmupEvent is the scheduled event payload, e.g.
// {"source": "warmup", "concurrency": 3}.
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is returned for warmup invocations.
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// warmer starts additional warm instances.
type warmer interface {
	Invoke(ctx context.Context, count int, payload []byte) error
}

// IsWarmupEvent reports whether event is a warmup event. API Gateway
// payloads never carry a top-level "source" of "warmup".
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var probe struct {
		Source      *string  `json:"source"`
		Concurrency *float64 `json:"concurrency"`
	}
	if err := json.Unmarshal(event, &probe); err != nil {
		return nil, false
	}
	if probe.Source == nil || *probe.Source != WarmupSource {
		return nil, false
	}

	warmup := &WarmupEvent{Source: WarmupSource}
	if probe.Concurrency != nil && *probe.Concurrency > 0 {
		warmup.Concurrency = min(int(*probe.Concurrency), MaxWarmupConcurrency)
	}
	return warmup, true
}

// HandleWarmup answers a warmup event and, when Concurrency > 0, invokes
// the function that many more times asynchronously. Child invocations
// carry Concurrency 0 so they do not fan out again.
func HandleWarmup(ctx context.Context, warmup *WarmupEvent, w warmer, logger *slog.Logger) (WarmupResponse, error) {
	instancesWarmed := 1

	if warmup.Concurrency > 0 && w != nil {
		payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
		if err != nil {
			return WarmupResponse{}, err
		}

		if err := w.Invoke(ctx, warmup.Concurrency, payload); err != nil {
			logger.WarnContext(ctx, "warmup self-invocation failed", "error", err, "requested", warmup.Concurrency)
		} else {
			instancesWarmed += warmup.Concurrency
		}
	}

	select {
	case <-time.After(WarmupDelay):
	case <-ctx.Done():
	}

	logger.DebugContext(ctx, "warmup handled", "instances_warmed", instancesWarmed)
	return WarmupResponse{Status: "warm", InstancesWarmed: instancesWarmed}, nil
}

// selfInvoker invokes the running function through the Lambda API. The
// SDK client is created on first use so cold starts that never see a
// warmup event skip credential resolution.
type selfInvoker struct {
	functionName string

	once   sync.Once
	client *lambdasdk.Client
	err    error
}

func newSelfInvoker() *selfInvoker {
	return &selfInvoker{functionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME")}
}

func (s *selfInvoker) lambdaClient(ctx context.Context) (*lambdasdk.Client, error) {
	s.once.Do(func() {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			s.err = fmt.Errorf("failed to load AWS config: %w", err)
			return
		}
		s.client = lambdasdk.NewFromConfig(cfg)
	})
	return s.client, s.err
}

// Invoke sends count asynchronous invocations in parallel and returns the
// joined errors of those that failed.
func (s *selfInvoker) Invoke(ctx context.Context, count int, payload []byte) error {
	if s.functionName == "" {
		return errors.New("AWS_LAMBDA_FUNCTION_NAME is not set")
	}

	client, err := s.lambdaClient(ctx)
	if err != nil {
		return err
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for range count {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := client.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(s.functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}
