//go:build integration

package stream

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/kgstat/pkg/retry"
	"github.com/c360/kgstat/summary"
)

// integrationURL points at an externally provided NATS server.
func integrationURL() string {
	if url := os.Getenv("KGSTAT_NATS_URL"); url != "" {
		return url
	}
	return "nats://127.0.0.1:4222"
}

func TestIntegration_IngestRoundTrip(t *testing.T) {
	ctx := context.Background()

	client, err := NewClient(integrationURL(), WithRetryConfig(retry.Quick()))
	require.NoError(t, err)

	s := summary.New(summary.WithName("integration"))
	in := NewIngestor(IngestorDeps{
		Client:        client,
		Summary:       s,
		SubjectPrefix: "kgstat.test." + uuid.New().String(),
	})
	require.NoError(t, in.Start(ctx))

	publish := func(subject, payload string) {
		require.NoError(t, client.Publish(ctx, subject, []byte(payload)))
	}

	publish(in.NodeSubject(), `{"id":"HGNC:11603","category":["biolink:Gene"]}`)
	publish(in.NodeSubject(), `{"id":"MONDO:0005002","category":["biolink:Disease"]}`)
	time.Sleep(200 * time.Millisecond)
	publish(in.EdgeSubject(), `{"subject":"HGNC:11603","predicate":"biolink:affects","object":"MONDO:0005002"}`)
	time.Sleep(200 * time.Millisecond)
	publish(in.DoneSubject(), `{}`)

	select {
	case <-in.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("done signal not received")
	}

	require.NoError(t, in.Stop(10*time.Second))

	report := s.Report()
	assert.Equal(t, int64(2), report.NodeStats.TotalNodes)
	assert.Equal(t, int64(1), report.EdgeStats.TotalEdges)
	assert.Equal(t, int64(1), report.EdgeStats.CountBySPO["biolink:Gene|biolink:affects|biolink:Disease"].Count)
}
