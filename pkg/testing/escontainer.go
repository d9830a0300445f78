package testing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"
)

const esImage = "docker.elastic.co/elasticsearch/elasticsearch:8.12.0"

// ESContainer is a single-node Elasticsearch with security disabled, reachable
// over plain HTTP at Address.
type ESContainer struct {
	Container testcontainers.Container
	Address   string
}

// StartESContainer starts Elasticsearch; the caller terminates it.
func StartESContainer(ctx context.Context) (*ESContainer, error) {
	c, err := elasticsearch.Run(ctx, esImage,
		elasticsearch.WithPassword(""),
		testcontainers.WithEnv(map[string]string{
			"xpack.security.enabled": "false",
			"ES_JAVA_OPTS":           "-Xms512m -Xmx512m",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/_cluster/health").
				WithPort("9200").
				WithStartupTimeout(90*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start elasticsearch container: %w", err)
	}

	endpoint, err := c.PortEndpoint(ctx, "9200/tcp", "http")
	if err != nil {
		_ = testcontainers.TerminateContainer(c)
		return nil, fmt.Errorf("failed to resolve elasticsearch endpoint: %w", err)
	}

	return &ESContainer{Container: c, Address: endpoint}, nil
}

// NewESContainer starts Elasticsearch for a single test and terminates it on cleanup.
func NewESContainer(ctx context.Context, tb testing.TB) *ESContainer {
	tb.Helper()

	c, err := StartESContainer(ctx)
	if err != nil {
		tb.Fatalf("%v", err)
	}
	tb.Cleanup(func() { terminate(tb, c.Container) })
	return c
}
