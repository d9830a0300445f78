package es

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/DjordjeVuckovic/article-fts/internal/apperr"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

const (
	backendName = "es"

	DefaultIndexName         = "articles"
	DefaultDynamicCandidates = 1000
)

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
	// DynamicCandidates caps how many matching documents SearchDynamic pulls
	// back for re-ranking.
	DynamicCandidates int
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.IndexName == "" {
		c.IndexName = DefaultIndexName
	}
	if c.DynamicCandidates <= 0 {
		c.DynamicCandidates = DefaultDynamicCandidates
	}
	return c
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewTypedClient(cfg)

	return client, err
}

// wrapErr annotates err with op. Transport failures and 5xx responses become
// apperr.StoreUnavailableError.
func wrapErr(op string, err error) error {
	wrapped := fmt.Errorf("%s: %w", op, err)
	if isUnavailable(err) {
		return apperr.NewStoreUnavailable(backendName, wrapped)
	}
	return wrapped
}

func isUnavailable(err error) bool {
	var esErr *types.ElasticsearchError
	if errors.As(err, &esErr) {
		return esErr.Status >= 500
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isNotFound(err error) bool {
	var esErr *types.ElasticsearchError
	return errors.As(err, &esErr) && esErr.Status == 404
}
