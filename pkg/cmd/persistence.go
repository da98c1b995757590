// Package cmd provides shared initialization helpers for the binaries.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/ecoreach/contentflow/pkg/persistence"
	"github.com/ecoreach/contentflow/pkg/persistence/memory"
	"github.com/ecoreach/contentflow/pkg/persistence/postgresql"
	"github.com/ecoreach/contentflow/pkg/persistence/postgrest"
)

// NewStore builds the persistence adapter from the database URL scheme:
// postgres:// selects the SQL adapter, postgrest+http(s):// the REST
// adapter, memory:// the in-memory store.
func NewStore(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Store, error) {
	scheme, rest, found := strings.Cut(databaseURL, "://")
	if !found {
		return nil, fmt.Errorf("invalid database url %q: missing scheme", databaseURL)
	}

	switch scheme {
	case "postgres", "postgresql":
		return postgresql.NewStore(ctx, logger, databaseURL)

	case "postgrest+http", "postgrest+https":
		baseURL := strings.TrimPrefix(scheme, "postgrest+") + "://" + rest

		parsed, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid postgrest url: %w", err)
		}

		return postgrest.NewStore(parsed.String(), os.Getenv("POSTGREST_API_KEY"), logger), nil

	case "memory":
		return memory.NewSeededStore(), nil

	default:
		return nil, fmt.Errorf("unsupported database url scheme %q", scheme)
	}
}
