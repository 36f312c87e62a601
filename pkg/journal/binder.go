package journal

import (
	"strings"

	"github.com/golang/glog"

	"github.com/soljournal/journal_sdk_go/internal/rpcx"
	"github.com/soljournal/journal_sdk_go/pkg/keys"
)

// Config is the immutable deployment configuration for a bound client. The
// program id is injected here rather than read from a package-level constant
// so multiple deployments can coexist in one process.
type Config struct {
	// ProgramID identifies the deployed program instance to target.
	ProgramID keys.Address
	// Cluster labels the network the connection points at. It discriminates
	// every cache key, so snapshots never leak across networks.
	Cluster string
	// Schema overrides the published program interface. Zero value means
	// DefaultSchema.
	Schema *Schema
}

// Provider supplies the borrowed connection and the caller identity. The SDK
// never owns the connection lifecycle and never manages signing keys; the
// identity is just the address the external wallet signs as.
type Provider struct {
	// Endpoint is the ledger gateway URL. Ignored when Backend is set.
	Endpoint string
	// Backend overrides the HTTP transport, typically with a mock ledger.
	Backend Backend
	// Identity is the signing identity. Zero means read-only access.
	Identity keys.Address
	// Options configure the HTTP transport when Endpoint is used.
	Options []rpcx.Option
}

// Bind constructs a client from deployment configuration and a provider. It
// never panics and never returns an error: on any construction failure it
// logs the cause and returns nil, and every downstream operation treats a nil
// client as service-unavailable. Callers must re-bind whenever the provider's
// connection or identity changes; a stale client must not be reused across
// identity changes.
func Bind(cfg Config, provider *Provider) *Client {
	if provider == nil {
		glog.Warning("journal: bind failed: no provider")
		return nil
	}
	if cfg.ProgramID.IsZero() {
		glog.Warning("journal: bind failed: program id is not set")
		return nil
	}

	schema := DefaultSchema()
	if cfg.Schema != nil {
		schema = *cfg.Schema
	}
	if err := schema.Validate(); err != nil {
		glog.Warningf("journal: bind failed: %v", err)
		return nil
	}

	backend := provider.Backend
	if backend == nil {
		if strings.TrimSpace(provider.Endpoint) == "" {
			glog.Warning("journal: bind failed: no backend and no endpoint")
			return nil
		}
		rpcClient, err := rpcx.NewClient(provider.Endpoint, provider.Options...)
		if err != nil {
			glog.Warningf("journal: bind failed: %v", err)
			return nil
		}
		backend = &rpcBackend{client: rpcClient, schema: schema}
	}

	return &Client{
		backend:   backend,
		schema:    schema,
		programID: cfg.ProgramID,
		cluster:   cfg.Cluster,
		identity:  provider.Identity,
	}
}
