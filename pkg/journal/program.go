package journal

import "github.com/soljournal/journal_sdk_go/internal/swr"

// Program bundles the three public surfaces around one bound client. It is
// what a UI session holds: rebuild it whenever the connection or identity
// changes.
type Program struct {
	Client    *Client
	Queries   *Queries
	Mutations *Mutations
}

// ProgramOption configures a Program bundle.
type ProgramOption func(*programConfig)

type programConfig struct {
	cache    *swr.Cache
	notifier Notifier
}

// WithCache shares an existing cache between programs, e.g. across clusters.
func WithCache(cache *swr.Cache) ProgramOption {
	return func(pc *programConfig) {
		if cache != nil {
			pc.cache = cache
		}
	}
}

// WithNotifier installs the settlement notification sink.
func WithNotifier(n Notifier) ProgramOption {
	return func(pc *programConfig) {
		if n != nil {
			pc.notifier = n
		}
	}
}

// NewProgram binds a client and wires queries and mutations around it. When
// binding fails the bundle is still returned in its inert state: reads come
// back empty, writes fail with ErrNotBound.
func NewProgram(cfg Config, provider *Provider, opts ...ProgramOption) *Program {
	pc := &programConfig{}
	for _, opt := range opts {
		opt(pc)
	}
	if pc.cache == nil {
		pc.cache = swr.New()
	}

	client := Bind(cfg, provider)
	queries := NewQueries(client, pc.cache, cfg.Cluster)
	return &Program{
		Client:    client,
		Queries:   queries,
		Mutations: NewMutations(client, queries, pc.notifier),
	}
}
