package journal

import (
	"context"

	"github.com/golang/glog"

	"github.com/soljournal/journal_sdk_go/internal/swr"
	"github.com/soljournal/journal_sdk_go/pkg/keys"
)

// Cache key scopes. Every key also carries the cluster label, so identical
// logical requests on different networks never share a snapshot.
const (
	scopeListAll        = "journal-all"
	scopeFetchOne       = "journal-fetch"
	scopeProgramAccount = "program-account"
)

// Queries is the cached read surface. Read-path failures degrade: a nil
// client or any remote error yields an empty result plus a diagnostic log,
// never a raised error. The one exception is ProgramAccount, which surfaces
// transport failure because it probes infrastructure health, not business
// data.
type Queries struct {
	client  *Client
	cache   *swr.Cache
	cluster string
}

// NewQueries binds a read surface to a client and a cache. A nil client is
// accepted and short-circuits every read to its empty result.
func NewQueries(client *Client, cache *swr.Cache, cluster string) *Queries {
	if cache == nil {
		cache = swr.New()
	}
	if client != nil && client.Cluster() != "" {
		cluster = client.Cluster()
	}
	return &Queries{client: client, cache: cache, cluster: cluster}
}

func (q *Queries) listKey() swr.Key {
	return swr.Key{Scope: scopeListAll, Cluster: q.cluster}
}

func (q *Queries) entryKey(address keys.Address) swr.Key {
	return swr.Key{Scope: scopeFetchOne, Cluster: q.cluster, Extra: address.String()}
}

func (q *Queries) programKey() swr.Key {
	return swr.Key{Scope: scopeProgramAccount, Cluster: q.cluster}
}

// ListAll returns every known entry account, cached per cluster. An unbound
// client or a failed remote call returns an empty slice: "no data yet" and
// "no data ever" render the same.
func (q *Queries) ListAll(ctx context.Context) []EntryAccount {
	if q == nil || q.client == nil {
		return nil
	}
	res := q.cache.Fetch(ctx, q.listKey(), q.fetchAll)
	list, _ := swr.Data[[]EntryAccount](res)
	return list
}

func (q *Queries) fetchAll(ctx context.Context) swr.Result {
	list, err := q.client.FetchAll(ctx)
	if err != nil {
		glog.Warningf("journal: list read degraded to empty on cluster %q: %v", q.cluster, err)
		return swr.Fail(err)
	}
	return swr.Ok(list)
}

// FetchOne returns the entry account at the given derived address, cached per
// (cluster, address). Absent accounts and read failures both yield nil.
func (q *Queries) FetchOne(ctx context.Context, address keys.Address) *EntryAccount {
	if q == nil || q.client == nil {
		return nil
	}
	res := q.cache.Fetch(ctx, q.entryKey(address), func(ctx context.Context) swr.Result {
		account, err := q.client.FetchOne(ctx, address)
		if err != nil {
			glog.Warningf("journal: fetch read degraded to absent for %s: %v", address, err)
			return swr.Fail(err)
		}
		if account == nil {
			return swr.Empty()
		}
		return swr.Ok(account)
	})
	account, _ := swr.Data[*EntryAccount](res)
	return account
}

// ProgramAccount probes whether the program is provisioned on the connected
// network. A missing program yields (nil, nil); a transport failure is
// surfaced so callers can tell "not deployed here" from "network down".
func (q *Queries) ProgramAccount(ctx context.Context) (*AccountInfo, error) {
	if q == nil || q.client == nil {
		return nil, ErrNotBound
	}
	res := q.cache.Fetch(ctx, q.programKey(), func(ctx context.Context) swr.Result {
		info, err := q.client.ProgramAccount(ctx)
		if err != nil {
			return swr.Fail(err)
		}
		if info == nil {
			return swr.Empty()
		}
		return swr.Ok(info)
	})
	switch res.Status {
	case swr.StatusTransportError:
		return nil, res.Err
	case swr.StatusEmpty:
		return nil, nil
	default:
		info, _ := swr.Data[*AccountInfo](res)
		return info, nil
	}
}

// RefreshAll drops and refetches the list snapshot for the current cluster.
// Called by the mutation orchestrator on settlement so the next render
// reflects the ledger, not the pre-mutation cache.
func (q *Queries) RefreshAll(ctx context.Context) {
	if q == nil || q.client == nil {
		return
	}
	q.cache.Refresh(ctx, q.listKey(), q.fetchAll)
}

// RefreshEntry refetches the snapshot of a single entry address.
func (q *Queries) RefreshEntry(ctx context.Context, address keys.Address) {
	if q == nil || q.client == nil {
		return
	}
	q.cache.Refresh(ctx, q.entryKey(address), func(ctx context.Context) swr.Result {
		account, err := q.client.FetchOne(ctx, address)
		if err != nil {
			return swr.Fail(err)
		}
		if account == nil {
			return swr.Empty()
		}
		return swr.Ok(account)
	})
}

// InvalidateAll drops the cached list snapshot for the current cluster.
func (q *Queries) InvalidateAll() {
	if q == nil {
		return
	}
	q.cache.Invalidate(q.listKey())
}

// InvalidateEntry drops the cached snapshot of a single entry address.
func (q *Queries) InvalidateEntry(address keys.Address) {
	if q == nil {
		return
	}
	q.cache.Invalidate(q.entryKey(address))
}
