package admin

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"userhub/infrastructure/apiclient"
	"userhub/infrastructure/metrics"
)

// Deleter makes sure one (kind, id) has at most one DELETE outstanding. Duplicate requests that
// arrive while it runs wait for and share its result.
type Deleter struct {
	group singleflight.Group

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewDeleter() *Deleter {
	return &Deleter{inflight: make(map[string]struct{})}
}

type deleteResult struct {
	resp apiclient.Response[json.RawMessage]
}

// Do runs fn unless a call for the same target is already running. fn gets a context that is not
// canceled with the caller's request, so a DELETE once issued runs to completion.
func (d *Deleter) Do(ctx context.Context, kind Kind, id int64, fn func(ctx context.Context) (apiclient.Response[json.RawMessage], error)) (apiclient.Response[json.RawMessage], error) {
	key := deleteKey(kind, id)

	d.mu.Lock()
	_, joining := d.inflight[key]
	if !joining {
		d.inflight[key] = struct{}{}
	}
	d.mu.Unlock()
	if joining {
		metrics.DeletesCoalescedTotal.WithLabelValues(metricKind(kind)).Inc()
	}

	detached := context.WithoutCancel(ctx)
	v, err, _ := d.group.Do(key, func() (any, error) {
		defer d.finish(key)
		resp, err := fn(detached)
		return deleteResult{resp: resp}, err
	})
	res, _ := v.(deleteResult)
	return res.resp, err
}

func (d *Deleter) finish(key string) {
	d.mu.Lock()
	delete(d.inflight, key)
	d.mu.Unlock()
}

// InFlight returns the ids of kind with a DELETE outstanding.
func (d *Deleter) InFlight(kind Kind) []int64 {
	prefix := string(kind) + ":"
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]int64, 0)
	for key := range d.inflight {
		if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
			continue
		}
		if id, err := strconv.ParseInt(key[len(prefix):], 10, 64); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func deleteKey(kind Kind, id int64) string {
	return string(kind) + ":" + strconv.FormatInt(id, 10)
}

func metricKind(kind Kind) string {
	if kind == KindDeleteRole {
		return "role"
	}
	return "user"
}
