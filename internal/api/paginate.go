package api

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
)

// envelope is the wire shape of every paginated collection endpoint.
type envelope[T any] struct {
	Embedded []T `json:"_embedded"`
	Meta     struct {
		Total int `json:"total"`
	} `json:"_meta"`
}

// fetchAllPages retrieves every item behind a paginated endpoint. The first
// page reveals the total; the remaining pages are fetched through a worker
// pool capped at c.pageWorkers and appended in arrival order, so callers must
// not rely on ordering across pages. A response without the expected envelope
// yields an empty slice. Any single page failure aborts the whole fetch and
// discards partial results.
func fetchAllPages[T any](ctx context.Context, c *Client, endpoint string, params map[string]string, pageSize int) ([]T, error) {
	if pageSize <= 0 {
		pageSize = c.pageSize
	}

	pageParams := make(map[string]string, len(params)+2)
	for k, v := range params {
		pageParams[k] = v
	}
	pageParams["p"] = "1"
	pageParams["count"] = strconv.Itoa(pageSize)

	var first envelope[T]
	if err := c.get(ctx, endpoint, pageParams, &first); err != nil {
		return nil, err
	}
	if first.Embedded == nil {
		return []T{}, nil
	}

	items := first.Embedded
	total := first.Meta.Total
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages <= 1 {
		return items, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.pageWorkers)

	for page := 2; page <= totalPages; page++ {
		g.Go(func() error {
			params := make(map[string]string, len(pageParams))
			for k, v := range pageParams {
				params[k] = v
			}
			params["p"] = strconv.Itoa(page)

			var env envelope[T]
			if err := c.get(gctx, endpoint, params, &env); err != nil {
				return err
			}

			mu.Lock()
			items = append(items, env.Embedded...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}
