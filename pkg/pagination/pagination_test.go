package pagination

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/honeycarbs/atsbridge/pkg/logging"
)

func observedLogger() (*logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logging.FromZap(zap.New(core)), logs
}

func linkTo(page int) http.Header {
	h := http.Header{}
	h.Set("Link", fmt.Sprintf(`<https://harvest.example.com/v1/jobs?page=%d&per_page=2>; rel="next", <https://harvest.example.com/v1/jobs?page=9&per_page=2>; rel="last"`, page))
	return h
}

func TestPaginate_FollowsNextLinksInOrder(t *testing.T) {
	pages := [][]int{{1, 2}, {3, 4}, {5}}
	var seen []url.Values

	fetch := func(_ context.Context, params url.Values) ([]int, http.Header, error) {
		seen = append(seen, params)
		idx := len(seen) - 1
		if idx < len(pages)-1 {
			return pages[idx], linkTo(idx + 2), nil
		}
		return pages[idx], http.Header{}, nil
	}

	items, err := Paginate(context.Background(), &Pager{PageSize: 2}, fetch, url.Values{"status": {"open"}})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, items)
	require.Len(t, seen, 3)
	assert.Equal(t, "open", seen[0].Get("status"))
	assert.Equal(t, "2", seen[0].Get("per_page"))
	assert.Equal(t, "2", seen[1].Get("page"))
	assert.Equal(t, "3", seen[2].Get("page"))
	assert.Empty(t, seen[1].Get("status"), "next page params come only from the link")
}

func TestPaginate_CallerPageSizeWins(t *testing.T) {
	var got url.Values
	fetch := func(_ context.Context, params url.Values) ([]int, http.Header, error) {
		got = params
		return nil, nil, nil
	}

	_, err := Paginate(context.Background(), NewPager(100, nil), fetch, url.Values{"per_page": {"1"}})
	require.NoError(t, err)
	assert.Equal(t, "1", got.Get("per_page"))
}

func TestPaginate_StopsAtMaxPagesWithWarning(t *testing.T) {
	logger, logs := observedLogger()
	calls := 0

	fetch := func(_ context.Context, _ url.Values) ([]string, http.Header, error) {
		calls++
		return []string{fmt.Sprint(calls)}, linkTo(calls + 1), nil
	}

	items, err := Paginate(context.Background(), &Pager{MaxPages: 4, Logger: logger}, fetch, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, calls)
	assert.Equal(t, []string{"1", "2", "3", "4"}, items)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("reached max page limit")
	assert.Equal(t, 1, warnings.Len())
}

func TestPaginate_PageErrorAborts(t *testing.T) {
	boom := errors.New("page failed")
	calls := 0
	fetch := func(_ context.Context, _ url.Values) ([]int, http.Header, error) {
		calls++
		if calls == 2 {
			return nil, nil, boom
		}
		return []int{calls}, linkTo(calls + 1), nil
	}

	items, err := Paginate(context.Background(), nil, fetch, nil)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, items)
}

func TestNextLink(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		want   string
		ok     bool
	}{
		{
			name:   "next and last",
			header: http.Header{"Link": {`<https://a/x?page=2>; rel="next", <https://a/x?page=5>; rel="last"`}},
			want:   "https://a/x?page=2",
			ok:     true,
		},
		{
			name:   "lowercase key",
			header: http.Header{"link": {`<https://a/x?page=3>; rel="next"`}},
			want:   "https://a/x?page=3",
			ok:     true,
		},
		{
			name:   "only prev",
			header: http.Header{"Link": {`<https://a/x?page=1>; rel="prev"`}},
		},
		{
			name:   "missing",
			header: http.Header{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextLink(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextParams_KeepsMultiValuedKeys(t *testing.T) {
	h := http.Header{"Link": {`<https://a/x?page=2&office_id=1&office_id=2&since=2024-01-01T00%3A00%3A00Z>; rel="next"`}}

	params, ok := NextParams(h)
	require.True(t, ok)
	assert.Equal(t, "2", params.Get("page"))
	assert.Equal(t, []string{"1", "2"}, params["office_id"])
	assert.Equal(t, "2024-01-01T00:00:00Z", params.Get("since"))
}

func TestPaginateCursor(t *testing.T) {
	pages := map[string]struct {
		items []string
		next  string
	}{
		"":   {items: []string{"a", "b"}, next: "c1"},
		"c1": {items: []string{"c"}, next: "c2"},
		"c2": {items: []string{"d"}},
	}

	fetch := func(_ context.Context, cursor string) ([]string, string, error) {
		p := pages[cursor]
		return p.items, p.next, nil
	}

	items, err := PaginateCursor(context.Background(), nil, fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, items)
}

func TestPaginateCursor_MaxPages(t *testing.T) {
	logger, logs := observedLogger()
	calls := 0
	fetch := func(_ context.Context, _ string) ([]int, string, error) {
		calls++
		return []int{calls}, "more", nil
	}

	items, err := PaginateCursor(context.Background(), &Pager{MaxPages: 3, Logger: logger}, fetch)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, items)
	assert.Equal(t, 1, logs.FilterMessage("reached max page limit").Len())
}

func TestPaginateOffset(t *testing.T) {
	data := make([]int, 25)
	for i := range data {
		data[i] = i
	}

	var offsets []int
	fetch := func(_ context.Context, offset, limit int) ([]int, int, error) {
		offsets = append(offsets, offset)
		end := min(offset+limit, len(data))
		if offset >= len(data) {
			return nil, len(data), nil
		}
		return data[offset:end], len(data), nil
	}

	t.Run("stops at total", func(t *testing.T) {
		offsets = nil
		items, err := PaginateOffset(context.Background(), fetch, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, data, items)
		assert.Equal(t, []int{0, 10, 20}, offsets)
	})

	t.Run("bounded by max items", func(t *testing.T) {
		offsets = nil
		items, err := PaginateOffset(context.Background(), fetch, 10, 15)
		require.NoError(t, err)
		assert.Len(t, items, 20)
		assert.Equal(t, []int{0, 10}, offsets)
	})

	t.Run("empty page stops", func(t *testing.T) {
		calls := 0
		empty := func(_ context.Context, _, _ int) ([]int, int, error) {
			calls++
			return nil, 100, nil
		}
		items, err := PaginateOffset(context.Background(), empty, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Equal(t, 1, calls)
	})
}
