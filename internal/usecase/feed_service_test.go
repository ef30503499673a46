package usecase_test

import (
	. "github.com/dallasheidt14/PitchRank-sub004/internal/usecase"

	"context"
	"errors"
	"testing"
	"time"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/game"
)

type stubFeed struct {
	records []game.ProviderRecord
	err     error

	gotProvider string
	gotSince    time.Time
}

func (f *stubFeed) FetchResults(_ context.Context, provider string, since time.Time) ([]game.ProviderRecord, error) {
	f.gotProvider = provider
	f.gotSince = since
	return f.records, f.err
}

func newFeedFixture(t *testing.T, feed FeedClient) *FeedService {
	t.Helper()

	fx := newIngestFixture(t, nil, ConflictPolicyFlag)
	return NewFeedService(feed, fx.service, testLogger())
}

func TestPullProvider_IngestsFetchedRows(t *testing.T) {
	t.Parallel()

	feed := &stubFeed{records: perspectivePair(matchDate)}
	service := newFeedFixture(t, feed)

	since := matchDate.AddDate(0, 0, -7)
	report, err := service.PullProvider(context.Background(), "gotsport", since)
	if err != nil {
		t.Fatalf("pull provider: %v", err)
	}

	if feed.gotProvider != "gotsport" || !feed.gotSince.Equal(since) {
		t.Fatalf("feed called with provider=%q since=%v", feed.gotProvider, feed.gotSince)
	}
	if report.Processed != 2 || report.Accepted != 1 || report.Duplicates != 1 {
		t.Fatalf("report %+v, want both perspectives collapsed into one game", report)
	}
}

func TestPullProvider_FetchFailurePropagates(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("gateway down")
	service := newFeedFixture(t, &stubFeed{err: fetchErr})

	if _, err := service.PullProvider(context.Background(), "gotsport", time.Time{}); !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch failure to propagate, got %v", err)
	}
}

func TestPullProvider_RequiresConfiguredFeed(t *testing.T) {
	t.Parallel()

	service := newFeedFixture(t, nil)

	if _, err := service.PullProvider(context.Background(), "gotsport", time.Time{}); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestPullProvider_RequiresProvider(t *testing.T) {
	t.Parallel()

	service := newFeedFixture(t, &stubFeed{})

	if _, err := service.PullProvider(context.Background(), "  ", time.Time{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
