package usecase_test

import (
	. "github.com/dallasheidt14/PitchRank-sub004/internal/usecase"

	"errors"
	"testing"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/review"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
)

func enqueueEntry(t *testing.T, fx *resolverFixture, candidateID string) review.Entry {
	t.Helper()

	entry, err := fx.reviews.Enqueue(t.Context(), review.Entry{
		Provider:         "gotsport",
		ProviderTeamID:   "gs-55",
		ProviderTeamName: "Lonestarr",
		AgeGroup:         "U14",
		Gender:           "F",
		CandidateTeamID:  candidateID,
		Confidence:       0.82,
		Status:           alias.StatusPending,
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	return entry
}

func newReviewService(fx *resolverFixture) *ReviewService {
	return NewReviewService(fx.reviews, fx.aliases, fx.teams, testLogger())
}

func TestReviewApprove(t *testing.T) {
	fx := newResolverFixture(t, []team.Team{
		{ID: "canonical-1", Name: "Lonestar", AgeGroup: "U14", Gender: "F"},
	})
	svc := newReviewService(fx)
	entry := enqueueEntry(t, fx, "canonical-1")

	decided, err := svc.Approve(t.Context(), entry.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if decided.Status != alias.StatusApproved {
		t.Fatalf("status = %s, want approved", decided.Status)
	}

	recorded, found, err := fx.aliases.FindApproved(t.Context(), "gotsport", "gs-55")
	if err != nil || !found {
		t.Fatalf("approved alias missing (found=%v err=%v)", found, err)
	}
	if recorded.CanonicalTeamID != "canonical-1" || recorded.Method != alias.MethodFuzzyReviewed {
		t.Fatalf("recorded alias %+v", recorded)
	}
	if recorded.Confidence != 0.82 {
		t.Fatalf("confidence = %v, want the review-time score", recorded.Confidence)
	}

	pending, _ := fx.reviews.ListPending(t.Context(), 10)
	if len(pending) != 0 {
		t.Fatalf("entry still pending: %+v", pending)
	}
}

func TestReviewApprove_RedirectsMergedCandidate(t *testing.T) {
	fx := newResolverFixture(t, []team.Team{
		{ID: "survivor", Name: "Lonestar", AgeGroup: "U14", Gender: "F"},
		{ID: "absorbed", Name: "Lonestar II", AgeGroup: "U14", Gender: "F",
			Deprecated: true, MergedInto: "survivor"},
	})
	svc := newReviewService(fx)
	entry := enqueueEntry(t, fx, "absorbed")

	if _, err := svc.Approve(t.Context(), entry.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	recorded, found, _ := fx.aliases.FindApproved(t.Context(), "gotsport", "gs-55")
	if !found || recorded.CanonicalTeamID != "survivor" {
		t.Fatalf("approval should land on the surviving team, got %+v", recorded)
	}
}

func TestReviewApprove_Failures(t *testing.T) {
	fx := newResolverFixture(t, []team.Team{
		{ID: "orphaned", Name: "No Pointer", AgeGroup: "U14", Gender: "F"},
	})
	svc := newReviewService(fx)

	t.Run("unknown entry", func(t *testing.T) {
		if _, err := svc.Approve(t.Context(), 9999); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("no candidate", func(t *testing.T) {
		entry := enqueueEntry(t, fx, "")
		if _, err := svc.Approve(t.Context(), entry.ID); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("missing candidate team", func(t *testing.T) {
		entry := enqueueEntry(t, fx, "no-such-team")
		if _, err := svc.Approve(t.Context(), entry.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("already decided", func(t *testing.T) {
		entry := enqueueEntry(t, fx, "orphaned")
		if _, err := svc.Approve(t.Context(), entry.ID); err != nil {
			t.Fatalf("first approve: %v", err)
		}
		if _, err := svc.Approve(t.Context(), entry.ID); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput on re-decide", err)
		}
	})
}

func TestReviewReject(t *testing.T) {
	fx := newResolverFixture(t, []team.Team{
		{ID: "canonical-1", Name: "Lonestar", AgeGroup: "U14", Gender: "F"},
	})
	svc := newReviewService(fx)
	entry := enqueueEntry(t, fx, "canonical-1")

	decided, err := svc.Reject(t.Context(), entry.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if decided.Status != alias.StatusRejected {
		t.Fatalf("status = %s, want rejected", decided.Status)
	}

	// Rejection leaves the provider reference unmapped.
	if _, found, _ := fx.aliases.FindApproved(t.Context(), "gotsport", "gs-55"); found {
		t.Fatal("rejected entry must not record an alias")
	}

	if _, err := svc.Reject(t.Context(), entry.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("re-reject err = %v, want ErrInvalidInput", err)
	}
}

func TestReviewListPending_DefaultsLimit(t *testing.T) {
	fx := newResolverFixture(t, nil)
	svc := newReviewService(fx)

	entry := enqueueEntry(t, fx, "")
	entries, err := svc.ListPending(t.Context(), 0)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != entry.ID {
		t.Fatalf("entries %+v", entries)
	}
}
