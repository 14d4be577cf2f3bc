package draft

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiloazul/tailor-api/internal/model"
	apperrors "github.com/hiloazul/tailor-api/pkg/errors"
)

type fakeDraftRepo struct {
	drafts map[uuid.UUID]*model.DraftOrder
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: make(map[uuid.UUID]*model.DraftOrder)}
}

func (r *fakeDraftRepo) Save(_ context.Context, draft *model.DraftOrder) error {
	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
		draft.CreatedAt = time.Now()
	}
	draft.LastModified = time.Now()
	r.drafts[draft.ID] = draft
	return nil
}

func (r *fakeDraftRepo) Get(_ context.Context, id uuid.UUID) (*model.DraftOrder, error) {
	draft, ok := r.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft %s not found", id)
	}
	return draft, nil
}

func (r *fakeDraftRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*model.DraftOrder, error) {
	var out []*model.DraftOrder
	for _, d := range r.drafts {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDraftRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.drafts, id)
	return nil
}

func (r *fakeDraftRepo) DeleteModifiedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, d := range r.drafts {
		if d.LastModified.Before(cutoff) {
			delete(r.drafts, id)
			n++
		}
	}
	return n, nil
}

func TestSaveCreatesAndOverwrites(t *testing.T) {
	repo := newFakeDraftRepo()
	svc := NewService(repo)
	owner := uuid.New()

	draft, err := svc.Save(context.Background(), owner, nil, &model.SaveDraftRequest{
		CurrentStep: 0,
		Payload: model.DraftPayload{
			Customer: &model.CreateCustomerRequest{FirstName: "Marta", LastName: "Reyes", Email: "marta@example.com", Phone: "555-0101"},
		},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, draft.ID)
	created := draft.CreatedAt

	// Autosave at a later wizard step overwrites in place.
	updated, err := svc.Save(context.Background(), owner, &draft.ID, &model.SaveDraftRequest{
		CurrentStep: 2,
		Payload:     model.DraftPayload{Notes: "rush job"},
	})
	require.NoError(t, err)
	assert.Equal(t, draft.ID, updated.ID)
	assert.Equal(t, 2, updated.CurrentStep)
	assert.Equal(t, created, updated.CreatedAt)
}

func TestDraftOwnership(t *testing.T) {
	repo := newFakeDraftRepo()
	svc := NewService(repo)
	owner := uuid.New()
	intruder := uuid.New()

	draft, err := svc.Save(context.Background(), owner, nil, &model.SaveDraftRequest{})
	require.NoError(t, err)

	var appErr *apperrors.AppError

	_, err = svc.Get(context.Background(), intruder, draft.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)

	_, err = svc.Save(context.Background(), intruder, &draft.ID, &model.SaveDraftRequest{})
	require.ErrorAs(t, err, &appErr)

	err = svc.Delete(context.Background(), intruder, draft.ID)
	require.ErrorAs(t, err, &appErr)

	// The rightful owner still gets through.
	got, err := svc.Get(context.Background(), owner, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
	require.NoError(t, svc.Delete(context.Background(), owner, draft.ID))
}

func TestPurgeStale(t *testing.T) {
	repo := newFakeDraftRepo()
	svc := NewService(repo)

	fresh := &model.DraftOrder{ID: uuid.New(), OwnerID: uuid.New(), LastModified: time.Now()}
	stale := &model.DraftOrder{ID: uuid.New(), OwnerID: uuid.New(), LastModified: time.Now().Add(-RetentionPeriod - time.Hour)}
	repo.drafts[fresh.ID] = fresh
	repo.drafts[stale.ID] = stale

	purged, err := svc.PurgeStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
	assert.Contains(t, repo.drafts, fresh.ID)
	assert.NotContains(t, repo.drafts, stale.ID)
}
