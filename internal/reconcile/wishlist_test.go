package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/reconcile"
)

// mockWishlistRemote is a testify mock of reconcile.Remote for wishlist entries.
type mockWishlistRemote struct {
	mock.Mock
}

func (m *mockWishlistRemote) List(ctx context.Context) ([]domain.WishlistEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.WishlistEntry), args.Error(1)
}

func (m *mockWishlistRemote) Add(ctx context.Context, e domain.WishlistEntry) (domain.WishlistEntry, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(domain.WishlistEntry), args.Error(1)
}

func (m *mockWishlistRemote) Remove(ctx context.Context, e domain.WishlistEntry) error {
	return m.Called(ctx, e).Error(0)
}

var _ reconcile.Remote[domain.WishlistEntry] = (*mockWishlistRemote)(nil)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func confirmedEntry(itemID uuid.UUID, kind domain.ServiceType) domain.WishlistEntry {
	added := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	return domain.WishlistEntry{
		ID:      uuid.New(),
		Kind:    kind,
		Item:    domain.BookableItem{ID: itemID, Type: kind, Name: "Lakeside Cabin"},
		AddedAt: &added,
	}
}

func boolPtr(b bool) *bool { return &b }

func TestWishlist_ToggleAdd_Confirms(t *testing.T) {
	remote := &mockWishlistRemote{}
	itemID := uuid.New()
	confirmed := confirmedEntry(itemID, domain.ServiceStay)
	w := reconcile.NewWishlist(remote, quietLogger())

	remote.On("Add", mock.Anything, mock.MatchedBy(func(e domain.WishlistEntry) bool {
		return e.Item.ID == itemID && e.Kind == domain.ServiceStay
	})).Run(func(mock.Arguments) {
		// The placeholder is visible while the request is in flight.
		assert.Equal(t, reconcile.OptimisticPresent, w.State(itemID.String()))
		assert.True(t, w.Has(itemID))
	}).Return(confirmed, nil).Once()

	present, err := w.Toggle(context.Background(), itemID, nil, domain.ServiceStay)

	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, reconcile.ConfirmedPresent, w.State(itemID.String()))
	require.Len(t, w.Items(), 1)
	assert.Equal(t, confirmed.ID, w.Items()[0].ID)
	// The entry is now also addressable by its wishlist entry ID.
	assert.True(t, w.Has(confirmed.ID))
	remote.AssertExpectations(t)
}

func TestWishlist_AddThenRemove_ReturnsToAbsent(t *testing.T) {
	remote := &mockWishlistRemote{}
	itemID := uuid.New()
	confirmed := confirmedEntry(itemID, domain.ServiceTour)
	w := reconcile.NewWishlist(remote, quietLogger())

	remote.On("Add", mock.Anything, mock.Anything).Return(confirmed, nil).Once()
	remote.On("Remove", mock.Anything, confirmed).Run(func(mock.Arguments) {
		assert.Equal(t, reconcile.OptimisticAbsent, w.State(itemID.String()))
		assert.False(t, w.Has(itemID))
	}).Return(nil).Once()

	_, err := w.Toggle(context.Background(), itemID, nil, domain.ServiceTour)
	require.NoError(t, err)
	present, err := w.Toggle(context.Background(), itemID, nil, "")
	require.NoError(t, err)

	assert.False(t, present)
	assert.Equal(t, reconcile.Absent, w.State(itemID.String()))
	assert.Zero(t, w.Len())
	remote.AssertExpectations(t)
}

func TestWishlist_AddUnauthorized_RollsBack(t *testing.T) {
	remote := &mockWishlistRemote{}
	itemID := uuid.New()
	w := reconcile.NewWishlist(remote, quietLogger())

	remote.On("Add", mock.Anything, mock.Anything).
		Return(domain.WishlistEntry{}, fmt.Errorf("apiclient: POST /api/wishlist: %w", domain.ErrUnauthorized)).Once()

	present, err := w.Toggle(context.Background(), itemID, nil, domain.ServiceAdventure)

	require.Error(t, err)
	assert.False(t, present)
	assert.Equal(t, reconcile.Absent, w.State(itemID.String()))
	assert.Zero(t, w.Len())

	var f *reconcile.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, "Please log in to add favourites.", f.Message)
	assert.Equal(t, "add", f.Op)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestWishlist_RemoveFails_RestoresEntryInPlace(t *testing.T) {
	remote := &mockWishlistRemote{}
	first := confirmedEntry(uuid.New(), domain.ServiceStay)
	second := confirmedEntry(uuid.New(), domain.ServiceVehicleRental)
	third := confirmedEntry(uuid.New(), domain.ServiceTour)
	w := reconcile.NewWishlist(remote, quietLogger())

	remote.On("List", mock.Anything).Return([]domain.WishlistEntry{first, second, third}, nil).Once()
	remote.On("Remove", mock.Anything, second).Return(errors.New("503 service unavailable")).Once()
	require.NoError(t, w.Refresh(context.Background()))

	present, err := w.Toggle(context.Background(), second.Item.ID, nil, "")

	var f *reconcile.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, reconcile.WishlistMessages.Failed, f.Message)
	assert.True(t, present)
	assert.Equal(t, []domain.WishlistEntry{first, second, third}, w.Items())
	assert.Equal(t, reconcile.ConfirmedPresent, w.State(second.Item.ID.String()))
}

func TestWishlist_RemoveByEntryID(t *testing.T) {
	remote := &mockWishlistRemote{}
	entry := confirmedEntry(uuid.New(), domain.ServiceStay)
	w := reconcile.NewWishlist(remote, quietLogger())

	remote.On("List", mock.Anything).Return([]domain.WishlistEntry{entry}, nil).Once()
	remote.On("Remove", mock.Anything, entry).Return(nil).Once()
	require.NoError(t, w.Refresh(context.Background()))

	err := w.Remove(context.Background(), entry.ID.String())

	require.NoError(t, err)
	assert.False(t, w.Has(entry.Item.ID))
}

func TestWishlist_DesiredStateMatchingCurrentIsNoop(t *testing.T) {
	remote := &mockWishlistRemote{}
	entry := confirmedEntry(uuid.New(), domain.ServiceStay)
	w := reconcile.NewWishlist(remote, quietLogger())

	remote.On("List", mock.Anything).Return([]domain.WishlistEntry{entry}, nil).Once()
	require.NoError(t, w.Refresh(context.Background()))

	present, err := w.Toggle(context.Background(), entry.Item.ID, boolPtr(true), domain.ServiceStay)
	require.NoError(t, err)
	assert.True(t, present)

	absent, err := w.Toggle(context.Background(), uuid.New(), boolPtr(false), "")
	require.NoError(t, err)
	assert.False(t, absent)

	remote.AssertExpectations(t)
	remote.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	remote.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestWishlist_AddWithoutKind(t *testing.T) {
	w := reconcile.NewWishlist(&mockWishlistRemote{}, quietLogger())

	_, err := w.Toggle(context.Background(), uuid.New(), nil, "")

	assert.ErrorIs(t, err, reconcile.ErrKindRequired)
	assert.Zero(t, w.Len())
}

// A second toggle on the same item cancels the first request; the first
// response is discarded and the second one decides the final state.
func TestWishlist_RapidToggle_StaleResponseDiscarded(t *testing.T) {
	remote := &mockWishlistRemote{}
	itemID := uuid.New()
	w := reconcile.NewWishlist(remote, quietLogger())

	started := make(chan struct{})
	remote.On("Add", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		close(started)
		<-args.Get(0).(context.Context).Done()
	}).Return(domain.WishlistEntry{}, context.Canceled).Once()
	remote.On("Remove", mock.Anything, mock.Anything).Return(nil).Once()

	addErr := make(chan error, 1)
	go func() {
		_, err := w.Toggle(context.Background(), itemID, nil, domain.ServiceStay)
		addErr <- err
	}()
	<-started

	present, err := w.Toggle(context.Background(), itemID, nil, "")
	require.NoError(t, err)
	assert.False(t, present)

	select {
	case err := <-addErr:
		assert.ErrorIs(t, err, reconcile.ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("first toggle never returned")
	}
	assert.Equal(t, reconcile.Absent, w.State(itemID.String()))
	assert.Zero(t, w.Len())
}

func TestWishlist_RefreshFailure(t *testing.T) {
	remote := &mockWishlistRemote{}
	w := reconcile.NewWishlist(remote, quietLogger())
	remote.On("List", mock.Anything).Return([]domain.WishlistEntry(nil), domain.ErrUnauthorized).Once()

	err := w.Refresh(context.Background())

	var f *reconcile.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, "refresh", f.Op)
	assert.Equal(t, reconcile.WishlistMessages.Unauthorized, f.Message)
}

func TestWishlist_UpdateUnsupported(t *testing.T) {
	w := reconcile.NewWishlist(&mockWishlistRemote{}, quietLogger())

	err := w.Update(context.Background(), uuid.NewString(), func(e domain.WishlistEntry) domain.WishlistEntry { return e })

	assert.ErrorIs(t, err, reconcile.ErrUnsupported)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "absent", reconcile.Absent.String())
	assert.Equal(t, "optimistic-present", reconcile.OptimisticPresent.String())
	assert.Equal(t, "confirmed-present", reconcile.ConfirmedPresent.String())
	assert.Equal(t, "optimistic-absent", reconcile.OptimisticAbsent.String())
	assert.True(t, reconcile.OptimisticPresent.Present())
	assert.False(t, reconcile.OptimisticAbsent.Present())
}

// An add that is cancelled by a remove never reached the server. If the
// remove then fails, the list goes back to how it was before the add, not
// to the unconfirmed placeholder.
func TestWishlist_FailureAfterSupersededAdd_RestoresConfirmedState(t *testing.T) {
	remote := &mockWishlistRemote{}
	itemID := uuid.New()
	w := reconcile.NewWishlist(remote, quietLogger())

	started := make(chan struct{})
	remote.On("Add", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		close(started)
		<-args.Get(0).(context.Context).Done()
	}).Return(domain.WishlistEntry{}, context.Canceled).Once()
	remote.On("Remove", mock.Anything, mock.Anything).Return(errors.New("404 wishlist entry not found")).Once()

	addErr := make(chan error, 1)
	go func() {
		_, err := w.Toggle(context.Background(), itemID, nil, domain.ServiceStay)
		addErr <- err
	}()
	<-started

	present, err := w.Toggle(context.Background(), itemID, nil, "")

	var f *reconcile.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, "remove", f.Op)
	assert.False(t, present)
	assert.Equal(t, reconcile.Absent, w.State(itemID.String()))
	assert.Zero(t, w.Len())

	select {
	case err := <-addErr:
		assert.ErrorIs(t, err, reconcile.ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("first toggle never returned")
	}
	assert.Zero(t, w.Len())
}
