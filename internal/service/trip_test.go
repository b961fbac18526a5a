package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayabusatrip/gateway/internal/apiclient"
	"github.com/hayabusatrip/gateway/internal/domain"
	"github.com/hayabusatrip/gateway/internal/notify"
	"github.com/hayabusatrip/gateway/internal/service"
	"github.com/hayabusatrip/gateway/internal/session"
)

// ---- mocks -----------------------------------------------------------------

// mockTripAPI is a hand-written test double for apiclient.TripAPI.
// Set only the method fields your test needs.
type mockTripAPI struct {
	getTrips       func(ctx context.Context, idToken, uid string) ([]domain.Trip, error)
	getTrip        func(ctx context.Context, idToken string, id int) (domain.Trip, error)
	getTripByToken func(ctx context.Context, token string) (domain.Trip, error)
	createTrip     func(ctx context.Context, idToken string, params domain.CreateTripParams) (domain.Trip, error)
	updateTrip     func(ctx context.Context, idToken, uid string, id int, patch domain.TripPatch, image *domain.ImageFile) (domain.Trip, error)
	deleteTrip     func(ctx context.Context, idToken string, id int) error
	deleteTripDate func(ctx context.Context, idToken string, id int, date string) (domain.Trip, error)
	copyTrip       func(ctx context.Context, idToken string, id int) (domain.Trip, error)
}

func (m *mockTripAPI) GetTrips(ctx context.Context, idToken, uid string) ([]domain.Trip, error) {
	if m.getTrips != nil {
		return m.getTrips(ctx, idToken, uid)
	}
	return nil, nil
}
func (m *mockTripAPI) GetTrip(ctx context.Context, idToken string, id int) (domain.Trip, error) {
	return m.getTrip(ctx, idToken, id)
}
func (m *mockTripAPI) GetTripByToken(ctx context.Context, token string) (domain.Trip, error) {
	return m.getTripByToken(ctx, token)
}
func (m *mockTripAPI) CreateTrip(ctx context.Context, idToken string, params domain.CreateTripParams) (domain.Trip, error) {
	return m.createTrip(ctx, idToken, params)
}
func (m *mockTripAPI) UpdateTrip(ctx context.Context, idToken, uid string, id int, patch domain.TripPatch, image *domain.ImageFile) (domain.Trip, error) {
	return m.updateTrip(ctx, idToken, uid, id, patch, image)
}
func (m *mockTripAPI) DeleteTrip(ctx context.Context, idToken string, id int) error {
	return m.deleteTrip(ctx, idToken, id)
}
func (m *mockTripAPI) DeleteTripDate(ctx context.Context, idToken string, id int, date string) (domain.Trip, error) {
	return m.deleteTripDate(ctx, idToken, id, date)
}
func (m *mockTripAPI) CopyTrip(ctx context.Context, idToken string, id int) (domain.Trip, error) {
	return m.copyTrip(ctx, idToken, id)
}

// compile-time check: mockTripAPI must satisfy apiclient.TripAPI.
var _ apiclient.TripAPI = (*mockTripAPI)(nil)

// mockNotifier records every (severity, message) pair it receives.
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockNotifier) Notify(_ notify.Severity, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
}

func (m *mockNotifier) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return ""
	}
	return m.messages[len(m.messages)-1]
}

var _ notify.Notifier = (*mockNotifier)(nil)

// ---- helpers ---------------------------------------------------------------

func storedTrip(id int, public bool) domain.Trip {
	return domain.Trip{
		ID:           id,
		UserID:       1,
		PrefectureID: 1,
		Title:        "北海道旅行",
		StartDate:    "2023-07-01",
		EndDate:      "2023-07-02",
		IsPublic:     public,
		TripToken:    "tok",
	}
}

func validCreateParams() domain.CreateTripParams {
	return domain.CreateTripParams{
		UserID:       1,
		PrefectureID: 48,
		Title:        "海外旅行",
		StartDate:    "2023-08-01",
		EndDate:      "2023-08-02",
	}
}

func loadedSession(trips ...domain.Trip) *session.Session {
	sess := session.New("uidMock")
	sess.Bootstrap(trips)
	return sess
}

// ---- Create ----------------------------------------------------------------

func TestTripService_Create_AppendsConfirmedRecord(t *testing.T) {
	sess := loadedSession(storedTrip(1, true))

	stored := storedTrip(2, false)
	stored.Title = "海外旅行"
	stored.PrefectureID = 48
	stored.TripToken = "tok-2"

	api := &mockTripAPI{
		createTrip: func(_ context.Context, _ string, p domain.CreateTripParams) (domain.Trip, error) {
			assert.Equal(t, "海外旅行", p.Title)
			assert.Equal(t, 48, p.PrefectureID)
			return stored, nil
		},
	}
	svc := service.NewTripService(api, &mockNotifier{})

	got, err := svc.Create(context.Background(), sess, "idTokenMock", validCreateParams())

	require.NoError(t, err)
	assert.Equal(t, 2, got.ID)
	assert.Equal(t, "tok-2", got.TripToken)

	raw := sess.Trips()
	require.Len(t, raw, 2)
	assert.Equal(t, 2, raw[1].ID) // appended at the end, exactly once
}

func TestTripService_Create_TitleRequired(t *testing.T) {
	svc := service.NewTripService(&mockTripAPI{}, &mockNotifier{})

	params := validCreateParams()
	params.Title = "   "
	_, err := svc.Create(context.Background(), loadedSession(), "tok", params)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_UnknownPrefecture(t *testing.T) {
	svc := service.NewTripService(&mockTripAPI{}, &mockNotifier{})

	params := validCreateParams()
	params.PrefectureID = 99
	_, err := svc.Create(context.Background(), loadedSession(), "tok", params)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_EndBeforeStart(t *testing.T) {
	svc := service.NewTripService(&mockTripAPI{}, &mockNotifier{})

	params := validCreateParams()
	params.StartDate, params.EndDate = "2023-08-02", "2023-08-01"
	_, err := svc.Create(context.Background(), loadedSession(), "tok", params)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_FailureLeavesCollectionUntouched(t *testing.T) {
	sess := loadedSession(storedTrip(1, true))
	notifier := &mockNotifier{}
	api := &mockTripAPI{
		createTrip: func(context.Context, string, domain.CreateTripParams) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrTripCreate
		},
	}
	svc := service.NewTripService(api, notifier)

	_, err := svc.Create(context.Background(), sess, "tok", validCreateParams())

	assert.ErrorIs(t, err, domain.ErrTripCreate)
	assert.Len(t, sess.Trips(), 1)
	assert.Equal(t, "旅行プランの作成に失敗しました。", notifier.last())
}

// ---- Update ----------------------------------------------------------------

func TestTripService_Update_ReplacesConfirmedRecord(t *testing.T) {
	sess := loadedSession(storedTrip(1, true), storedTrip(2, true))

	updated := storedTrip(1, true)
	updated.Title = "沖縄旅行"

	api := &mockTripAPI{
		updateTrip: func(_ context.Context, _, uid string, id int, patch domain.TripPatch, _ *domain.ImageFile) (domain.Trip, error) {
			assert.Equal(t, "uidMock", uid)
			assert.Equal(t, 1, id)
			require.NotNil(t, patch.Title)
			return updated, nil
		},
	}
	svc := service.NewTripService(api, &mockNotifier{})

	title := "沖縄旅行"
	got, err := svc.Update(context.Background(), sess, "tok", 1, domain.TripPatch{Title: &title}, nil)

	require.NoError(t, err)
	assert.Equal(t, "沖縄旅行", got.Title)
	assert.Equal(t, "沖縄旅行", sess.Trips()[0].Title)
	assert.Equal(t, 2, sess.Trips()[1].ID)
}

func TestTripService_Update_EmptyPatchRejected(t *testing.T) {
	svc := service.NewTripService(&mockTripAPI{}, &mockNotifier{})

	_, err := svc.Update(context.Background(), loadedSession(), "tok", 1, domain.TripPatch{}, nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Update_RejectsConcurrentMutationOnSameID(t *testing.T) {
	sess := loadedSession(storedTrip(1, true))
	require.NoError(t, sess.Begin(1)) // a prior mutation has not resolved

	svc := service.NewTripService(&mockTripAPI{}, &mockNotifier{})

	title := "x"
	_, err := svc.Update(context.Background(), sess, "tok", 1, domain.TripPatch{Title: &title}, nil)

	assert.ErrorIs(t, err, domain.ErrInFlight)
}

func TestTripService_Update_FailureLeavesCollectionUntouched(t *testing.T) {
	sess := loadedSession(storedTrip(1, true))
	notifier := &mockNotifier{}
	api := &mockTripAPI{
		updateTrip: func(context.Context, string, string, int, domain.TripPatch, *domain.ImageFile) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrTripUpdate
		},
	}
	svc := service.NewTripService(api, notifier)

	title := "x"
	_, err := svc.Update(context.Background(), sess, "tok", 1, domain.TripPatch{Title: &title}, nil)

	assert.ErrorIs(t, err, domain.ErrTripUpdate)
	assert.Equal(t, "北海道旅行", sess.Trips()[0].Title)
	assert.Equal(t, "旅行プランの更新に失敗しました。", notifier.last())

	// the in-flight mark must be released so the user can retry
	assert.NoError(t, sess.Begin(1))
}

// ---- Delete ----------------------------------------------------------------

func TestTripService_Delete_RemovesConfirmedRecord(t *testing.T) {
	sess := loadedSession(storedTrip(1, true), storedTrip(2, true))
	api := &mockTripAPI{
		deleteTrip: func(_ context.Context, _ string, id int) error {
			assert.Equal(t, 1, id)
			return nil
		},
	}
	svc := service.NewTripService(api, &mockNotifier{})

	require.NoError(t, svc.Delete(context.Background(), sess, "tok", 1))

	raw := sess.Trips()
	require.Len(t, raw, 1)
	assert.Equal(t, 2, raw[0].ID)
}

// A failed delete must leave the collection exactly as it was: no partial
// removal, and the fixed delete-failed message surfaces to the user.
func TestTripService_Delete_FailureLeavesCollectionUntouched(t *testing.T) {
	sess := loadedSession(storedTrip(1, true))
	notifier := &mockNotifier{}
	api := &mockTripAPI{
		deleteTrip: func(context.Context, string, int) error {
			return domain.ErrTripDelete
		},
	}
	svc := service.NewTripService(api, notifier)

	err := svc.Delete(context.Background(), sess, "tok", 1)

	assert.ErrorIs(t, err, domain.ErrTripDelete)
	assert.Len(t, sess.Trips(), 1)
	assert.Equal(t, "旅行プランの削除に失敗しました。", notifier.last())
}

// ---- DeleteDate ------------------------------------------------------------

func TestTripService_DeleteDate_ReconcilesShrunkenTrip(t *testing.T) {
	sess := loadedSession(storedTrip(1, true))

	shrunk := storedTrip(1, true)
	shrunk.EndDate = "2023-07-01"

	api := &mockTripAPI{
		deleteTripDate: func(_ context.Context, _ string, id int, date string) (domain.Trip, error) {
			assert.Equal(t, 1, id)
			assert.Equal(t, "2023-07-02", date)
			return shrunk, nil
		},
	}
	svc := service.NewTripService(api, &mockNotifier{})

	got, err := svc.DeleteDate(context.Background(), sess, "tok", 1, "2023-07-02")

	require.NoError(t, err)
	assert.Equal(t, "2023-07-01", got.EndDate)
	assert.Equal(t, "2023-07-01", sess.Trips()[0].EndDate)
}

func TestTripService_DeleteDate_InvalidDate(t *testing.T) {
	svc := service.NewTripService(&mockTripAPI{}, &mockNotifier{})

	_, err := svc.DeleteDate(context.Background(), loadedSession(), "tok", 1, "07-02")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Copy ------------------------------------------------------------------

func TestTripService_Copy_AppendsReturnedCopy(t *testing.T) {
	sess := loadedSession(storedTrip(1, true))

	dup := storedTrip(2, true)
	dup.TripToken = "tok-2"

	api := &mockTripAPI{
		copyTrip: func(_ context.Context, _ string, id int) (domain.Trip, error) {
			assert.Equal(t, 1, id)
			return dup, nil
		},
	}
	svc := service.NewTripService(api, &mockNotifier{})

	got, err := svc.Copy(context.Background(), sess, "tok", 1)

	require.NoError(t, err)
	assert.Equal(t, 2, got.ID)

	raw := sess.Trips()
	require.Len(t, raw, 2)
	assert.Equal(t, "tok-2", raw[1].TripToken)
}

func TestTripService_Copy_FailureLeavesCollectionUntouched(t *testing.T) {
	sess := loadedSession(storedTrip(1, true))
	notifier := &mockNotifier{}
	api := &mockTripAPI{
		copyTrip: func(context.Context, string, int) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrTripCopy
		},
	}
	svc := service.NewTripService(api, notifier)

	_, err := svc.Copy(context.Background(), sess, "tok", 1)

	assert.ErrorIs(t, err, domain.ErrTripCopy)
	assert.Len(t, sess.Trips(), 1)
	assert.Equal(t, "旅行プランのコピーに失敗しました。", notifier.last())
}

// ---- List ------------------------------------------------------------------

func TestTripService_List_BootstrapsOnce(t *testing.T) {
	calls := 0
	api := &mockTripAPI{
		getTrips: func(_ context.Context, idToken, uid string) ([]domain.Trip, error) {
			calls++
			assert.Equal(t, "idTokenMock", idToken)
			assert.Equal(t, "uidMock", uid)
			return []domain.Trip{storedTrip(1, true)}, nil
		},
	}
	svc := service.NewTripService(api, &mockNotifier{})
	sess := session.New("uidMock")

	_, _, err := svc.List(context.Background(), sess, "idTokenMock", domain.FilterSpec{}, nil, 12)
	require.NoError(t, err)
	_, _, err = svc.List(context.Background(), sess, "idTokenMock", domain.FilterSpec{}, nil, 12)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestTripService_List_FilterChangeResetsPage(t *testing.T) {
	all := make([]domain.Trip, 20)
	for i := range all {
		all[i] = storedTrip(i+1, true)
	}
	sess := loadedSession(all...)
	svc := service.NewTripService(&mockTripAPI{}, &mockNotifier{})

	one := 1
	_, meta, err := svc.List(context.Background(), sess, "tok", domain.FilterSpec{}, &one, 12)
	require.NoError(t, err)
	require.Equal(t, 1, meta.Page)

	// a new spec wins over the requested page index
	_, meta, err = svc.List(context.Background(), sess, "tok", domain.FilterSpec{Status: domain.FilterPublic}, nil, 12)
	require.NoError(t, err)
	assert.Equal(t, 0, meta.Page)
	assert.Equal(t, 20, meta.TotalItems)
	assert.Equal(t, 2, meta.TotalPages)
}

func TestTripService_List_BootstrapFailure(t *testing.T) {
	notifier := &mockNotifier{}
	api := &mockTripAPI{
		getTrips: func(context.Context, string, string) ([]domain.Trip, error) {
			return nil, domain.ErrTripFetch
		},
	}
	svc := service.NewTripService(api, notifier)

	_, _, err := svc.List(context.Background(), session.New("uidMock"), "tok", domain.FilterSpec{}, nil, 12)

	assert.ErrorIs(t, err, domain.ErrTripFetch)
	assert.Equal(t, "旅行プランの取得に失敗しました。", notifier.last())
}
