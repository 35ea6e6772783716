package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
)

type mockEnrollmentStore struct {
	enrollments []models.Enrollment
	appendErr   error
	appended    []models.Enrollment
	deleted     []int
}

func (m *mockEnrollmentStore) ListByUnit(_ context.Context, unit string) ([]models.Enrollment, error) {
	filtered := make([]models.Enrollment, 0)
	for _, e := range m.enrollments {
		if e.Unit == unit {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (m *mockEnrollmentStore) GetByPosition(_ context.Context, position int) (*models.Enrollment, error) {
	for i := range m.enrollments {
		if m.enrollments[i].Position == position {
			return &m.enrollments[i], nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockEnrollmentStore) Append(_ context.Context, enrollment models.Enrollment) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, enrollment)
	return nil
}

func (m *mockEnrollmentStore) Delete(_ context.Context, position int) error {
	m.deleted = append(m.deleted, position)
	return nil
}

type mockModalityCatalog struct {
	modalities []models.Modality
}

func (m *mockModalityCatalog) ListByUnit(_ context.Context, unit string) ([]models.Modality, error) {
	filtered := make([]models.Modality, 0)
	for _, modality := range m.modalities {
		if modality.Unit == unit {
			filtered = append(filtered, modality)
		}
	}
	return filtered, nil
}

type mockArchiveStore struct {
	tombstones []models.Enrollment
}

func (m *mockArchiveStore) AppendTombstone(_ context.Context, enrollment models.Enrollment, _ string, _ time.Time) error {
	m.tombstones = append(m.tombstones, enrollment)
	return nil
}

type mockSeatCache struct {
	invalidated []string
}

func (m *mockSeatCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	return nil
}

type mockStudentDirectory struct {
	students []models.Student
}

func (m *mockStudentDirectory) ListByUnit(_ context.Context, unit string) ([]models.Student, error) {
	filtered := make([]models.Student, 0)
	for _, student := range m.students {
		if student.Unit == unit {
			filtered = append(filtered, student)
		}
	}
	return filtered, nil
}

func newTestEnrollmentService(store *mockEnrollmentStore, catalog *mockModalityCatalog) (*EnrollmentService, *mockArchiveStore, *mockSeatCache) {
	archive := &mockArchiveStore{}
	cache := &mockSeatCache{}
	students := &mockStudentDirectory{students: []models.Student{
		{RA: "RA1", Unit: "Campinas", Cohort: "3A", Name: "João"},
		{RA: "RA2", Unit: "Campinas", Cohort: "3A", Name: "Lia"},
		{RA: "RA3", Unit: "Campinas", Cohort: "3A", Name: "Bia"},
	}}
	svc := NewEnrollmentService(store, catalog, students, archive, cache, 3, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC) }
	return svc, archive, cache
}

func campinasCatalog() *mockModalityCatalog {
	return &mockModalityCatalog{modalities: []models.Modality{
		{Unit: "Campinas", Name: "Natação", Gender: "M/F", SeatLimit: 2, HasSeats: true},
		{Unit: "Campinas", Name: "Xadrez", Gender: "M/F", SeatLimit: 1, HasSeats: true},
		{Unit: "Campinas", Name: "Coral", Gender: "M/F", SeatLimit: models.UnlimitedSeats, HasSeats: true},
	}}
}

func sessionFor(picks map[string][]string) models.SelectionSession {
	session := models.SelectionSession{Unit: "Campinas", ActingUser: "maria"}
	for ra, p := range picks {
		session.Students = append(session.Students, models.StudentSelection{
			Student: models.Student{RA: ra, Unit: "Campinas", Cohort: "3A", Name: "Aluno " + ra},
			Picks:   p,
		})
	}
	return session
}

func TestCommitAllSucceed(t *testing.T) {
	store := &mockEnrollmentStore{}
	svc, _, cache := newTestEnrollmentService(store, campinasCatalog())

	session := models.SelectionSession{
		Unit:       "Campinas",
		ActingUser: "maria",
		Students: []models.StudentSelection{
			{Student: models.Student{RA: "RA1", Unit: "Campinas", Cohort: "3A", Name: "João"}, Picks: []string{"Natação", "Coral"}},
		},
	}

	result, err := svc.Commit(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, "2 succeeded, 0 failed", result.Summary)
	require.Len(t, store.appended, 2)
	assert.Equal(t, "30/08/2026 10:00:00", store.appended[0].Timestamp)
	assert.Equal(t, "Campinas", store.appended[0].ModalityUnit)
	assert.Equal(t, "maria", store.appended[0].EnrolledBy)
	require.Len(t, cache.invalidated, 1)
	assert.Equal(t, "seats:Campinas:*", cache.invalidated[0])
}

func TestCommitPartialWhenModalityRunsOut(t *testing.T) {
	// Three students pick a modality with two seats. The first two commit
	// in session order, the third fails, and the result says so.
	store := &mockEnrollmentStore{}
	svc, _, _ := newTestEnrollmentService(store, campinasCatalog())

	session := models.SelectionSession{
		Unit:       "Campinas",
		ActingUser: "maria",
		Students: []models.StudentSelection{
			{Student: models.Student{RA: "RA1", Unit: "Campinas", Cohort: "3A", Name: "João"}, Picks: []string{"Natação"}},
			{Student: models.Student{RA: "RA2", Unit: "Campinas", Cohort: "3A", Name: "Lia"}, Picks: []string{"Natação"}},
			{Student: models.Student{RA: "RA3", Unit: "Campinas", Cohort: "3A", Name: "Bia"}, Picks: []string{"Natação"}},
		},
	}

	result, err := svc.Commit(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, "2 succeeded, 1 failed", result.Summary)
	require.Len(t, result.Shortfalls, 1)
	assert.Equal(t, 1, result.Shortfalls[0].Shortfall)

	require.Len(t, result.Outcomes, 3)
	assert.True(t, result.Outcomes[0].Committed)
	assert.True(t, result.Outcomes[1].Committed)
	assert.False(t, result.Outcomes[2].Committed)
	assert.Equal(t, "RA3", result.Outcomes[2].Enrollment.RA)
}

func TestCommitFullModalityFailsEvenWhenForced(t *testing.T) {
	store := &mockEnrollmentStore{enrollments: []models.Enrollment{
		{Position: 2, Unit: "Campinas", RA: "RA9", Modality: "Xadrez"},
	}}
	svc, _, cache := newTestEnrollmentService(store, campinasCatalog())

	session := sessionFor(map[string][]string{"RA1": {"Xadrez"}})

	result, err := svc.Commit(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, store.appended)
	assert.Empty(t, cache.invalidated)
}

func TestCommitSkipsAlreadyCommittedPick(t *testing.T) {
	store := &mockEnrollmentStore{enrollments: []models.Enrollment{
		{Position: 2, Unit: "Campinas", RA: "RA1", Modality: "Natação"},
	}}
	svc, _, _ := newTestEnrollmentService(store, campinasCatalog())

	session := sessionFor(map[string][]string{"RA1": {"Natação", "Coral"}})

	result, err := svc.Commit(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "Natação", result.Skipped[0].Modality)
	require.Len(t, store.appended, 1)
	assert.Equal(t, "Coral", store.appended[0].Modality)
}

func TestCommitDuplicatePickExcludesStudent(t *testing.T) {
	store := &mockEnrollmentStore{}
	svc, _, _ := newTestEnrollmentService(store, campinasCatalog())

	session := sessionFor(map[string][]string{"RA1": {"Natação", "Natação"}})

	result, err := svc.Commit(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Succeeded)
	require.Len(t, result.Excluded, 1)
	assert.Equal(t, "RA1", result.Excluded[0].RA)
	assert.Empty(t, store.appended)
}

func TestCommitExcludesUnknownStudent(t *testing.T) {
	// Session identity is untrusted: an RA the directory does not know is
	// dropped before expansion, and a known RA's row carries the directory's
	// name and cohort rather than whatever the client sent.
	store := &mockEnrollmentStore{}
	svc, _, _ := newTestEnrollmentService(store, campinasCatalog())

	session := models.SelectionSession{
		Unit:       "Campinas",
		ActingUser: "maria",
		Students: []models.StudentSelection{
			{Student: models.Student{RA: "RA1", Unit: "Campinas", Cohort: "9Z", Name: "Fulano"}, Picks: []string{"Natação"}},
			{Student: models.Student{RA: "RA999", Unit: "Campinas", Cohort: "3A", Name: "Intruso"}, Picks: []string{"Natação"}},
		},
	}

	result, err := svc.Commit(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	require.Len(t, result.Excluded, 1)
	assert.Equal(t, "RA999", result.Excluded[0].RA)
	assert.Equal(t, ReasonUnknownStudent, result.Excluded[0].Reason)

	require.Len(t, store.appended, 1)
	assert.Equal(t, "RA1", store.appended[0].RA)
	assert.Equal(t, "João", store.appended[0].Student)
	assert.Equal(t, "3A", store.appended[0].Cohort)
}

func TestPreviewExcludesUnknownStudent(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(&mockEnrollmentStore{}, campinasCatalog())

	session := sessionFor(map[string][]string{"RA999": {"Natação"}})

	preview, err := svc.Preview(context.Background(), session)
	require.NoError(t, err)

	assert.Empty(t, preview.Expansion.Pending)
	require.Len(t, preview.Expansion.Excluded, 1)
	assert.Equal(t, ReasonUnknownStudent, preview.Expansion.Excluded[0].Reason)
}

func TestCommitValidatesSession(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(&mockEnrollmentStore{}, campinasCatalog())

	_, err := svc.Commit(context.Background(), models.SelectionSession{})
	assert.Error(t, err)
}

func TestPreviewReportsShortfallWithoutWriting(t *testing.T) {
	store := &mockEnrollmentStore{}
	svc, _, _ := newTestEnrollmentService(store, campinasCatalog())

	session := models.SelectionSession{
		Unit:       "Campinas",
		ActingUser: "maria",
		Students: []models.StudentSelection{
			{Student: models.Student{RA: "RA1", Unit: "Campinas", Cohort: "3A", Name: "João"}, Picks: []string{"Natação"}},
			{Student: models.Student{RA: "RA2", Unit: "Campinas", Cohort: "3A", Name: "Lia"}, Picks: []string{"Natação"}},
			{Student: models.Student{RA: "RA3", Unit: "Campinas", Cohort: "3A", Name: "Bia"}, Picks: []string{"Natação"}},
		},
	}

	preview, err := svc.Preview(context.Background(), session)
	require.NoError(t, err)

	assert.False(t, preview.Validation.OK)
	require.Len(t, preview.Validation.Shortfalls, 1)
	assert.Equal(t, 1, preview.Validation.Shortfalls[0].Shortfall)
	assert.Len(t, preview.Expansion.Pending, 3)
	assert.Empty(t, store.appended)
}

func TestDeleteArchivesBeforeRemoving(t *testing.T) {
	store := &mockEnrollmentStore{enrollments: []models.Enrollment{
		{Position: 2, Unit: "Campinas", RA: "RA1", Student: "João", Modality: "Natação"},
	}}
	svc, archive, cache := newTestEnrollmentService(store, campinasCatalog())

	deleted, err := svc.Delete(context.Background(), 2, "maria", "Campinas")
	require.NoError(t, err)

	assert.Equal(t, "RA1", deleted.RA)
	require.Len(t, archive.tombstones, 1)
	assert.Equal(t, "Natação", archive.tombstones[0].Modality)
	assert.Equal(t, []int{2}, store.deleted)
	require.Len(t, cache.invalidated, 1)
}

func TestDeleteUnknownPosition(t *testing.T) {
	svc, archive, _ := newTestEnrollmentService(&mockEnrollmentStore{}, campinasCatalog())

	_, err := svc.Delete(context.Background(), 42, "maria", "Campinas")
	assert.Error(t, err)
	assert.Empty(t, archive.tombstones)
}

func TestStudentsListsUnitRoster(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(&mockEnrollmentStore{}, campinasCatalog())

	students, err := svc.Students(context.Background(), "Campinas")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "RA1", students[0].RA)
}

func TestDeleteOutsideUnitScope(t *testing.T) {
	store := &mockEnrollmentStore{enrollments: []models.Enrollment{
		{Position: 2, Unit: "Valinhos", RA: "RA1", Modality: "Coral"},
	}}
	svc, archive, _ := newTestEnrollmentService(store, campinasCatalog())

	_, err := svc.Delete(context.Background(), 2, "maria", "Campinas")
	assert.Error(t, err)
	assert.Empty(t, archive.tombstones)
	assert.Empty(t, store.deleted)
}
