package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/portal-api/internal/models"
)

func TestLoginLandsOnRoleDefault(t *testing.T) {
	cases := []struct {
		role models.UserRole
		want View
	}{
		{models.RoleStudent, ViewDiscover},
		{models.RoleAdmin, ViewAdminDashboard},
		{models.RoleHOD, ViewHODDashboard},
	}
	for _, tc := range cases {
		got, err := DefaultState().Login(tc.role)
		require.NoError(t, err)
		assert.True(t, got.Authenticated)
		assert.Equal(t, tc.role, got.Role)
		assert.Equal(t, tc.want, got.View)
		assert.False(t, got.LogoutRequested)
	}
}

func TestLoginUnknownRole(t *testing.T) {
	s := DefaultState()
	got, err := s.Login(models.UserRole("janitor"))
	assert.ErrorIs(t, err, ErrUnknownRole)
	assert.Equal(t, s, got)
}

func TestNavigateAllowedIffInRegistry(t *testing.T) {
	student, err := DefaultState().Login(models.RoleStudent)
	require.NoError(t, err)

	for _, v := range []View{ViewDiscover, ViewEvents, ViewEventDetail, ViewInbox, ViewVacancies, ViewClubDetail} {
		got, err := student.Navigate(v)
		require.NoError(t, err)
		assert.Equal(t, v, got.View)
	}

	for _, v := range []View{ViewAdminDashboard, ViewAdminAttendance, ViewHODSummary} {
		got, err := student.Navigate(v)
		assert.ErrorIs(t, err, ErrViewNotAllowed)
		assert.Equal(t, student, got, "failed navigation must not change state")
	}
}

func TestAdminCannotReachHODDashboard(t *testing.T) {
	admin, err := DefaultState().Login(models.RoleAdmin)
	require.NoError(t, err)

	got, err := admin.Navigate(ViewHODDashboard)
	assert.ErrorIs(t, err, ErrViewNotAllowed)
	assert.Equal(t, admin, got)
}

func TestPublicLayerLimitsUnauthenticatedNavigation(t *testing.T) {
	s := DefaultState()

	got, err := s.Navigate(ViewEventDetail)
	require.NoError(t, err)
	assert.Equal(t, ViewEventDetail, got.View)

	for _, v := range []View{ViewDiscover, ViewInbox, ViewAdminDashboard, ViewHODSummary} {
		got, err := s.Navigate(v)
		assert.ErrorIs(t, err, ErrViewNotAllowed)
		assert.Equal(t, s, got)
	}
}

func TestSelectEventRoutesToRoleDetailView(t *testing.T) {
	student, err := DefaultState().Login(models.RoleStudent)
	require.NoError(t, err)
	got, err := student.SelectEvent("hack-2023")
	require.NoError(t, err)
	assert.Equal(t, ViewEventDetail, got.View)
	assert.Equal(t, "hack-2023", got.SelectedEventID)

	admin, err := DefaultState().Login(models.RoleAdmin)
	require.NoError(t, err)
	got, err = admin.SelectEvent("hack-2023")
	require.NoError(t, err)
	assert.Equal(t, ViewAdminEventDetail, got.View)
	assert.Equal(t, "hack-2023", got.SelectedEventID)
}

func TestSelectEventRejectedForHOD(t *testing.T) {
	hod, err := DefaultState().Login(models.RoleHOD)
	require.NoError(t, err)

	got, err := hod.SelectEvent("hack-2023")
	assert.ErrorIs(t, err, ErrViewNotAllowed)
	assert.Equal(t, hod, got)
}

func TestSelectEventWorksForPublicVisitor(t *testing.T) {
	got, err := DefaultState().SelectEvent("2")
	require.NoError(t, err)
	assert.False(t, got.Authenticated)
	assert.Equal(t, ViewEventDetail, got.View)
	assert.Equal(t, "2", got.SelectedEventID)
}

func TestSelectionsAreMutuallyExclusive(t *testing.T) {
	student, err := DefaultState().Login(models.RoleStudent)
	require.NoError(t, err)

	s, err := student.SelectEvent("1")
	require.NoError(t, err)
	s, err = s.SelectClub("robotics")
	require.NoError(t, err)
	assert.Equal(t, ViewClubDetail, s.View)
	assert.Equal(t, "robotics", s.SelectedClubID)
	assert.Empty(t, s.SelectedEventID)

	s, err = s.SelectEvent("2")
	require.NoError(t, err)
	assert.Equal(t, "2", s.SelectedEventID)
	assert.Empty(t, s.SelectedClubID)
}

func TestLogoutIsTwoStep(t *testing.T) {
	student, err := DefaultState().Login(models.RoleStudent)
	require.NoError(t, err)

	// Confirm without a pending request is rejected.
	_, err = student.ConfirmLogout()
	assert.ErrorIs(t, err, ErrNoPendingLogout)

	pending, err := student.RequestLogout()
	require.NoError(t, err)
	assert.True(t, pending.LogoutRequested)
	assert.True(t, pending.Authenticated, "requesting logout must not log out")
	assert.Equal(t, student.View, pending.View)

	// Cancel returns to the pre-request state.
	cancelled := pending.CancelLogout()
	assert.Equal(t, student, cancelled)

	// Confirm collapses to the exact default state.
	out, err := pending.ConfirmLogout()
	require.NoError(t, err)
	assert.Equal(t, DefaultState(), out)
}

func TestConfirmedLogoutClearsSelectionsAndSearch(t *testing.T) {
	s, err := DefaultState().Login(models.RoleStudent)
	require.NoError(t, err)
	s, err = s.SelectEvent("hack-2023")
	require.NoError(t, err)
	s = s.SetSearch("robotics")
	s, err = s.RequestLogout()
	require.NoError(t, err)

	out, err := s.ConfirmLogout()
	require.NoError(t, err)
	assert.Equal(t, DefaultState(), out)
	assert.Empty(t, out.SelectedEventID)
	assert.Empty(t, out.SearchQuery)
}

func TestLogoutRequiresAuthentication(t *testing.T) {
	s := DefaultState()
	_, err := s.RequestLogout()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = s.ConfirmLogout()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRegistriesAreDisjoint(t *testing.T) {
	seen := map[View]models.UserRole{}
	for role, set := range registry {
		for v := range set {
			other, dup := seen[v]
			assert.False(t, dup, "view %s assigned to both %s and %s", v, other, role)
			seen[v] = role
		}
	}
}
