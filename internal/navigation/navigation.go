// Package navigation models the portal's role-scoped view registry and the
// session navigation state machine. The registry is the single source of
// truth for which screens a role may reach; every transition is a named
// action on an immutable State value.
package navigation

import (
	"errors"
	"fmt"

	"github.com/campusconnect/portal-api/internal/models"
)

// View identifies a renderable screen.
type View string

// Student views.
const (
	ViewDiscover    View = "discover"
	ViewEvents      View = "events"
	ViewEventDetail View = "event-detail"
	ViewInbox       View = "inbox"
	ViewVacancies   View = "vacancies"
	ViewClubDetail  View = "club-detail"
)

// Club admin views.
const (
	ViewAdminDashboard    View = "admin-dashboard"
	ViewAdminEvents       View = "admin-events"
	ViewAdminEventDetail  View = "admin-event-detail"
	ViewAdminAttendance   View = "admin-attendance"
	ViewAdminCertificates View = "admin-certificates"
	ViewAdminVacancies    View = "admin-vacancies"
)

// Faculty advisor / HOD views.
const (
	ViewHODDashboard         View = "hod-dashboard"
	ViewHODODApprovals       View = "hod-od-approvals"
	ViewHODExternalApprovals View = "hod-external-approvals"
	ViewHODHostelPermission  View = "hod-hostel-permission"
	ViewHODSummary           View = "hod-summary"
)

// Transition errors. Services translate these into the API error taxonomy.
var (
	ErrViewNotAllowed   = errors.New("view not permitted for role")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUnknownRole      = errors.New("unknown role")
	ErrNoPendingLogout  = errors.New("no logout pending")
)

var registry = map[models.UserRole]map[View]struct{}{
	models.RoleStudent: viewSet(
		ViewDiscover, ViewEvents, ViewEventDetail, ViewInbox, ViewVacancies, ViewClubDetail,
	),
	models.RoleAdmin: viewSet(
		ViewAdminDashboard, ViewAdminEvents, ViewAdminEventDetail,
		ViewAdminAttendance, ViewAdminCertificates, ViewAdminVacancies,
	),
	models.RoleHOD: viewSet(
		ViewHODDashboard, ViewHODODApprovals, ViewHODExternalApprovals,
		ViewHODHostelPermission, ViewHODSummary,
	),
}

var defaultViews = map[models.UserRole]View{
	models.RoleStudent: ViewDiscover,
	models.RoleAdmin:   ViewAdminDashboard,
	models.RoleHOD:     ViewHODDashboard,
}

// publicViews is the narrower table layered on top of the main registry for
// unauthenticated visitors: read-only event browsing.
var publicViews = viewSet(ViewEvents, ViewEventDetail)

// detailViews maps each role to the event-detail screen it lands on after a
// selection. HOD has no event detail screen.
var detailViews = map[models.UserRole]View{
	models.RoleStudent: ViewEventDetail,
	models.RoleAdmin:   ViewAdminEventDetail,
}

func viewSet(views ...View) map[View]struct{} {
	set := make(map[View]struct{}, len(views))
	for _, v := range views {
		set[v] = struct{}{}
	}
	return set
}

// Allowed reports whether the role may reach the view.
func Allowed(role models.UserRole, v View) bool {
	set, ok := registry[role]
	if !ok {
		return false
	}
	_, ok = set[v]
	return ok
}

// PublicAllowed reports whether an unauthenticated visitor may reach the view.
func PublicAllowed(v View) bool {
	_, ok := publicViews[v]
	return ok
}

// DefaultView is the landing view for a role after login.
func DefaultView(role models.UserRole) (View, error) {
	v, ok := defaultViews[role]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	return v, nil
}

// State is the navigation state for one session. Values are immutable;
// transitions return a new State.
type State struct {
	Authenticated   bool            `json:"authenticated"`
	Role            models.UserRole `json:"role"`
	View            View            `json:"view"`
	SearchQuery     string          `json:"search_query,omitempty"`
	SelectedEventID string          `json:"selected_event_id,omitempty"`
	SelectedClubID  string          `json:"selected_club_id,omitempty"`
	LogoutRequested bool            `json:"logout_requested,omitempty"`
}

// DefaultState is the canonical unauthenticated shape: the public events view
// with a student role placeholder and everything cleared.
func DefaultState() State {
	return State{
		Authenticated: false,
		Role:          models.RoleStudent,
		View:          ViewEvents,
	}
}

// Login authenticates the session and lands on the role's default view.
func (s State) Login(role models.UserRole) (State, error) {
	landing, err := DefaultView(role)
	if err != nil {
		return s, err
	}
	return State{
		Authenticated: true,
		Role:          role,
		View:          landing,
	}, nil
}

// Navigate moves to the view if the current role (or the public table, when
// unauthenticated) permits it. Illegal navigation leaves the state unchanged
// and returns ErrViewNotAllowed.
func (s State) Navigate(v View) (State, error) {
	if !s.Authenticated {
		if !PublicAllowed(v) {
			return s, fmt.Errorf("%w: %s (unauthenticated)", ErrViewNotAllowed, v)
		}
	} else if !Allowed(s.Role, v) {
		return s, fmt.Errorf("%w: %s for role %s", ErrViewNotAllowed, v, s.Role)
	}

	next := s
	next.View = v
	return next, nil
}

// SelectEvent focuses an event and forces the role's event-detail view. The
// selection is mutually exclusive with a club selection.
func (s State) SelectEvent(eventID string) (State, error) {
	detail := ViewEventDetail
	if s.Authenticated {
		v, ok := detailViews[s.Role]
		if !ok {
			return s, fmt.Errorf("%w: event detail for role %s", ErrViewNotAllowed, s.Role)
		}
		detail = v
	}

	next, err := s.Navigate(detail)
	if err != nil {
		return s, err
	}
	next.SelectedEventID = eventID
	next.SelectedClubID = ""
	return next, nil
}

// SelectClub focuses a club and forces the club-detail view.
func (s State) SelectClub(clubID string) (State, error) {
	next, err := s.Navigate(ViewClubDetail)
	if err != nil {
		return s, err
	}
	next.SelectedClubID = clubID
	next.SelectedEventID = ""
	return next, nil
}

// SetSearch records the directory search text.
func (s State) SetSearch(query string) State {
	next := s
	next.SearchQuery = query
	return next
}

// RequestLogout enters the transient confirmation state.
func (s State) RequestLogout() (State, error) {
	if !s.Authenticated {
		return s, ErrNotAuthenticated
	}
	next := s
	next.LogoutRequested = true
	return next, nil
}

// CancelLogout leaves the confirmation state.
func (s State) CancelLogout() State {
	next := s
	next.LogoutRequested = false
	return next
}

// ConfirmLogout collapses the session to the default unauthenticated shape.
// It requires a pending logout request: logout is always a two-step action.
func (s State) ConfirmLogout() (State, error) {
	if !s.Authenticated {
		return s, ErrNotAuthenticated
	}
	if !s.LogoutRequested {
		return s, ErrNoPendingLogout
	}
	return DefaultState(), nil
}
