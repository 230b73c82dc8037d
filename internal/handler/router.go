package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campusconnect/portal-api/internal/middleware"
	"github.com/campusconnect/portal-api/internal/models"
	"github.com/campusconnect/portal-api/internal/repository"
	"github.com/campusconnect/portal-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth         *AuthHandler
	Event        *EventHandler
	Navigation   *NavigationHandler
	Approval     *ApprovalHandler
	Hostel       *HostelHandler
	Certificate  *CertificateHandler
	Attendance   *AttendanceHandler
	Vacancy      *VacancyHandler
	Club         *ClubHandler
	Notification *NotificationHandler
	Summary      *SummaryHandler
	Metrics      *MetricsHandler
}

// RegisterRoutes mounts the API under the configured prefix. The event
// directory, the hostel respond link and the session machine stay reachable
// without a token; everything else sits behind JWT and role guards.
func RegisterRoutes(r *gin.Engine, prefix string, h *Handlers, auth *service.AuthService, users *repository.UserRepository) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", middleware.JWT(auth), h.Auth.Logout)
		authGroup.GET("/me", middleware.JWT(auth), h.Auth.Me)
	}

	// Public event directory. Claims are attached when present so
	// registration state resolves for logged-in students.
	events := api.Group("/events", middleware.OptionalJWT(auth))
	{
		events.GET("", h.Event.List)
		events.GET("/:id", h.Event.Get)
	}

	// Hostel heads respond through the emailed link, no login involved.
	api.GET("/hostel-permissions/:id/respond", h.Hostel.Respond)

	session := api.Group("/session", middleware.OptionalJWT(auth))
	{
		session.GET("", h.Navigation.State)
		session.POST("/login", h.Navigation.Login)
		session.POST("/navigate", h.Navigation.Navigate)
		session.POST("/select-event", h.Navigation.SelectEvent)
		session.POST("/select-club", h.Navigation.SelectClub)
		session.POST("/search", h.Navigation.Search)
		session.POST("/logout", h.Navigation.RequestLogout)
		session.DELETE("/logout", h.Navigation.CancelLogout)
		session.POST("/logout/confirm", h.Navigation.ConfirmLogout)
	}

	student := api.Group("", middleware.JWT(auth), middleware.RequireRoles(models.RoleStudent))
	{
		student.POST("/events/:id/register", h.Event.Register)
		student.POST("/events/:id/attendance", h.Attendance.Claim)
		student.POST("/od-requests", h.Approval.SubmitODRequest)
		student.POST("/external-certificates", h.Approval.SubmitExternalCertificate)
		student.POST("/hostel-permissions", h.Hostel.Submit)
		student.GET("/certificates", h.Certificate.List)
		student.GET("/certificates/progress", h.Certificate.Progress)
		student.GET("/certificates/:id/download", h.Certificate.Download)
		student.POST("/vacancies/:id/apply", h.Vacancy.Apply)
		student.GET("/applications", h.Vacancy.MyApplications)
		student.GET("/notifications", h.Notification.List)
		student.POST("/notifications/:id/read", h.Notification.MarkRead)
		student.POST("/notifications/read-all", h.Notification.MarkAllRead)
	}

	admin := api.Group("", middleware.JWT(auth), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/events", middleware.Audit(users, "PUBLISH", "events"), h.Event.Publish)
		admin.GET("/admin/events", h.Event.ListByOrganizer)
		admin.GET("/events/:id/attendance", h.Attendance.ListByEvent)
		admin.GET("/events/:id/attendance/export", h.Attendance.Export)
		admin.POST("/attendance/:id/decide", h.Attendance.Decide)
		admin.POST("/certificates", h.Certificate.Issue)
		admin.POST("/proposals", h.Approval.SubmitProposal)
		admin.POST("/vacancies", h.Vacancy.Post)
		admin.GET("/vacancies/:id/applications", h.Vacancy.Applications)
		admin.POST("/applications/:id/review", h.Vacancy.Review)
	}

	hod := api.Group("", middleware.JWT(auth), middleware.RequireRoles(models.RoleHOD))
	{
		hod.GET("/od-requests", h.Approval.ListODRequests)
		hod.POST("/od-requests/:id/decide", middleware.Audit(users, "DECIDE", "od-requests"), h.Approval.DecideODRequest)
		hod.GET("/proposals", h.Approval.ListProposals)
		hod.POST("/proposals/:id/decide", middleware.Audit(users, "DECIDE", "proposals"), h.Approval.DecideProposal)
		hod.GET("/external-certificates", h.Approval.ListExternalCertificates)
		hod.POST("/external-certificates/:id/decide", middleware.Audit(users, "DECIDE", "external-certificates"), h.Approval.DecideExternalCertificate)
		hod.GET("/hostel-permissions", h.Hostel.List)
		hod.POST("/hostel-permissions/:id/send", middleware.Audit(users, "SEND", "hostel-permissions"), h.Hostel.Send)
		hod.GET("/summary/club-activity", h.Summary.ClubActivity)
	}

	authed := api.Group("", middleware.JWT(auth))
	{
		authed.GET("/vacancies", h.Vacancy.List)
		authed.GET("/clubs", h.Club.List)
		authed.GET("/clubs/:id", h.Club.Get)
	}
}
