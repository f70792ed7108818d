package http

import (
	"time"

	"coop-lending/internal/adapter/middleware"
	adminlogUC "coop-lending/internal/usecase/adminlog"
	approvalUC "coop-lending/internal/usecase/approval"
	guarantorUC "coop-lending/internal/usecase/guarantor"
	lifecycleUC "coop-lending/internal/usecase/lifecycle"
	loanUC "coop-lending/internal/usecase/loan"
	memberUC "coop-lending/internal/usecase/member"
	notificationUC "coop-lending/internal/usecase/notification"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Deps struct {
	Members       *memberUC.Usecase
	Loans         *loanUC.Usecase
	Guarantors    *guarantorUC.Usecase
	Notifications *notificationUC.Usecase
	Approvals     *approvalUC.Usecase
	Lifecycle     *lifecycleUC.Usecase
	AdminLogs     *adminlogUC.Usecase

	DB             Pinger
	Redis          *redis.Client
	JWTSecret      []byte
	TokenTTL       time.Duration
	IdempotencyTTL time.Duration
	Log            logrus.FieldLogger
}

// NewRouter wires every route. Mutating routes go through JWTAuth and then
// Idempotency; admin routes additionally require the admin role.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger(d.Log))

	e.GET("/health", NewHandler(d.DB).Health)

	members := NewMemberHandler(d.Members, d.Log)
	loans := NewLoanHandler(d.Loans, d.Log)
	guarantors := NewGuarantorHandler(d.Guarantors, d.Log)
	notifications := NewNotificationHandler(d.Notifications, d.Log)
	admin := NewAdminHandler(d.Approvals, d.Lifecycle, d.Members, d.AdminLogs, d.Log)

	api := e.Group("",
		middleware.JWTAuth(d.JWTSecret, d.TokenTTL),
		middleware.Idempotency(d.Redis, d.IdempotencyTTL, d.Log),
	)

	api.POST("/members", members.Register, middleware.RequireAdmin())
	api.GET("/members/search", members.SearchGuarantors)
	api.GET("/members/:member_id", members.Get)

	api.GET("/loans/eligibility", loans.Eligibility)
	api.GET("/loans/terms", loans.Terms)
	api.POST("/loans", loans.Apply)
	api.GET("/loans/:loan_id", loans.GetLoan)
	api.GET("/me/loans", loans.MyLoans)

	api.GET("/notifications", notifications.Inbox)
	api.POST("/notifications/:notification_id/read", notifications.MarkRead)
	api.GET("/guarantor-requests", guarantors.Pending)
	api.POST("/notifications/:notification_id/guarantor-response", guarantors.Respond)

	adm := api.Group("/admin", middleware.RequireAdmin())
	adm.POST("/loans/:loan_id/approve", admin.ApproveLoan)
	adm.POST("/loans/:loan_id/reject", admin.RejectLoan)
	adm.POST("/loans/:loan_id/repayments", admin.RecordRepayment)
	adm.POST("/loans/sweep-defaults", admin.SweepDefaults)
	adm.POST("/fines/run", admin.RunFines)
	adm.POST("/members/dormancy", admin.MarkDormant)
	adm.GET("/logs", admin.Logs)
	adm.POST("/logs", admin.RecordNote)

	return e
}
