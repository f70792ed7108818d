package http

import (
	"net/http"

	"coop-lending/internal/adapter/middleware"
	loanUC "coop-lending/internal/usecase/loan"
	"coop-lending/pkg/money"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type LoanHandler struct {
	uc  *loanUC.Usecase
	log logrus.FieldLogger
}

func NewLoanHandler(uc *loanUC.Usecase, log logrus.FieldLogger) *LoanHandler {
	return &LoanHandler{uc: uc, log: log}
}

// amounts are integer kobo throughout the API
type applyLoanReq struct {
	Amount         int64  `json:"amount"          validate:"gt=0"`
	Purpose        string `json:"purpose"         validate:"required,max=2000"`
	DurationMonths int    `json:"duration_months" validate:"duration"`
	Guarantor1ID   string `json:"guarantor1_id"   validate:"required,hex32"`
	Guarantor2ID   string `json:"guarantor2_id"   validate:"omitempty,hex32"`
}

func (h *LoanHandler) Apply(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req applyLoanReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Apply(c.Request().Context(), loanUC.ApplyInput{
		MemberID:       actor.MemberID,
		Amount:         money.Amount(req.Amount),
		Purpose:        req.Purpose,
		DurationMonths: req.DurationMonths,
		Guarantor1ID:   req.Guarantor1ID,
		Guarantor2ID:   req.Guarantor2ID,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) Eligibility(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var amount int64
	if err := echo.QueryParamsBinder(c).MustInt64("amount", &amount).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount query param must be an integer (kobo)"})
	}
	res, err := h.uc.CheckEligibility(c.Request().Context(), actor.MemberID, money.Amount(amount))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) Terms(c echo.Context) error {
	var (
		amount int64
		months int
	)
	if err := echo.QueryParamsBinder(c).
		MustInt64("amount", &amount).
		MustInt("duration_months", &months).
		BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount and duration_months query params are required integers"})
	}
	t, err := h.uc.Terms(money.Amount(amount), months)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, t)
}

// GetLoan is visible to the borrower, the loan's guarantors and admins.
func (h *LoanHandler) GetLoan(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	if !actor.IsAdmin() && !involved(dto, actor.MemberID) {
		return writeError(c, h.log, ErrForbidden)
	}
	return c.JSON(http.StatusOK, dto)
}

func involved(l *loanUC.LoanDTO, memberID string) bool {
	if l.MemberID == memberID {
		return true
	}
	for _, g := range l.Guarantors {
		if g.MemberID == memberID {
			return true
		}
	}
	return false
}

func (h *LoanHandler) MyLoans(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	out, err := h.uc.ListByMember(c.Request().Context(), actor.MemberID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": out})
}
