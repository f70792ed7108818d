package http

import (
	"net/http"

	"coop-lending/internal/adapter/middleware"
	adminlogUC "coop-lending/internal/usecase/adminlog"
	approvalUC "coop-lending/internal/usecase/approval"
	lifecycleUC "coop-lending/internal/usecase/lifecycle"
	memberUC "coop-lending/internal/usecase/member"
	"coop-lending/pkg/money"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// AdminHandler serves the /admin routes; RequireAdmin guards the group.
type AdminHandler struct {
	approvals *approvalUC.Usecase
	lifecycle *lifecycleUC.Usecase
	members   *memberUC.Usecase
	logs      *adminlogUC.Usecase
	log       logrus.FieldLogger
}

func NewAdminHandler(approvals *approvalUC.Usecase, lifecycle *lifecycleUC.Usecase, members *memberUC.Usecase,
	logs *adminlogUC.Usecase, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{approvals: approvals, lifecycle: lifecycle, members: members, logs: logs, log: log}
}

type approveLoanReq struct {
	Note string `json:"note" validate:"max=1000"`
}

type rejectLoanReq struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type repaymentReq struct {
	// kobo
	Amount int64 `json:"amount" validate:"gt=0"`
}

type adminNoteReq struct {
	Action      string `json:"action"      validate:"omitempty,max=64"`
	Entity      string `json:"entity"      validate:"omitempty,max=32"`
	EntityID    string `json:"entity_id"   validate:"omitempty,max=64"`
	Description string `json:"description" validate:"required,max=2000"`
}

func (h *AdminHandler) ApproveLoan(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req approveLoanReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.approvals.Approve(c.Request().Context(), approvalUC.ApproveInput{
		LoanID:  c.Param("loan_id"),
		AdminID: actor.MemberID,
		Note:    req.Note,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdminHandler) RejectLoan(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req rejectLoanReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.approvals.Reject(c.Request().Context(), approvalUC.RejectInput{
		LoanID:  c.Param("loan_id"),
		AdminID: actor.MemberID,
		Reason:  req.Reason,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdminHandler) RecordRepayment(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req repaymentReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.lifecycle.RecordRepayment(c.Request().Context(), lifecycleUC.RepaymentInput{
		LoanID:     c.Param("loan_id"),
		Amount:     money.Amount(req.Amount),
		RecordedBy: actor.MemberID,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// RunFines triggers the fines job on demand, then sweeps defaults.
func (h *AdminHandler) RunFines(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	ctx := c.Request().Context()
	fines, err := h.lifecycle.ApplyFines(ctx, actor.MemberID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	defaults, err := h.lifecycle.SweepDefaults(ctx, actor.MemberID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"fines": fines, "defaults": defaults})
}

func (h *AdminHandler) SweepDefaults(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	res, err := h.lifecycle.SweepDefaults(c.Request().Context(), actor.MemberID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) MarkDormant(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	res, err := h.members.MarkDormant(c.Request().Context(), actor.MemberID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) Logs(c echo.Context) error {
	var limit int
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be an integer"})
	}
	out, err := h.logs.List(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"logs": out})
}

func (h *AdminHandler) RecordNote(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req adminNoteReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	e, err := h.logs.Record(c.Request().Context(), adminlogUC.RecordInput{
		AdminID:     actor.MemberID,
		Action:      req.Action,
		Entity:      req.Entity,
		EntityID:    req.EntityID,
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, e)
}
