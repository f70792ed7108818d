package http

import (
	"net/http"

	"coop-lending/internal/adapter/middleware"
	memberUC "coop-lending/internal/usecase/member"
	"coop-lending/pkg/money"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type MemberHandler struct {
	uc  *memberUC.Usecase
	log logrus.FieldLogger
}

func NewMemberHandler(uc *memberUC.Usecase, log logrus.FieldLogger) *MemberHandler {
	return &MemberHandler{uc: uc, log: log}
}

type registerMemberReq struct {
	Name  string `json:"name"  validate:"required,max=128"`
	Email string `json:"email" validate:"omitempty,email,max=128"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
	// generated when omitted
	MembershipNo string `json:"membership_no" validate:"omitempty,max=32"`
	// kobo
	OpeningBalance int64 `json:"opening_balance" validate:"gte=0"`
}

func (h *MemberHandler) Register(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req registerMemberReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Register(c.Request().Context(), memberUC.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		MembershipNo:   req.MembershipNo,
		OpeningBalance: money.Amount(req.OpeningBalance),
		AdminID:        actor.MemberID,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// Get shows a member profile to the member itself or to an admin.
func (h *MemberHandler) Get(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	memberID := c.Param("member_id")
	if !actor.IsAdmin() && actor.MemberID != memberID {
		return writeError(c, h.log, ErrForbidden)
	}
	dto, err := h.uc.Get(c.Request().Context(), memberID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// SearchGuarantors backs the guarantor picker; the caller is never listed.
func (h *MemberHandler) SearchGuarantors(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	out, err := h.uc.SearchGuarantors(c.Request().Context(), actor.MemberID, c.QueryParam("q"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"members": out})
}
