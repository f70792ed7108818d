package http

import (
	"net/http"

	"coop-lending/internal/adapter/middleware"
	"coop-lending/internal/domain/loan"
	guarantorUC "coop-lending/internal/usecase/guarantor"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type GuarantorHandler struct {
	uc  *guarantorUC.Usecase
	log logrus.FieldLogger
}

func NewGuarantorHandler(uc *guarantorUC.Usecase, log logrus.FieldLogger) *GuarantorHandler {
	return &GuarantorHandler{uc: uc, log: log}
}

type guarantorResponseReq struct {
	Response      string `json:"response"        validate:"required,oneof=accepted rejected"`
	AgreedToTerms bool   `json:"agreed_to_terms"`
}

func (h *GuarantorHandler) Pending(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	out, err := h.uc.Pending(c.Request().Context(), actor.MemberID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"requests": out})
}

func (h *GuarantorHandler) Respond(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req guarantorResponseReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Respond(c.Request().Context(), guarantorUC.RespondInput{
		NotificationID: c.Param("notification_id"),
		MemberID:       actor.MemberID,
		Response:       loan.GuarantorStatus(req.Response),
		AgreedToTerms:  req.AgreedToTerms,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	if dto == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "guarantor request not found"})
	}
	return c.JSON(http.StatusOK, dto)
}
