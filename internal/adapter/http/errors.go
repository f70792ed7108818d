package http

import (
	"errors"
	"net/http"

	"coop-lending/internal/domain/approval"
	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/member"
	"coop-lending/internal/domain/notification"
	adminlogUC "coop-lending/internal/usecase/adminlog"
	approvalUC "coop-lending/internal/usecase/approval"
	guarantorUC "coop-lending/internal/usecase/guarantor"
	memberUC "coop-lending/internal/usecase/member"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const msgInternal = "failed, please try again"

// ErrForbidden is returned when the actor may not see or change a resource.
var ErrForbidden = errors.New("forbidden")

var statusByErr = []struct {
	err    error
	status int
}{
	{ErrForbidden, http.StatusForbidden},
	{notification.ErrNotRecipient, http.StatusForbidden},

	{member.ErrNotFound, http.StatusNotFound},
	{loan.ErrNotFound, http.StatusNotFound},
	{notification.ErrNotFound, http.StatusNotFound},
	{approval.ErrNotFound, http.StatusNotFound},

	{member.ErrDuplicateMember, http.StatusConflict},
	{loan.ErrInvalidTransition, http.StatusConflict},
	{loan.ErrAlreadyApproved, http.StatusConflict},
	{loan.ErrGuarantorsNotAccepted, http.StatusConflict},
	{loan.ErrNotRepayable, http.StatusConflict},
	{loan.ErrBorrowerIsGuarantor, http.StatusConflict},
	{approval.ErrAlreadyDecided, http.StatusConflict},
	{guarantorUC.ErrAlreadyResponded, http.StatusConflict},
	{guarantorUC.ErrLoanNotPending, http.StatusConflict},

	{member.ErrCannotGuarantee, http.StatusUnprocessableEntity},
	{memberUC.ErrNameRequired, http.StatusUnprocessableEntity},
	{loan.ErrSecondGuarantor, http.StatusUnprocessableEntity},
	{loan.ErrSelfGuarantee, http.StatusUnprocessableEntity},
	{loan.ErrDuplicateGuarantor, http.StatusUnprocessableEntity},
	{loan.ErrInvalidDuration, http.StatusUnprocessableEntity},
	{loan.ErrInvalidAmount, http.StatusUnprocessableEntity},
	{loan.ErrPurposeRequired, http.StatusUnprocessableEntity},
	{loan.ErrGuarantorRequired, http.StatusUnprocessableEntity},
	{loan.ErrOverpayment, http.StatusUnprocessableEntity},
	{guarantorUC.ErrInvalidResponse, http.StatusUnprocessableEntity},
	{guarantorUC.ErrTermsNotAccepted, http.StatusUnprocessableEntity},
	{approvalUC.ErrReasonRequired, http.StatusUnprocessableEntity},
	{adminlogUC.ErrDescriptionRequired, http.StatusUnprocessableEntity},
}

// statusFor maps usecase errors to HTTP status codes; 0 means unclassified.
func statusFor(err error) int {
	var inel *loan.IneligibleError
	if errors.As(err, &inel) {
		return http.StatusUnprocessableEntity
	}
	for _, m := range statusByErr {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return 0
}

// writeError renders err. Ineligibility carries its reason verbatim;
// anything unclassified is logged and hidden behind a static message.
func writeError(c echo.Context, log logrus.FieldLogger, err error) error {
	var inel *loan.IneligibleError
	if errors.As(err, &inel) {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: inel.Reason})
	}
	if code := statusFor(err); code != 0 {
		return c.JSON(code, ErrorResponse{Error: err.Error()})
	}
	log.WithError(err).WithFields(logrus.Fields{
		"method": c.Request().Method,
		"path":   c.Path(),
	}).Error("request failed")
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInternal})
}
