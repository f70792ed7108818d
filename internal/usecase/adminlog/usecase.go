package adminlog

import (
	"context"
	"errors"
	"strings"

	"coop-lending/internal/domain/adminlog"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

var ErrDescriptionRequired = errors.New("description is required")

type Usecase struct{ repo adminlog.Repository }

func NewUsecase(r adminlog.Repository) *Usecase { return &Usecase{repo: r} }

type RecordInput struct {
	AdminID     string
	Action      string
	Entity      string
	EntityID    string
	Description string
}

// Record appends a manual entry to the audit trail.
func (u *Usecase) Record(ctx context.Context, in RecordInput) (*adminlog.Entry, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, ErrDescriptionRequired
	}
	action := strings.TrimSpace(in.Action)
	if action == "" {
		action = "note"
	}
	e := adminlog.NewEntry(in.AdminID, action, in.Entity, in.EntityID, desc)
	if err := u.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// List returns the newest entries first.
func (u *Usecase) List(ctx context.Context, limit int) ([]adminlog.Entry, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	out, err := u.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []adminlog.Entry{}
	}
	return out, nil
}
