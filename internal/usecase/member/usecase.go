package member

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coop-lending/internal/domain/adminlog"
	"coop-lending/internal/domain/member"
	"coop-lending/internal/domain/notification"
	"coop-lending/internal/domain/uow"
	"coop-lending/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SearchLimit caps guarantor search results.
const SearchLimit = 5

var ErrNameRequired = errors.New("name is required")

type Usecase struct {
	repo         member.Repository
	uow          uow.UnitOfWork
	dormantAfter time.Duration
	log          logrus.FieldLogger
	now          func() time.Time
}

func NewUsecase(repo member.Repository, tx uow.UnitOfWork, dormantAfter time.Duration, log logrus.FieldLogger) *Usecase {
	return &Usecase{
		repo:         repo,
		uow:          tx,
		dormantAfter: dormantAfter,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*MemberDTO, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	var dto *MemberDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		membershipNo := strings.ToUpper(strings.TrimSpace(in.MembershipNo))
		if membershipNo == "" {
			seq, err := r.Members.NextSequence(ctx)
			if err != nil {
				return err
			}
			membershipNo = id.MembershipNo(seq)
		}
		m := &member.Member{
			MemberID:       id.NewID32(),
			MembershipNo:   membershipNo,
			Name:           name,
			Email:          strings.TrimSpace(in.Email),
			Phone:          strings.TrimSpace(in.Phone),
			Balance:        in.OpeningBalance,
			Status:         member.StatusActive,
			LastActivityAt: u.now(),
		}
		if err := r.Members.Create(ctx, m); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return member.ErrDuplicateMember
			}
			return err
		}
		if err := r.AdminLogs.Create(ctx, adminlog.NewEntry(in.AdminID, adminlog.ActionMemberCreate, "member", m.MemberID,
			fmt.Sprintf("registered %s as %s", m.Name, m.MembershipNo))); err != nil {
			return err
		}
		dto = toDTO(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, memberID string) (*MemberDTO, error) {
	m, err := u.repo.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, member.ErrNotFound
		}
		return nil, err
	}
	return toDTO(m), nil
}

// SearchGuarantors lists members matching query that borrowerID could nominate.
// Ineligible members are still returned, flagged with can_guarantee=false.
func (u *Usecase) SearchGuarantors(ctx context.Context, borrowerID, query string) ([]CandidateDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []CandidateDTO{}, nil
	}
	found, err := u.repo.Search(ctx, query, borrowerID, SearchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]CandidateDTO, 0, len(found))
	for i := range found {
		m := &found[i]
		out = append(out, CandidateDTO{
			MemberID:      m.MemberID,
			MembershipNo:  m.MembershipNo,
			Name:          m.Name,
			Balance:       m.Balance,
			CanGuarantee:  m.CanBeGuarantor(),
			Status:        string(m.Status),
			HasLoanActive: m.LoanBalance > 0,
		})
	}
	return out, nil
}

// MarkDormant flags active members with no activity inside the dormancy window.
func (u *Usecase) MarkDormant(ctx context.Context, actorID string) (*DormancyResult, error) {
	now := u.now()
	cutoff := now.Add(-u.dormantAfter)
	res := &DormancyResult{MemberIDs: []string{}}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		stale, err := r.Members.ListInactiveSince(ctx, cutoff)
		if err != nil {
			return err
		}
		for i := range stale {
			m := &stale[i]
			m.Status = member.StatusDormant
			if err := r.Members.Save(ctx, m); err != nil {
				return err
			}
			if err := r.Notifications.Create(ctx, notification.New(m.MemberID, "", notification.TypeSystem,
				"Account marked dormant",
				fmt.Sprintf("Your account has had no activity since %s and is now dormant. Contact the cooperative office to reactivate it.",
					m.LastActivityAt.Format("2 Jan 2006")),
				"")); err != nil {
				return err
			}
			res.MemberIDs = append(res.MemberIDs, m.MemberID)
		}
		res.Marked = len(res.MemberIDs)
		if res.Marked == 0 {
			return nil
		}
		return r.AdminLogs.Create(ctx, adminlog.NewEntry(actorID, adminlog.ActionMemberDormant, "member", "",
			fmt.Sprintf("marked %d member(s) dormant after %s without activity", res.Marked, u.dormantAfter)))
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"marked": res.Marked, "cutoff": cutoff}).Info("dormancy sweep finished")
	return res, nil
}
