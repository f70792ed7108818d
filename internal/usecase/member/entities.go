package member

import (
	"time"

	"coop-lending/internal/domain/member"
	"coop-lending/pkg/money"
)

type RegisterInput struct {
	Name  string
	Email string
	Phone string
	// MembershipNo is generated when empty.
	MembershipNo   string
	OpeningBalance money.Amount
	AdminID        string
}

type CommitmentDTO struct {
	MemberID        string       `json:"member_id"`
	MemberName      string       `json:"member_name"`
	LoanID          string       `json:"loan_id"`
	LoanAmount      money.Amount `json:"loan_amount"`
	RemainingAmount money.Amount `json:"remaining_amount"`
	Status          string       `json:"status"`
}

type MemberDTO struct {
	MemberID          string          `json:"member_id"`
	MembershipNo      string          `json:"membership_no"`
	Name              string          `json:"name"`
	Email             string          `json:"email,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	Balance           money.Amount    `json:"balance"`
	LoanBalance       money.Amount    `json:"loan_balance"`
	InvestmentBalance money.Amount    `json:"investment_balance"`
	Fines             money.Amount    `json:"fines"`
	Status            string          `json:"status"`
	LastActivityAt    time.Time       `json:"last_activity_at"`
	GuarantorFor      []CommitmentDTO `json:"guarantor_for"`
}

// CandidateDTO is a guarantor search hit.
type CandidateDTO struct {
	MemberID      string       `json:"member_id"`
	MembershipNo  string       `json:"membership_no"`
	Name          string       `json:"name"`
	Balance       money.Amount `json:"balance"`
	CanGuarantee  bool         `json:"can_guarantee"`
	Status        string       `json:"status"`
	HasLoanActive bool         `json:"has_active_loan"`
}

type DormancyResult struct {
	Marked    int      `json:"marked"`
	MemberIDs []string `json:"member_ids"`
}

func toDTO(m *member.Member) *MemberDTO {
	dto := &MemberDTO{
		MemberID:          m.MemberID,
		MembershipNo:      m.MembershipNo,
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		Balance:           m.Balance,
		LoanBalance:       m.LoanBalance,
		InvestmentBalance: m.InvestmentBalance,
		Fines:             m.Fines,
		Status:            string(m.Status),
		LastActivityAt:    m.LastActivityAt,
		GuarantorFor:      make([]CommitmentDTO, 0, len(m.GuarantorFor)),
	}
	for _, c := range m.GuarantorFor {
		dto.GuarantorFor = append(dto.GuarantorFor, CommitmentDTO{
			MemberID:        c.BorrowerID,
			MemberName:      c.BorrowerName,
			LoanID:          c.LoanID,
			LoanAmount:      c.LoanAmount,
			RemainingAmount: c.RemainingAmount,
			Status:          string(c.Status),
		})
	}
	return dto
}
