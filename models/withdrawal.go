package models

// WithdrawalStatus of a payout request
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalPaid     WithdrawalStatus = "paid"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

// WithdrawalRequest records a payout request. The amount is deducted from
// the profile balance when the request is accepted; TotalEarned is never
// reduced.
type WithdrawalRequest struct {
	ID     string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string  `gorm:"index;not null" json:"user_id"`
	Amount float64 `gorm:"not null" json:"amount"`

	Status WithdrawalStatus `gorm:"not null;default:'pending'" json:"status"`

	Timestamps
}
