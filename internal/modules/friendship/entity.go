package friendship

import "time"

// Status is the friend-request lifecycle state. pending transitions once to
// accepted or declined; both are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// Friendship is one row per unordered user pair. UserLo/UserHi hold the
// canonicalized pair (min, max) carrying the unique index that makes the
// duplicate check race-free at the store boundary.
type Friendship struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	RequesterID int64     `gorm:"column:requester_id;index" json:"requester_id"`
	AddresseeID int64     `gorm:"column:addressee_id;index" json:"addressee_id"`
	Status      Status    `gorm:"column:status;default:'pending'" json:"status"`
	CloseFriend bool      `gorm:"column:close_friend;default:false" json:"close_friend"`
	UserLo      int64     `gorm:"column:user_lo;uniqueIndex:idx_friendships_pair" json:"-"`
	UserHi      int64     `gorm:"column:user_hi;uniqueIndex:idx_friendships_pair" json:"-"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Friendship) TableName() string { return "friendships" }

// OtherSide returns the participant that is not userID.
func (f *Friendship) OtherSide(userID int64) int64 {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

// canonicalPair orders two user ids for the unique pair index.
func canonicalPair(a, b int64) (lo, hi int64) {
	if a < b {
		return a, b
	}
	return b, a
}
