package friendship

// FriendEntry is one accepted friend with their relation metadata.
type FriendEntry struct {
	Profile      UserProfile `json:"profile"`
	FriendshipID string      `json:"friendship_id"`
	CloseFriend  bool        `json:"close_friend"`
}

// PendingEntry is one open incoming friend request.
type PendingEntry struct {
	Friendship Friendship  `json:"friendship"`
	Requester  UserProfile `json:"requester"`
}

type RequestFriendRequest struct {
	AddresseeID int64 `json:"addressee_id" binding:"required"`
}

type RespondRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=accepted declined"`
}

type CloseFriendRequest struct {
	CloseFriend bool `json:"close_friend"`
}
