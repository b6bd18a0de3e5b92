package friendship

import "errors"

var (
	ErrSelfRequest       = errors.New("cannot send friend request to yourself")
	ErrDuplicate         = errors.New("friendship already exists")
	ErrNotFound          = errors.New("friendship not found")
	ErrNotAddressee      = errors.New("only the addressee can respond to a friend request")
	ErrInvalidTransition = errors.New("friend request already resolved")
)
