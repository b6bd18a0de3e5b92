package friendship

import (
	"context"
	"errors"
	"log"
)

// Service implements the friend-request lifecycle and bidirectional lookups.
type Service struct {
	repo   Repository
	users  UserDirectory
	notifs NotificationSender
}

func NewService(repo Repository, users UserDirectory, notifs NotificationSender) *Service {
	return &Service{repo: repo, users: users, notifs: notifs}
}

// Request creates a pending friendship. A row for the unordered pair in any
// status blocks a new request; the canonical-pair unique index backs the
// check under concurrency.
func (s *Service) Request(ctx context.Context, requesterID, addresseeID int64) (*Friendship, error) {
	if requesterID == addresseeID {
		return nil, ErrSelfRequest
	}

	if _, err := s.repo.FindByPair(ctx, requesterID, addresseeID); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	f := &Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      StatusPending,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}

	s.notify(ctx, addresseeID, "friend_request", requesterID, f.ID)
	return f, nil
}

// Respond transitions a pending request to accepted or declined. Both
// outcomes are terminal; responding to a resolved request is a caller error.
func (s *Service) Respond(ctx context.Context, friendshipID string, userID int64, outcome Status) (*Friendship, error) {
	if outcome != StatusAccepted && outcome != StatusDeclined {
		return nil, ErrInvalidTransition
	}

	f, err := s.repo.GetByID(ctx, friendshipID)
	if err != nil {
		return nil, err
	}
	if f.AddresseeID != userID {
		return nil, ErrNotAddressee
	}
	if f.Status != StatusPending {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, friendshipID, outcome); err != nil {
		return nil, err
	}
	f.Status = outcome

	if outcome == StatusAccepted {
		s.notify(ctx, f.RequesterID, "friend_accepted", f.AddresseeID, f.ID)
	}
	return f, nil
}

// FriendsOf returns the accepted friends of a user. Symmetric by
// construction: the union of both sides of accepted rows.
func (s *Service) FriendsOf(ctx context.Context, userID int64) ([]FriendEntry, error) {
	accepted, err := s.repo.AcceptedFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(accepted))
	for i := range accepted {
		ids = append(ids, accepted[i].OtherSide(userID))
	}

	profiles, err := s.users.ProfilesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]FriendEntry, 0, len(accepted))
	for i := range accepted {
		f := &accepted[i]
		out = append(out, FriendEntry{
			Profile:      profiles[f.OtherSide(userID)],
			FriendshipID: f.ID,
			CloseFriend:  f.CloseFriend,
		})
	}
	return out, nil
}

// FriendIDs returns just the ids of accepted friends. Used by the feed
// aggregator for author scoping and visibility checks.
func (s *Service) FriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	accepted, err := s.repo.AcceptedFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(accepted))
	for i := range accepted {
		ids = append(ids, accepted[i].OtherSide(userID))
	}
	return ids, nil
}

// PendingIncoming returns open requests addressed to the user, newest first.
func (s *Service) PendingIncoming(ctx context.Context, userID int64) ([]PendingEntry, error) {
	pending, err := s.repo.PendingIncoming(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(pending))
	for i := range pending {
		ids = append(ids, pending[i].RequesterID)
	}

	profiles, err := s.users.ProfilesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]PendingEntry, 0, len(pending))
	for i := range pending {
		f := &pending[i]
		out = append(out, PendingEntry{
			Friendship: *f,
			Requester:  profiles[f.RequesterID],
		})
	}
	return out, nil
}

// SetCloseFriend flags an accepted friendship as a close-friend relation for
// either participant.
func (s *Service) SetCloseFriend(ctx context.Context, friendshipID string, userID int64, close bool) error {
	return s.repo.SetCloseFriend(ctx, friendshipID, userID, close)
}

func (s *Service) notify(ctx context.Context, recipientID int64, notifType string, actorID int64, friendshipID string) {
	if s.notifs == nil {
		return
	}

	username := ""
	if profiles, err := s.users.ProfilesByID(ctx, []int64{actorID}); err == nil {
		username = profiles[actorID].Username
	}

	err := s.notifs.Send(ctx, recipientID, notifType,
		map[string]string{"username": username},
		map[string]any{"friendship_id": friendshipID, "user_id": actorID})
	if err != nil {
		log.Printf("friendship notify type=%s recipient=%d err=%v", notifType, recipientID, err)
	}
}
