package services

import "ecochat-core/models"

type pairOp string

const (
	opRequest pairOp = "request"
	opAccept  pairOp = "accept"
	opDecline pairOp = "decline"
	opRemove  pairOp = "remove"
)

// nextPairState is the only place that decides whether an operation is legal
// for the current edge. actor performs op; other is the opposite user (the
// target of a request, or the original requester for accept/decline).
func nextPairState(edge *models.Friendship, op pairOp, actor, other uint) (models.PairState, error) {
	state := edge.State()

	switch op {
	case opRequest:
		if actor == other {
			return state, ErrSelfFriendRequest
		}
		switch state {
		case models.PairStateAccepted:
			return state, ErrAlreadyFriends
		case models.PairStatePending:
			// Covers a repeat request and a request back to someone who already asked.
			return state, ErrRequestAlreadyPending
		}
		return models.PairStatePending, nil

	case opAccept, opDecline:
		if state != models.PairStatePending || edge.AddresseeID != actor || edge.RequesterID != other {
			return state, ErrNoSuchRequest
		}
		if op == opAccept {
			return models.PairStateAccepted, nil
		}
		return models.PairStateNone, nil

	case opRemove:
		if state != models.PairStateAccepted {
			return state, ErrNoSuchFriendship
		}
		return models.PairStateNone, nil
	}

	return state, invalidInput("unsupported friendship operation")
}
