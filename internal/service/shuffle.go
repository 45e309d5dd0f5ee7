package service

import (
	"hash/fnv"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/stemsi/examcore-backend/internal/model"
)

// shuffleQuestionOrder returns an unbiased random permutation of the given
// question ids. Called exactly once per attempt, at start time; the result
// is frozen into the attempt row and never recomputed.
func shuffleQuestionOrder(ids []uuid.UUID) []uuid.UUID {
	order := make([]uuid.UUID, len(ids))
	copy(order, ids)
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// optionRand returns a PRNG seeded deterministically from the attempt and
// question ids. Repeated fetches within one attempt therefore present the
// options in the same order, while different attempts see different orders.
func optionRand(attemptID, questionID uuid.UUID) *rand.Rand {
	h := fnv.New64a()
	h.Write(attemptID[:])
	h.Write([]byte{':'})
	h.Write(questionID[:])
	seed := h.Sum64()
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// orderOptions returns a question's answer options in display order: the
// stored order_index order when shuffling is off, or a permutation derived
// from (attemptID, questionID) when it is on. Input options are expected
// in stored order.
func orderOptions(attemptID, questionID uuid.UUID, options []model.AnswerOption, shuffle bool) []model.AnswerOption {
	ordered := make([]model.AnswerOption, len(options))
	copy(ordered, options)
	if !shuffle {
		return ordered
	}
	r := optionRand(attemptID, questionID)
	r.Shuffle(len(ordered), func(i, j int) {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	})
	return ordered
}
