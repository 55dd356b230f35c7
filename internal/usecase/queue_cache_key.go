package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
)

type queueCacheKeyInput struct {
	Scope           string `json:"scope"`
	Epoch           string `json:"epoch"`
	VacancyPeriodID string `json:"vacancy_period_id"`
}

// QueueCacheKey derives the cache key for one queue projection. The scope
// epoch is part of the hashed input, so bumping the epoch on a transition
// orphans every previously cached variant of that queue.
func QueueCacheKey(scope string, epoch int64, vacancyPeriodID *uuid.UUID) string {
	in := queueCacheKeyInput{
		Scope: scope,
		Epoch: strconv.FormatInt(epoch, 10),
	}
	if vacancyPeriodID != nil {
		in.VacancyPeriodID = vacancyPeriodID.String()
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "queues:" + scope + ":" + hex.EncodeToString(sum[:])
}
