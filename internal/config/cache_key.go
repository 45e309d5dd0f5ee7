package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ExamSummaryKey returns the cache key for an exam's display summary.
func (r *CacheKeyStruct) ExamSummaryKey(examID string) string {
	return fmt.Sprintf("exam:%s:summary", examID)
}

// AttemptDeadlinesKey returns the sorted-set key holding attempt deadlines
// (score = unix deadline, member = attempt id).
func (r *CacheKeyStruct) AttemptDeadlinesKey() string {
	return "attempt_deadlines"
}

var CacheKey = NewCacheKeyStruct()
