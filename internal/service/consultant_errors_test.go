package service

import (
	"errors"
	"fmt"
	"testing"

	"mbti-universe/internal/llm"
)

func TestClassifyFailure(t *testing.T) {
	cases := []struct {
		err     error
		outcome string
		reply   string
	}{
		{llm.ErrMissingAPIKey, OutcomeMissingAPIKey, ReplyMissingAPIKey},
		{fmt.Errorf("gemini create chat: %w", llm.ErrMissingAPIKey), OutcomeMissingAPIKey, ReplyMissingAPIKey},
		{errors.New("API key not valid"), OutcomeAuthFailed, ReplyAuthFailed},
		{errors.New("llm http error: status=401"), OutcomeAuthFailed, ReplyAuthFailed},
		{errors.New("UNAUTHENTICATED: request had invalid credentials"), OutcomeAuthFailed, ReplyAuthFailed},
		{errors.New("llm http error: status=429"), OutcomeRateLimited, ReplyRateLimited},
		{errors.New("Quota exceeded for metric"), OutcomeRateLimited, ReplyRateLimited},
		// Un error con ambas marcas cuenta como límite de uso.
		{errors.New("api key project quota exhausted"), OutcomeRateLimited, ReplyRateLimited},
		{errors.New("context deadline exceeded"), OutcomeFailed, ReplyGenericFailure},
	}

	for _, tc := range cases {
		outcome, reply := classifyFailure(tc.err)
		if outcome != tc.outcome || reply != tc.reply {
			t.Fatalf("%q: expected %s, got %s", tc.err, tc.outcome, outcome)
		}
	}
}
