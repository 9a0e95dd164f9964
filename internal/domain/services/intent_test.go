package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scamguard-lab/pkg/logger"
)

func TestClassifyIntent(t *testing.T) {
	c := NewIntentClassifier(logger.Nop())

	tests := []struct {
		name string
		text string
		want Intent
		risk int
	}{
		{"greeting", "hello ji", IntentGreeting, 0},
		{"hindi greeting", "namaste", IntentGreeting, 0},
		{"self intro", "i am calling from the bank fraud department", IntentSelfIntro, 0},
		{"small talk", "how are you today sir", IntentSmallTalk, 0},
		{"identity probe", "what is your name and date of birth", IntentIdentityProbe, 5},
		{"topic probe", "did you receive our notice", IntentTopicProbe, 5},
		{"urgency", "you must act within 24 hours", IntentUrgency, 30},
		{"payment request", "pay now via upi se bhejo", IntentPaymentRequest, 40},
		{"bank request", "tell me your account number and cvv", IntentBankRequest, 40},
		{"otp request", "share otp to complete verification", IntentOTPRequest, 50},
		{"legal threat", "an arrest warrant has been issued", IntentLegalThreat, 35},
		{"escalation", "this is your last warning", IntentEscalation, 25},
		{"generic", "the weather is nice here", IntentGenericText, 0},
		{"empty", "", IntentGenericText, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Classify(tt.text)
			assert.Equal(t, tt.want, result.Intent)
			assert.Equal(t, tt.risk, result.RiskIncrement)
		})
	}
}

func TestClassifyIntentPriority(t *testing.T) {
	c := NewIntentClassifier(logger.Nop())

	// OTP request (50) outranks urgency (30) when both match
	result := c.Classify("urgent, share otp immediately")
	assert.Equal(t, IntentOTPRequest, result.Intent)
	assert.Equal(t, 50, result.RiskIncrement)

	// Equal-risk tie resolves to the higher-priority catalog entry
	result = c.Classify("send money and give me your bank account")
	assert.Equal(t, IntentPaymentRequest, result.Intent)
}

func TestClassifyIntentGreetingWordCap(t *testing.T) {
	c := NewIntentClassifier(logger.Nop())

	// "hello" inside a long message is not a greeting
	result := c.Classify("hello sir your account has been flagged for review today")
	assert.NotEqual(t, IntentGreeting, result.Intent)
}

func TestClassifyIntentMatchedKeywords(t *testing.T) {
	c := NewIntentClassifier(logger.Nop())

	result := c.Classify("share otp and send otp now")
	assert.Contains(t, result.MatchedKeywords, "share otp")
	assert.Contains(t, result.MatchedKeywords, "send otp")
}
