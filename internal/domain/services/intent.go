package services

import (
	"regexp"
	"strings"

	"scamguard-lab/pkg/logger"
)

// Intent is the rule-based intent label assigned to one message
type Intent string

const (
	IntentGreeting       Intent = "GREETING"
	IntentSelfIntro      Intent = "SELF_INTRO"
	IntentSmallTalk      Intent = "SMALL_TALK"
	IntentIdentityProbe  Intent = "IDENTITY_PROBE"
	IntentTopicProbe     Intent = "TOPIC_PROBE"
	IntentUrgency        Intent = "URGENCY"
	IntentPaymentRequest Intent = "PAYMENT_REQUEST"
	IntentBankRequest    Intent = "BANK_REQUEST"
	IntentOTPRequest     Intent = "OTP_REQUEST"
	IntentLegalThreat    Intent = "LEGAL_THREAT"
	IntentEscalation     Intent = "ESCALATION"
	IntentGenericText    Intent = "GENERIC_TEXT"
)

type intentSpec struct {
	name     Intent
	risk     int
	keywords []string
	// maxWords caps the message length for short-form intents like
	// greetings; 0 means no cap
	maxWords int
}

// intentCatalog is ordered by priority: when multiple intents match at
// equal risk, the earlier entry wins. Keywords mix English and Hindi
// since that is what the traffic looks like.
var intentCatalog = []intentSpec{
	{
		name: IntentOTPRequest, risk: 50,
		keywords: []string{
			"share otp", "send otp", "tell otp", "otp batao",
			"otp bhejo", "otp share karo", "verification code",
			"6 digit code", "one time password",
			"code batao", "code share karo", "otp kya aaya",
			"otp forward karo",
		},
	},
	{
		name: IntentPaymentRequest, risk: 40,
		keywords: []string{
			"send money", "transfer money", "pay now", "pay immediately",
			"processing fee", "registration fee", "fine", "penalty amount",
			"send to this account", "send to this upi",
			"paisa bhejo", "paise transfer karo", "amount bhejo",
			"raqam bhejo", "fees bhariye", "jurmana bharo",
			"neft karo", "imps karo", "upi se bhejo",
		},
	},
	{
		name: IntentBankRequest, risk: 40,
		keywords: []string{
			"account number", "bank account", "ifsc code",
			"debit card number", "credit card number", "card number",
			"cvv", "expiry date", "pin number", "atm pin",
			"khata number batao", "card ka number",
			"account details do", "bank details chahiye",
		},
	},
	{
		name: IntentLegalThreat, risk: 35,
		keywords: []string{
			"arrest warrant", "fir filed", "fir registered",
			"legal action", "court case", "police complaint",
			"jail", "prison", "custody", "investigation",
			"giraftar", "jail bhejenge", "case darj",
			"warrant nikla", "police bhejenge", "kanooni karwai",
			"arrest hoga", "pakad lenge",
		},
	},
	{
		name: IntentUrgency, risk: 30,
		keywords: []string{
			"immediately", "right now", "urgent", "hurry", "asap",
			"within 24 hours", "within 1 hour", "time is running",
			"last chance", "final notice", "deadline", "expires today",
			"abhi karo", "turant", "jaldi karo", "fauran",
			"der mat karo", "waqt nahi hai", "akhri mauka",
			"abhi ke abhi", "aaj hi karna hoga", "band ho jayega",
		},
	},
	{
		name: IntentEscalation, risk: 25,
		keywords: []string{
			"last warning", "final chance", "if you don't respond",
			"action will be taken", "no other option",
			"we are forced", "compelled to proceed",
			"aakhri warning", "aakhri chetavni", "majboor hain",
			"jawab nahi diya toh", "karwahi hogi",
			"consequences", "you will regret", "don't blame us",
		},
	},
	{
		name: IntentIdentityProbe, risk: 5,
		keywords: []string{
			"what is your name", "naam kya hai", "aapka naam",
			"where do you live", "kahan rehte", "address kya hai",
			"your aadhaar", "your pan", "your account",
			"date of birth", "dob", "father name", "mother name",
			"pita ka naam", "mata ka naam",
		},
	},
	{
		name: IntentTopicProbe, risk: 5,
		keywords: []string{
			"do you know", "have you heard", "are you aware",
			"did you receive", "aapko pata hai", "suna hai aapne",
			"notice mila", "letter aaya", "email aaya",
			"sms aaya kya", "notification aaya",
		},
	},
	{
		name: IntentSmallTalk, risk: 0,
		keywords: []string{
			"how are you", "kaise ho", "kya haal", "everything ok",
			"how is your health", "tabiyat kaisi", "sab theek",
			"what are you doing", "kya kar rahe", "good good",
			"nice to talk", "achha hai", "theek hai ji",
		},
	},
	{
		name: IntentSelfIntro, risk: 0,
		keywords: []string{
			"my name is", "i am calling from", "this is", "speaking from",
			"i'm from", "calling from", "mera naam", "main bol raha",
			"department se", "ministry se", "bank se bol raha",
			"officer", "inspector", "sir ji main",
		},
	},
	{
		name: IntentGreeting, risk: 0,
		keywords: []string{
			"hi", "hello", "hey", "hii", "hiii", "helo",
			"good morning", "good afternoon", "good evening", "good night",
			"gm", "gn", "morning", "evening",
			"namaste", "namaskar", "namaskaaram",
			"howdy", "greetings", "sup", "yo",
			"haan ji", "ji", "haanji",
		},
		maxWords: 4,
	},
}

// IntentResult is the classifier output for one message
type IntentResult struct {
	Intent          Intent   `json:"intent"`
	RiskIncrement   int      `json:"risk_increment"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// IntentClassifier assigns each message one of twelve intent labels using
// word-boundary keyword matching. Fully rule-based; it runs before the
// risk scorer and its risk increment feeds the session's cumulative
// score.
type IntentClassifier struct {
	patterns map[Intent][]*regexp.Regexp
	logger   *logger.Logger
}

// NewIntentClassifier compiles the intent catalog
func NewIntentClassifier(log *logger.Logger) *IntentClassifier {
	patterns := make(map[Intent][]*regexp.Regexp, len(intentCatalog))
	for _, spec := range intentCatalog {
		compiled := make([]*regexp.Regexp, len(spec.keywords))
		for i, kw := range spec.keywords {
			compiled[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
		}
		patterns[spec.name] = compiled
	}
	return &IntentClassifier{
		patterns: patterns,
		logger:   log.WithComponent("intent-classifier"),
	}
}

// Classify picks the matching intent with the highest risk increment;
// ties resolve to the higher-priority catalog entry. Messages matching
// nothing are GENERIC_TEXT.
func (c *IntentClassifier) Classify(text string) IntentResult {
	cleaned := strings.ToLower(strings.TrimSpace(text))
	wordCount := len(strings.Fields(cleaned))

	best := IntentResult{Intent: IntentGenericText}
	bestRisk := -1

	for _, spec := range intentCatalog {
		if spec.maxWords > 0 && wordCount > spec.maxWords {
			continue
		}
		var matched []string
		for i, pattern := range c.patterns[spec.name] {
			if pattern.MatchString(cleaned) {
				matched = append(matched, spec.keywords[i])
			}
		}
		if len(matched) > 0 && spec.risk > bestRisk {
			best = IntentResult{
				Intent:          spec.name,
				RiskIncrement:   spec.risk,
				MatchedKeywords: matched,
			}
			bestRisk = spec.risk
		}
	}

	return best
}
