package signals

import "scamguard-lab/internal/domain/models"

// Template couples two signal terms within a bounded character window.
// A template hit is worth more than either term alone and carries the
// scam-type label for the session.
type Template struct {
	Expr   string
	Weight int
	Label  models.ScamType
}

// scamTemplates is an ordered list: the first matching template's label
// becomes the message's candidate scam type.
var scamTemplates = []Template{
	// RBI/bank impersonation
	{`(rbi|reserve bank|bank).{0,30}(kyc|verify|update|suspend|block)`, 35, models.ScamTypeBankImpersonation},
	{`(account|card).{0,20}(block|suspend|deactivat|terminat)`, 30, models.ScamTypeAccountThreat},

	// Government impersonation plus threat
	{`(police|cbi|ed|cyber).{0,30}(case|arrest|warrant|investigation)`, 40, models.ScamTypeGovtThreat},
	{`(aadhaar|aadhar|pan).{0,30}(block|suspend|deactivat|illegal|misuse)`, 35, models.ScamTypeIdentityThreat},

	// Telecom
	{`(sim|number|mobile).{0,30}(block|deactivat|illegal|fraud)`, 35, models.ScamTypeTelecomScam},
	{`(trai|dot|telecom).{0,30}(notice|violation|complaint)`, 32, models.ScamTypeTelecomImpersonation},

	// Courier
	{`(parcel|courier|package).{0,30}(drugs|illegal|seiz|customs)`, 40, models.ScamTypeCourierScam},

	// Money lures
	{`(won|winner|prize|lottery).{0,30}(claim|collect|receive|₹|\$)`, 35, models.ScamTypeLotteryScam},
	{`(refund|cashback).{0,30}(process|claim|receive|pending)`, 30, models.ScamTypeRefundScam},

	// Job/loan
	{`(job|work|earn).{0,30}(home|online|daily|weekly|guaranteed)`, 28, models.ScamTypeJobScam},
	{`(loan|credit).{0,30}(approved|sanction|instant|pre-approved)`, 28, models.ScamTypeLoanScam},

	// OTP/credential fishing
	{`(otp|password|pin|cvv).{0,20}(share|send|enter|provide)`, 40, models.ScamTypeCredentialPhishing},
	{`share.{0,20}(otp|password|pin|cvv)`, 40, models.ScamTypeCredentialPhishing},

	// Urgency plus action
	{`(urgent|immediate|asap).{0,30}(pay|transfer|send|click)`, 32, models.ScamTypeUrgentAction},

	// Digital arrest
	{`(video|zoom|skype).{0,30}(arrest|custody|investigation)`, 45, models.ScamTypeDigitalArrest},
	{`(digital|online).{0,20}arrest`, 45, models.ScamTypeDigitalArrest},

	// Investment
	{`(invest|trading).{0,30}(guaranteed|double|triple|profit)`, 35, models.ScamTypeInvestmentScam},
	{`(crypto|bitcoin|forex).{0,30}(profit|return|guaranteed)`, 35, models.ScamTypeCryptoScam},
}

// linkPatterns flag suspicious URLs, shorteners, and messaging-app links.
// A single flat bonus applies per message regardless of match count.
var linkPatterns = []string{
	`https?://[^\s]+`,
	`bit\.ly`, `tinyurl`, `goo\.gl`, `t\.co`,
	`click here`, `click this`, `tap here`, `click below`,
	`link:`, `visit:`, `open this`,
	`wa\.me`, `whatsapp\.com`,
	`t\.me`, `telegram`,
	`[a-z0-9]{8,}\.xyz`, `[a-z0-9]{8,}\.top`,
	`[a-z0-9]{8,}\.online`, `[a-z0-9]{8,}\.site`,
}

// escalationPhrases mark pressure ramps across a conversation; each
// distinct phrase present adds the escalation bonus once.
var escalationPhrases = []string{
	"last warning", "final chance", "we tried to contact",
	"this is your last", "if you don't respond", "action will be taken",
	"we are forced to", "no other option", "compelled to proceed",
}
