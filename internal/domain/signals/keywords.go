package signals

import "scamguard-lab/internal/domain/models"

// Weighted keyword tables, one per tactic category. Weights are additive
// per distinct keyword hit within a message. Tables are bilingual: they
// mix English terms with romanized Hindi equivalents because inbound
// scam messages in the target region freely switch between the two.

// Urgency tactics: the scammer wants the target to act before thinking
var urgencyKeywords = map[string]int{
	"urgent": 15, "immediately": 15, "right now": 12, "hurry": 12,
	"asap": 12, "quickly": 8, "fast action": 8,
	"expire": 15, "limited time": 15, "last chance": 18,
	"act now": 18, "don't wait": 12, "today only": 15,
	"within 24 hours": 18, "deadline": 12, "final notice": 20,
	"time sensitive": 15, "running out": 12, "expires today": 20,
	"hours left": 15, "minutes left": 18, "closing soon": 15,
	"jaldi karo": 12, "abhi karo": 10, "turant": 15,
}

// Account/verification pressure: pretending to be the target's bank
var verificationKeywords = map[string]int{
	"verify": 12, "confirm": 10, "update": 8,
	"account suspended": 22, "account blocked": 22, "blocked": 15,
	"deactivated": 18, "suspended": 18, "secure your": 12,
	"validate": 12, "authentication": 10, "kyc": 18,
	"reactivate": 15, "unlock": 12, "restore": 10,
	"verification required": 20, "verify immediately": 25,
	"re-kyc": 20, "kyc update": 18, "kyc expired": 22,
	"ekyc": 15, "video kyc": 18, "complete kyc": 18,
	"link aadhaar": 20, "link pan": 18, "update aadhaar": 18,
}

// Payment lures: lottery, refunds, prizes
var paymentKeywords = map[string]int{
	"refund": 18, "cashback": 15, "reward": 15,
	"prize": 20, "won": 18, "winner": 20, "lottery": 25,
	"transfer": 10, "payment": 8, "bank": 8,
	"upi": 12, "account number": 15, "ifsc": 12,
	"card": 10, "credit": 8, "debit": 8,
	"paytm": 10, "phonepe": 10, "googlepay": 10, "gpay": 10,
	"send money": 18, "pay now": 15, "processing fee": 20,
	"claim your": 18, "collect your": 15, "tax refund": 22,
	"income tax refund": 25, "gst refund": 22, "excess payment": 18,
	"double your money": 30, "guaranteed returns": 28, "investment scheme": 20,
	"crypto": 15, "bitcoin": 15, "trading profit": 22,
}

// Threats and intimidation
var threatKeywords = map[string]int{
	"legal action": 25, "police complaint": 20, "arrest warrant": 25,
	"penalty": 18, "heavy fine": 15, "court case": 20,
	"jail time": 25, "under investigation": 18, "case filed": 22,
	"arrest you": 25, "fraud case": 22, "cyber crime": 20,
	"legal notice": 22, "fir registered": 20, "fir filed": 20,
	"cbi case": 25, "enforcement directorate": 25, "e.d. case": 22,
	"money laundering case": 28, "hawala": 25, "terror funding": 30,
	"your name is involved": 22, "case registered against": 22,
	"digital arrest": 28, "video call arrest": 30,
}

// Government impersonation
var govtImpersonationKeywords = map[string]int{
	"rbi": 25, "reserve bank": 25, "income tax": 20,
	"it department": 22, "customs": 20, "telecom department": 22,
	"trai": 22, "dot": 18, "department of telecom": 22,
	"ministry": 18, "government of india": 20, "goi": 15,
	"uidai": 22, "npci": 20, "sebi": 20, "irda": 18,
	"passport office": 18, "embassy": 18, "consulate": 18,
	"pmo": 25, "prime minister office": 25, "cm office": 22,
	"police commissioner": 22, "dgp": 22, "ips officer": 22,
	"central government": 20, "state government": 18,
	"pradhan mantri": 20, "pm scheme": 18, "govt scheme": 18,
}

// Identity-document fraud (Aadhaar/PAN)
var identityScamKeywords = map[string]int{
	"aadhaar": 15, "aadhar": 15, "pan card": 15,
	"aadhaar linked": 20, "pan linked": 18,
	"aadhaar will be blocked": 28, "pan will be suspended": 25,
	"aadhaar deactivated": 25, "pan deactivated": 25,
	"update aadhaar": 18, "aadhaar otp": 22,
	"aadhaar number used": 22, "pan number misused": 22,
	"multiple pan": 22, "duplicate aadhaar": 22,
	"aadhaar verification": 20, "pan verification": 18,
	"12 digit": 12, "10 digit pan": 12,
}

// Telecom/SIM fraud
var telecomScamKeywords = map[string]int{
	"sim block": 22, "sim deactivate": 22, "number will be blocked": 22,
	"illegal activities from your number": 28,
	"your number used for fraud": 25, "trai notice": 22,
	"telecom violation": 22, "sim verification": 18,
	"port your number": 15, "airtel": 10, "jio": 10, "vi": 10,
	"bsnl": 10, "mobile number linked": 15,
}

// Courier/delivery fraud
var courierScamKeywords = map[string]int{
	"parcel": 15, "courier": 15, "package": 12,
	"parcel seized": 25, "drugs found": 30, "illegal items": 28,
	"customs duty": 22, "package held": 20, "delivery failed": 15,
	"address verification": 18, "fedex": 12, "dhl": 12,
	"bluedart": 12, "delhivery": 10, "delivery boy": 10,
}

// Job/loan fraud
var jobLoanScamKeywords = map[string]int{
	"work from home": 18, "part time job": 18, "earn from home": 20,
	"typing job": 20, "data entry job": 18, "online job": 15,
	"instant loan": 22, "loan approved": 22, "pre-approved loan": 22,
	"processing charges": 20, "registration fee": 22,
	"advance payment": 22, "security deposit": 20,
	"earn daily": 20, "earn weekly": 18, "guaranteed income": 25,
	"no investment": 15, "investment required": 18,
}

// categoryTables fixes the scan order of the keyword layer
var categoryTables = []struct {
	category models.Category
	keywords map[string]int
}{
	{models.CategoryUrgency, urgencyKeywords},
	{models.CategoryVerification, verificationKeywords},
	{models.CategoryPayment, paymentKeywords},
	{models.CategoryThreat, threatKeywords},
	{models.CategoryGovtImpersonation, govtImpersonationKeywords},
	{models.CategoryIdentityScam, identityScamKeywords},
	{models.CategoryTelecomScam, telecomScamKeywords},
	{models.CategoryCourierScam, courierScamKeywords},
	{models.CategoryJobLoanScam, jobLoanScamKeywords},
}

// CategoryPriority resolves a scam type from triggered categories when no
// compound template matched. Evaluated in order, first triggered category
// wins. Kept as a first-class constant so the ordering is testable.
var CategoryPriority = []struct {
	Category models.Category
	ScamType models.ScamType
}{
	{models.CategoryGovtImpersonation, models.ScamTypeGovtImpersonation},
	{models.CategoryIdentityScam, models.ScamTypeIdentityTheft},
	{models.CategoryTelecomScam, models.ScamTypeTelecomScam},
	{models.CategoryCourierScam, models.ScamTypeCourierScam},
	{models.CategoryJobLoanScam, models.ScamTypeJobLoanScam},
	{models.CategoryThreat, models.ScamTypeIntimidationScam},
	{models.CategoryPayment, models.ScamTypePaymentScam},
	{models.CategoryVerification, models.ScamTypePhishing},
}
