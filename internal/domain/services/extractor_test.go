package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamguard-lab/internal/infrastructure/store"
	"scamguard-lab/pkg/logger"
)

func newTestExtractor() *IntelligenceExtractor {
	return NewIntelligenceExtractor(store.NewMemoryIntelStore(), logger.Nop())
}

func TestExtractUPI(t *testing.T) {
	e := newTestExtractor()
	ctx := context.Background()

	t.Run("known handle", func(t *testing.T) {
		intel, err := e.Extract(ctx, "send money to rahul123@ybl today", "s1")
		require.NoError(t, err)
		assert.Equal(t, []string{"rahul123@ybl"}, intel.UPIIDs)
	})

	t.Run("generic handle", func(t *testing.T) {
		intel, err := e.Extract(ctx, "pay scammer99@okaxis now", "s2")
		require.NoError(t, err)
		assert.Contains(t, intel.UPIIDs, "scammer99@okaxis")
	})

	t.Run("email is not a UPI", func(t *testing.T) {
		intel, err := e.Extract(ctx, "write to support@fraudbank.com", "s3")
		require.NoError(t, err)
		assert.Empty(t, intel.UPIIDs)
		assert.Equal(t, []string{"support@fraudbank.com"}, intel.Emails)
	})
}

func TestExtractPhoneAndBankDisambiguation(t *testing.T) {
	e := newTestExtractor()
	ctx := context.Background()

	t.Run("ten digit mobile is a phone not a bank account", func(t *testing.T) {
		intel, err := e.Extract(ctx, "call me on 9876543210", "s1")
		require.NoError(t, err)
		assert.Equal(t, []string{"9876543210"}, intel.PhoneNumbers)
		assert.Empty(t, intel.BankAccounts)
	})

	t.Run("prefixed formats normalize to bare ten digits", func(t *testing.T) {
		for _, raw := range []string{"+91 9876543210", "91-9876543210", "98765 43210"} {
			intel, err := e.Extract(ctx, "contact "+raw, "s2-"+raw)
			require.NoError(t, err)
			assert.Equal(t, []string{"9876543210"}, intel.PhoneNumbers, "input %q", raw)
		}
	})

	t.Run("fourteen digit run is a bank account", func(t *testing.T) {
		intel, err := e.Extract(ctx, "deposit into 12345678901234", "s3")
		require.NoError(t, err)
		assert.Equal(t, []string{"12345678901234"}, intel.BankAccounts)
		assert.Empty(t, intel.PhoneNumbers)
	})

	t.Run("twelve digit run is excluded from bank accounts", func(t *testing.T) {
		// 12-digit runs are ambiguous with Aadhaar and deliberately skipped
		intel, err := e.Extract(ctx, "number is 123456789012", "s4")
		require.NoError(t, err)
		assert.Empty(t, intel.BankAccounts)
	})

	t.Run("mixed message yields one UPI and one phone", func(t *testing.T) {
		intel, err := e.Extract(ctx, "send to rahul123@ybl or call 9876543210", "s5")
		require.NoError(t, err)
		assert.Equal(t, []string{"rahul123@ybl"}, intel.UPIIDs)
		assert.Equal(t, []string{"9876543210"}, intel.PhoneNumbers)
		assert.Empty(t, intel.BankAccounts)
		assert.Empty(t, intel.Emails)
	})
}

func TestExtractIFSC(t *testing.T) {
	e := newTestExtractor()

	intel, err := e.Extract(context.Background(), "transfer to a/c 987654321012345 ifsc SBIN0001234", "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"SBIN0001234"}, intel.IFSCCodes)
	assert.Equal(t, []string{"987654321012345"}, intel.BankAccounts)
}

func TestExtractAadhaarMasked(t *testing.T) {
	e := newTestExtractor()
	ctx := context.Background()

	t.Run("spaced format", func(t *testing.T) {
		intel, err := e.Extract(ctx, "my aadhaar is 2345 6789 0123", "s1")
		require.NoError(t, err)
		assert.Equal(t, []string{"XXXX-XXXX-0123"}, intel.AadhaarNumbers)
	})

	t.Run("continuous digits", func(t *testing.T) {
		intel, err := e.Extract(ctx, "aadhaar 234567890123 linked", "s2")
		require.NoError(t, err)
		assert.Equal(t, []string{"XXXX-XXXX-0123"}, intel.AadhaarNumbers)
	})

	t.Run("never stores the full number", func(t *testing.T) {
		intel, err := e.Extract(ctx, "aadhaar 2345 6789 0123", "s3")
		require.NoError(t, err)
		for _, v := range intel.AadhaarNumbers {
			assert.NotContains(t, v, "23456789")
		}
	})

	t.Run("cannot start with 0 or 1", func(t *testing.T) {
		intel, err := e.Extract(ctx, "code 1234 5678 9012", "s4")
		require.NoError(t, err)
		assert.Empty(t, intel.AadhaarNumbers)
	})
}

func TestExtractPANMasked(t *testing.T) {
	e := newTestExtractor()

	intel, err := e.Extract(context.Background(), "pan card ABCPD1234E misused", "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"XXXXX1234X"}, intel.PANNumbers)
}

func TestExtractCryptoWallets(t *testing.T) {
	e := newTestExtractor()
	ctx := context.Background()

	intel, err := e.Extract(ctx, "pay to 0x52908400098527886E0F7030069857D2E4169EE7", "s1")
	require.NoError(t, err)
	require.Len(t, intel.CryptoWallets, 1)
	assert.Equal(t, "ethereum:0x529084...169EE7", intel.CryptoWallets[0])
}

func TestExtractLinks(t *testing.T) {
	e := newTestExtractor()

	intel, err := e.Extract(context.Background(), "click http://kyc-update.example/verify or bit.ly/x9y8z7", "s1")
	require.NoError(t, err)
	assert.Contains(t, intel.PhishingLinks, "http://kyc-update.example/verify")
	assert.Contains(t, intel.PhishingLinks, "bit.ly/x9y8z7")
}

func TestExtractMessagingIDs(t *testing.T) {
	e := newTestExtractor()
	ctx := context.Background()

	intel, err := e.Extract(ctx, "whatsapp 9876543210 for details", "s1")
	require.NoError(t, err)
	assert.Contains(t, intel.MessagingIDs, "whatsapp:9876543210")

	intel, err = e.Extract(ctx, "message telegram @fraud_help99", "s2")
	require.NoError(t, err)
	assert.Contains(t, intel.MessagingIDs, "telegram:fraud_help99")
}

func TestExtractSuspiciousKeywords(t *testing.T) {
	e := newTestExtractor()

	intel, err := e.Extract(context.Background(), "urgent kyc update, share otp immediately", "s1")
	require.NoError(t, err)
	assert.Contains(t, intel.SuspiciousKeywords, "urgent")
	assert.Contains(t, intel.SuspiciousKeywords, "kyc update")
	assert.Contains(t, intel.SuspiciousKeywords, "share otp")
	assert.Contains(t, intel.SuspiciousKeywords, "immediately")
}

func TestIntelligenceAccumulates(t *testing.T) {
	e := newTestExtractor()
	ctx := context.Background()

	_, err := e.Extract(ctx, "call 9876543210", "s1")
	require.NoError(t, err)
	intel, err := e.Extract(ctx, "or pay rahul123@ybl", "s1")
	require.NoError(t, err)

	assert.Equal(t, []string{"9876543210"}, intel.PhoneNumbers)
	assert.Equal(t, []string{"rahul123@ybl"}, intel.UPIIDs)

	// Repeats do not duplicate
	intel, err = e.Extract(ctx, "again: call 9876543210", "s1")
	require.NoError(t, err)
	assert.Len(t, intel.PhoneNumbers, 1)
}

func TestHasIntelligence(t *testing.T) {
	e := newTestExtractor()
	ctx := context.Background()

	has, err := e.HasIntelligence(ctx, "nothing")
	require.NoError(t, err)
	assert.False(t, has)

	// Keywords alone are not actionable intelligence
	_, err = e.Extract(ctx, "urgent, act fast", "kw-only")
	require.NoError(t, err)
	has, err = e.HasIntelligence(ctx, "kw-only")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = e.Extract(ctx, "pay rahul123@ybl", "with-upi")
	require.NoError(t, err)
	has, err = e.HasIntelligence(ctx, "with-upi")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSummaryAndAllIdentifiers(t *testing.T) {
	e := newTestExtractor()
	ctx := context.Background()

	_, err := e.Extract(ctx, "pay rahul123@ybl or call 9876543210", "s1")
	require.NoError(t, err)

	summary, err := e.Summary(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, summary["upiIds"])
	assert.Equal(t, 1, summary["phoneNumbers"])

	ids, err := e.AllIdentifiers(ctx, "s1")
	require.NoError(t, err)
	assert.Contains(t, ids, "UPI: rahul123@ybl")
	assert.Contains(t, ids, "Phone: 9876543210")
}
