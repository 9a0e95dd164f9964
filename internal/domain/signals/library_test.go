package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamguard-lab/internal/domain/models"
)

func TestNewLibrary(t *testing.T) {
	lib, err := NewLibrary()
	require.NoError(t, err)
	require.NotNil(t, lib)
	assert.Len(t, lib.categories, len(categoryTables))
	assert.Len(t, lib.templates, len(scamTemplates))
}

func TestMatchKeywordsWholeWord(t *testing.T) {
	lib, err := NewLibrary()
	require.NoError(t, err)

	t.Run("substring does not match", func(t *testing.T) {
		// "know" contains "now" but must not trigger urgency
		hits := lib.MatchKeywords("i don't know the answer")
		assert.Empty(t, hits)
	})

	t.Run("whole word matches", func(t *testing.T) {
		hits := lib.MatchKeywords("act now please")
		require.Len(t, hits, 1)
		assert.Equal(t, models.CategoryUrgency, hits[0].Category)
		assert.Equal(t, "act now", hits[0].Term)
		assert.Equal(t, 18, hits[0].Weight)
	})

	t.Run("multiple categories", func(t *testing.T) {
		hits := lib.MatchKeywords("urgent kyc")
		require.Len(t, hits, 2)
		categories := map[models.Category]bool{}
		for _, h := range hits {
			categories[h.Category] = true
		}
		assert.True(t, categories[models.CategoryUrgency])
		assert.True(t, categories[models.CategoryVerification])
	})
}

func TestMatchTemplates(t *testing.T) {
	lib, err := NewLibrary()
	require.NoError(t, err)

	tests := []struct {
		name  string
		text  string
		label models.ScamType
	}{
		{"bank impersonation", "rbi needs your kyc", models.ScamTypeBankImpersonation},
		{"account threat", "your account will be blocked", models.ScamTypeAccountThreat},
		{"credential phishing", "please share your otp", models.ScamTypeCredentialPhishing},
		{"digital arrest", "you are under digital arrest", models.ScamTypeDigitalArrest},
		{"courier", "your parcel contains drugs", models.ScamTypeCourierScam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := lib.MatchTemplates(tt.text)
			require.NotEmpty(t, hits)
			assert.Equal(t, tt.label, hits[0].Label)
		})
	}

	t.Run("benign text matches nothing", func(t *testing.T) {
		assert.Empty(t, lib.MatchTemplates("see you at dinner tonight"))
	})
}

func TestHasLink(t *testing.T) {
	lib, err := NewLibrary()
	require.NoError(t, err)

	assert.True(t, lib.HasLink("visit http://secure-verify.example/login"))
	assert.True(t, lib.HasLink("go to bit.ly/abc123"))
	assert.True(t, lib.HasLink("message me on wa.me please"))
	assert.False(t, lib.HasLink("meet me at the station"))
}

func TestMatchEscalation(t *testing.T) {
	lib, err := NewLibrary()
	require.NoError(t, err)

	matched := lib.MatchEscalation("this is your last warning before action will be taken")
	assert.Contains(t, matched, "last warning")
	assert.Contains(t, matched, "this is your last")
	assert.Contains(t, matched, "action will be taken")

	assert.Empty(t, lib.MatchEscalation("thanks for your patience"))
}

func TestInferScamType(t *testing.T) {
	tests := []struct {
		name       string
		categories []models.Category
		want       models.ScamType
	}{
		{
			"government outranks payment",
			[]models.Category{models.CategoryPayment, models.CategoryGovtImpersonation},
			models.ScamTypeGovtImpersonation,
		},
		{
			"verification alone is phishing",
			[]models.Category{models.CategoryVerification},
			models.ScamTypePhishing,
		},
		{
			"threat resolves to intimidation",
			[]models.Category{models.CategoryThreat, models.CategoryPayment},
			models.ScamTypeIntimidationScam,
		},
		{
			"urgency only falls through to generic",
			[]models.Category{models.CategoryUrgency},
			models.ScamTypeGenericScam,
		},
		{
			"nothing triggered",
			nil,
			models.ScamTypeGenericScam,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferScamType(tt.categories))
		})
	}
}
