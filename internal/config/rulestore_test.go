package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rulesDoc(t *testing.T, year int) string {
	t.Helper()
	data, err := os.ReadFile(fmt.Sprintf("rules/%d.yaml", year))
	require.NoError(t, err)
	return string(data)
}

func mapStore(docs map[string]string) *RuleStore {
	fsys := fstest.MapFS{}
	for name, doc := range docs {
		fsys[name] = &fstest.MapFile{Data: []byte(doc)}
	}
	return NewRuleStore(fsys)
}

// countingFS counts opens of rule documents.
type countingFS struct {
	fs.FS
	opens atomic.Int32
}

func (c *countingFS) Open(name string) (fs.File, error) {
	if strings.HasSuffix(name, ".yaml") {
		c.opens.Add(1)
	}
	return c.FS.Open(name)
}

func TestEmbeddedRuleStore(t *testing.T) {
	store := NewEmbeddedRuleStore()
	assert.Equal(t, []int{2024, 2025}, store.Years())

	for _, year := range store.Years() {
		rs, err := store.Load(year)
		require.NoError(t, err, "year %d", year)
		assert.Equal(t, year, rs.Year)
		assert.Len(t, rs.Brackets, 5)
	}

	rs, err := store.Load(2024)
	require.NoError(t, err)
	assert.True(t, rs.Abattements["micro_bnc"].Equal(decimal.RequireFromString("0.34")))
	assert.True(t, rs.MicroThresholds[domain.ActivityBNC].Equal(decimal.NewFromInt(77700)))
}

func TestRuleStore_UnsupportedYear(t *testing.T) {
	store := NewEmbeddedRuleStore()
	_, err := store.Load(2019)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedYear)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	var uerr *domain.UnsupportedYearError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, 2019, uerr.Year)
	assert.Equal(t, []int{2024, 2025}, uerr.Supported)
	assert.Contains(t, err.Error(), "supported: 2024, 2025")
}

func TestRuleStore_MalformedDocuments(t *testing.T) {
	doc := rulesDoc(t, 2024)

	tests := []struct {
		name   string
		edit   func(string) string
		is     error
		reason string
	}{
		{
			name:   "overlapping brackets",
			edit:   func(s string) string { return strings.Replace(s, "{ lower: 28797, upper: 82341", "{ lower: 28000, upper: 82341", 1) },
			is:     domain.ErrArithmeticInvariant,
			reason: "overlaps previous bracket",
		},
		{
			name:   "gap between brackets",
			edit:   func(s string) string { return strings.Replace(s, "{ lower: 28797, upper: 82341", "{ lower: 29000, upper: 82341", 1) },
			is:     domain.ErrArithmeticInvariant,
			reason: "leaves a gap",
		},
		{
			name:   "decreasing rates",
			edit:   func(s string) string { return strings.Replace(s, "upper: 177106, rate: 0.41", "upper: 177106, rate: 0.25", 1) },
			is:     domain.ErrArithmeticInvariant,
			reason: "non-decreasing",
		},
		{
			name:   "closed last bracket",
			edit:   func(s string) string { return strings.Replace(s, "{ lower: 177106, rate: 0.45 }", "{ lower: 177106, upper: 500000, rate: 0.45 }", 1) },
			is:     domain.ErrArithmeticInvariant,
			reason: "open-ended",
		},
		{
			name:   "missing abattement",
			edit:   func(s string) string { return strings.Replace(s, "  micro_bic_vente: 0.71\n", "", 1) },
			is:     domain.ErrConfiguration,
			reason: "abattements.micro_bic_vente",
		},
		{
			name:   "unknown field",
			edit:   func(s string) string { return s + "\nsurprise: 1\n" },
			is:     domain.ErrConfiguration,
			reason: "surprise",
		},
		{
			name:   "bad alert ratio",
			edit:   func(s string) string { return strings.Replace(s, "threshold_alert_ratio: 0.9", "threshold_alert_ratio: 1.2", 1) },
			is:     domain.ErrConfiguration,
			reason: "threshold_alert_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edited := tt.edit(doc)
			require.NotEqual(t, doc, edited, "edit did not apply")

			_, err := mapStore(map[string]string{"2024.yaml": edited}).Load(2024)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestRuleStore_MissingRequiredKeys(t *testing.T) {
	doc := rulesDoc(t, 2024)

	tests := []struct {
		old string
		new string
		key string
	}{
		{"  floor: 4399\n", "", "per.floor"},
		{"  floor: 4399\n", "  floor:\n", "per.floor"},
		{"social_contribution_tolerance: 100\n", "", "social_contribution_tolerance"},
		{"allow_professional_loss: true\n", "", "allow_professional_loss"},
		{"description: Barème 2024 (revenus 2023)\n", "", "description"},
		{"    min_net_tax: 5000\n", "", "strategies.overseas.min_net_tax"},
		{"    min_net_tax: 300\n", "", "strategies.simple_deductions.min_net_tax"},
		{"    min_marginal_rate: 0.11\n", "", "strategies.per.min_marginal_rate"},
		{"    min_marginal_rate: 0.30\n", "", "strategies.furnished_rental.min_marginal_rate"},
		{"    running_cost: 2500\n", "", "strategies.company_structure.running_cost"},
		{"    min_saving: 100\n", "", "strategies.regime_switch.min_saving"},
		{"{ lower: 11294, upper: 28797, rate: 0.11 }", "{ lower: 11294, upper: 28797 }", "brackets[1].rate"},
		{"{ lower: 0, upper: 11294, rate: 0 }", "{ upper: 11294, rate: 0 }", "brackets[0].lower"},
		{"{ kind: percent_of_income, amount: 0.20 }", "{ kind: percent_of_income }", "reductions.donations.ceiling.amount"},
		{"  bnc: 0.218\n", "  bnc:\n", "social_contribution_rates.bnc"},
		{"  couple_parts: 2\n", "", "quotient_familial.couple_parts"},
		{"  high_priority_max_risk: low\n", "", "optimizer.high_priority_max_risk"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			edited := strings.Replace(doc, tt.old, tt.new, 1)
			require.NotEqual(t, doc, edited, "edit did not apply")

			_, err := mapStore(map[string]string{"2024.yaml": edited}).Load(2024)
			var cerr *domain.ConfigurationError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.key, cerr.Key)
			assert.Equal(t, "missing", cerr.Reason)
		})
	}
}

func TestRuleStore_OptionalKeys(t *testing.T) {
	doc := rulesDoc(t, 2024)
	edited := strings.Replace(doc, ", max: 15000 }", " }", 1)
	edited = strings.Replace(edited, "    independent: 81385\n", "", 1)
	require.NotEqual(t, doc, edited)

	rs, err := mapStore(map[string]string{"2024.yaml": edited}).Load(2024)
	require.NoError(t, err)
	assert.Nil(t, rs.Reductions[domain.ReductionHouseholdServices].Ceiling.Max)
	assert.Len(t, rs.PER.CeilingByStatus, 1)
}

func TestRuleStore_YearMismatch(t *testing.T) {
	store := mapStore(map[string]string{"2023.yaml": rulesDoc(t, 2024)})
	_, err := store.Load(2023)

	var cerr *domain.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "year", cerr.Key)
	assert.False(t, errors.Is(err, domain.ErrUnsupportedYear))
}

func TestRuleStore_Caching(t *testing.T) {
	cfs := &countingFS{FS: fstest.MapFS{"2024.yaml": &fstest.MapFile{Data: []byte(rulesDoc(t, 2024))}}}
	store := NewRuleStore(cfs)

	first, err := store.Load(2024)
	require.NoError(t, err)
	second, err := store.Load(2024)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), cfs.opens.Load())
}

func TestRuleStore_ConcurrentLoad(t *testing.T) {
	cfs := &countingFS{FS: fstest.MapFS{"2024.yaml": &fstest.MapFile{Data: []byte(rulesDoc(t, 2024))}}}
	store := NewRuleStore(cfs)

	const n = 32
	results := make([]*domain.RuleSet, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rs, err := store.Load(2024)
			if err == nil {
				results[i] = rs
			}
		}()
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		require.NotNil(t, results[i])
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, int32(1), cfs.opens.Load())
}

func TestRuleStore_FailuresAreNotCached(t *testing.T) {
	fsys := fstest.MapFS{}
	store := NewRuleStore(fsys)

	_, err := store.Load(2024)
	require.ErrorIs(t, err, domain.ErrUnsupportedYear)

	fsys["2024.yaml"] = &fstest.MapFile{Data: []byte(rulesDoc(t, 2024))}
	rs, err := store.Load(2024)
	require.NoError(t, err)
	assert.Equal(t, 2024, rs.Year)
}

func TestNewDirRuleStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/2024.yaml", []byte(rulesDoc(t, 2024)), 0o600))
	require.NoError(t, os.WriteFile(dir+"/notes.yaml", []byte("x: 1\n"), 0o600))

	store, err := NewDirRuleStore(dir)
	require.NoError(t, err)
	assert.Equal(t, []int{2024}, store.Years())

	_, err = NewDirRuleStore(dir + "/2024.yaml")
	assert.Error(t, err)
	_, err = NewDirRuleStore(dir + "/missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
