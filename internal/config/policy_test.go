package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guilhermesealves/functions-site-boost-sub001/internal/models"
	"github.com/shopspring/decimal"
)

func TestDefaultPolicyIsValid(t *testing.T) {
	policy := DefaultPolicy()
	if err := policy.Validate(); err != nil {
		t.Fatalf("expected default policy to validate, got %v", err)
	}

	cases := map[string]int64{
		models.TierFree:       5,
		models.TierStarter:    15,
		models.TierPro:        30,
		models.TierEnterprise: 100,
	}
	for tier, expected := range cases {
		if got := policy.DailyAllowance(tier); !got.Equal(decimal.NewFromInt(expected)) {
			t.Fatalf("expected %s allowance %d, got %s", tier, expected, got)
		}
	}
}

func TestDailyAllowanceFallsBackToFreeTier(t *testing.T) {
	policy := DefaultPolicy()
	if got := policy.DailyAllowance("platinum"); !got.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected unknown tier to use the free allowance, got %s", got)
	}
	if got := policy.DailyAllowance(" PRO "); !got.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected tier lookup to ignore case and spaces, got %s", got)
	}
}

func TestDefaultFirstUseAchievementsGrantNoCredits(t *testing.T) {
	for _, rule := range DefaultPolicy().Achievements {
		if !strings.HasPrefix(rule.Code, "first_") {
			continue
		}
		if !rule.RewardCredits.IsZero() {
			t.Fatalf("expected %s to grant no credits, got %s", rule.Code, rule.RewardCredits)
		}
		if rule.RewardXP <= 0 {
			t.Fatalf("expected %s to grant xp", rule.Code)
		}
	}
}

func TestParsePolicyOverlaysDefaults(t *testing.T) {
	policy, err := ParsePolicy(`
[tiers]
pro = 40

[categories.logo]
name = "Logo"
cost = "1.5"
market_value = 350
xp = 30

[categories.Video]
name = "Video"
cost = 4
market_value = 2000
xp = 80

[levels]
xp_per_level_unit = 150
`)
	if err != nil {
		t.Fatalf("ParsePolicy() unexpected error: %v", err)
	}

	if got := policy.DailyAllowance(models.TierPro); !got.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected pro allowance 40, got %s", got)
	}
	if got := policy.DailyAllowance(models.TierFree); !got.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected free allowance to keep its default, got %s", got)
	}

	logo, ok := policy.Category("logo")
	if !ok || !logo.Cost.Equal(decimal.RequireFromString("1.5")) || logo.XP != 30 {
		t.Fatalf("expected overridden logo category, got %#v (found=%v)", logo, ok)
	}
	if _, ok := policy.Category("video"); !ok {
		t.Fatal("expected added category key to be normalized")
	}
	if _, ok := policy.Category("website"); !ok {
		t.Fatal("expected untouched default categories to remain")
	}
	if policy.Levels.XPPerLevelUnit != 150 {
		t.Fatalf("expected level unit 150, got %d", policy.Levels.XPPerLevelUnit)
	}
	if len(policy.Achievements) != len(DefaultPolicy().Achievements) {
		t.Fatal("expected default achievements when the file declares none")
	}
}

func TestParsePolicyReplacesAchievementCatalog(t *testing.T) {
	policy, err := ParsePolicy(`
[[achievements]]
code = "first_logo"
name = "First logo"
reward_xp = 10
requirement = { type = "category_count", category = "logo", value = 1 }

[[achievements]]
code = "streak_3"
name = "Warming up"
reward_credits = "0.5"
active = false
requirement = { type = "streak", value = 3 }
`)
	if err != nil {
		t.Fatalf("ParsePolicy() unexpected error: %v", err)
	}
	if len(policy.Achievements) != 2 {
		t.Fatalf("expected 2 achievements, got %d", len(policy.Achievements))
	}

	catalog := policy.Catalog()
	if !catalog[0].Active {
		t.Fatal("expected achievements to default to active")
	}
	if catalog[1].Active {
		t.Fatal("expected explicit active=false to be kept")
	}
	if !catalog[1].RewardCredits.Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("expected reward 0.5, got %s", catalog[1].RewardCredits)
	}
}

func TestParsePolicyRejectsInvalidConfiguration(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "negative allowance",
			content: "[tiers]\nfree = -1\n",
			want:    "must not be negative",
		},
		{
			name:    "unknown tier",
			content: "[tiers]\nplatinum = 10\n",
			want:    "unknown tier",
		},
		{
			name:    "zero cost",
			content: "[categories.logo]\nname = \"Logo\"\ncost = 0\n",
			want:    "cost must be positive",
		},
		{
			name:    "unknown requirement",
			content: "[[achievements]]\ncode = \"x\"\nname = \"X\"\nrequirement = { type = \"karma\", value = 1 }\n",
			want:    "unknown requirement type",
		},
		{
			name:    "unknown category reference",
			content: "[[achievements]]\ncode = \"x\"\nname = \"X\"\nrequirement = { type = \"category_count\", category = \"podcast\", value = 1 }\n",
			want:    "unknown category",
		},
		{
			name: "duplicate code",
			content: "[[achievements]]\ncode = \"x\"\nname = \"X\"\nrequirement = { type = \"streak\", value = 1 }\n" +
				"[[achievements]]\ncode = \"x\"\nname = \"Y\"\nrequirement = { type = \"streak\", value = 2 }\n",
			want: "duplicate code",
		},
		{
			name:    "unknown key",
			content: "currency = \"BRL\"\n",
			want:    "unknown keys",
		},
		{
			name:    "allowance beyond column scale",
			content: "[tiers]\nfree = \"0.00001\"\n",
			want:    "at most 4 decimal places",
		},
		{
			name:    "cost too large",
			content: "[categories.logo]\nname = \"Logo\"\ncost = \"10000000000\"\n",
			want:    "logo cost and market value must have at most",
		},
		{
			name:    "market value beyond column scale",
			content: "[categories.logo]\nname = \"Logo\"\ncost = 1\nmarket_value = \"0.123456\"\n",
			want:    "logo cost and market value must have at most",
		},
		{
			name:    "reward credits beyond column scale",
			content: "[[achievements]]\ncode = \"x\"\nname = \"X\"\nrequirement = { type = \"streak\", value = 1 }\nreward_credits = \"0.00005\"\n",
			want:    "x reward credits must have at most",
		},
		{
			name:    "reserved category",
			content: "[categories.achievement]\nname = \"Reward\"\ncost = 1\n",
			want:    "not a usable key",
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := ParsePolicy(testCase.content)
			if err == nil {
				t.Fatal("expected ParsePolicy() to fail")
			}
			if !strings.Contains(err.Error(), testCase.want) {
				t.Fatalf("expected error containing %q, got %v", testCase.want, err)
			}
		})
	}
}

func TestLoadPolicyFromFile(t *testing.T) {
	policy, err := LoadPolicy("")
	if err != nil {
		t.Fatalf("LoadPolicy(\"\") unexpected error: %v", err)
	}
	if len(policy.Categories) != len(DefaultPolicy().Categories) {
		t.Fatal("expected defaults for an empty path")
	}

	path := filepath.Join(t.TempDir(), "policy.toml")
	if err := os.WriteFile(path, []byte("[tiers]\nstarter = 20\n"), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	policy, err = LoadPolicy(path)
	if err != nil {
		t.Fatalf("LoadPolicy() unexpected error: %v", err)
	}
	if got := policy.DailyAllowance(models.TierStarter); !got.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected starter allowance 20, got %s", got)
	}

	if _, err := LoadPolicy(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected missing policy file to fail")
	}
}
