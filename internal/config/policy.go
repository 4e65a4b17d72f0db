package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/models"
	"github.com/shopspring/decimal"
)

// Policy is the economic configuration of the ledger: allowances per tier,
// prices per category, the achievement catalog and the level curve.
type Policy struct {
	Tiers        map[string]decimal.Decimal `toml:"tiers"`
	Categories   map[string]Category        `toml:"categories"`
	Achievements []AchievementRule          `toml:"achievements"`
	Levels       LevelCurve                 `toml:"levels"`
}

type Category struct {
	Name        string          `toml:"name"`
	Cost        decimal.Decimal `toml:"cost"`
	MarketValue decimal.Decimal `toml:"market_value"`
	XP          int64           `toml:"xp"`
}

type AchievementRule struct {
	Code          string          `toml:"code"`
	Name          string          `toml:"name"`
	Description   string          `toml:"description"`
	Icon          string          `toml:"icon"`
	Requirement   Requirement     `toml:"requirement"`
	RewardCredits decimal.Decimal `toml:"reward_credits"`
	RewardXP      int64           `toml:"reward_xp"`
	Active        *bool           `toml:"active"`
}

type Requirement struct {
	Type     string `toml:"type"`
	Category string `toml:"category"`
	Value    int64  `toml:"value"`
}

// LevelCurve parameterizes level = floor(sqrt(xp / XPPerLevelUnit)) + 1.
type LevelCurve struct {
	XPPerLevelUnit int64 `toml:"xp_per_level_unit"`
}

func DefaultPolicy() Policy {
	policy := Policy{
		Tiers: map[string]decimal.Decimal{
			models.TierFree:       decimal.NewFromInt(5),
			models.TierStarter:    decimal.NewFromInt(15),
			models.TierPro:        decimal.NewFromInt(30),
			models.TierEnterprise: decimal.NewFromInt(100),
		},
		Categories: map[string]Category{
			"website":      {Name: "Website", Cost: decimal.RequireFromString("3"), MarketValue: decimal.NewFromInt(1500), XP: 50},
			"landing_page": {Name: "Landing page", Cost: decimal.RequireFromString("2"), MarketValue: decimal.NewFromInt(600), XP: 30},
			"logo":         {Name: "Logo", Cost: decimal.RequireFromString("1"), MarketValue: decimal.NewFromInt(300), XP: 20},
			"branding":     {Name: "Brand identity", Cost: decimal.RequireFromString("1"), MarketValue: decimal.NewFromInt(800), XP: 25},
			"copywriting":  {Name: "Copywriting", Cost: decimal.RequireFromString("0.5"), MarketValue: decimal.NewFromInt(150), XP: 10},
			"seo":          {Name: "SEO audit", Cost: decimal.RequireFromString("0.5"), MarketValue: decimal.NewFromInt(200), XP: 10},
			"social_media": {Name: "Social media kit", Cost: decimal.RequireFromString("1"), MarketValue: decimal.NewFromInt(250), XP: 15},
			"chat_edit":    {Name: "Chat edit", Cost: decimal.RequireFromString("0.25"), MarketValue: decimal.NewFromInt(20), XP: 2},
		},
		Levels: LevelCurve{XPPerLevelUnit: 100},
	}

	for _, category := range []string{"website", "landing_page", "logo", "branding"} {
		name := policy.Categories[category].Name
		policy.Achievements = append(policy.Achievements,
			AchievementRule{
				Code:        "first_" + category,
				Name:        "First " + strings.ToLower(name),
				Description: "Create your first " + strings.ToLower(name) + ".",
				Icon:        "sparkles",
				Requirement: Requirement{Type: models.RequirementCategoryCount, Category: category, Value: 1},
				RewardXP:    25,
			},
			AchievementRule{
				Code:          category + "_master",
				Name:          name + " master",
				Description:   "Create 10 of them.",
				Icon:          "trophy",
				Requirement:   Requirement{Type: models.RequirementCategoryCount, Category: category, Value: 10},
				RewardCredits: decimal.NewFromInt(5),
				RewardXP:      100,
			},
		)
	}

	policy.Achievements = append(policy.Achievements,
		AchievementRule{
			Code:          "streak_7",
			Name:          "On a roll",
			Description:   "Create something 7 days in a row.",
			Icon:          "flame",
			Requirement:   Requirement{Type: models.RequirementStreak, Value: 7},
			RewardCredits: decimal.NewFromInt(3),
			RewardXP:      70,
		},
		AchievementRule{
			Code:          "streak_30",
			Name:          "Unstoppable",
			Description:   "Create something 30 days in a row.",
			Icon:          "rocket",
			Requirement:   Requirement{Type: models.RequirementStreak, Value: 30},
			RewardCredits: decimal.NewFromInt(15),
			RewardXP:      300,
		},
		AchievementRule{
			Code:          "generations_100",
			Name:          "Centurion",
			Description:   "Complete 100 generations.",
			Icon:          "crown",
			Requirement:   Requirement{Type: models.RequirementTotalGenerations, Value: 100},
			RewardCredits: decimal.NewFromInt(20),
			RewardXP:      500,
		},
	)

	return policy
}

// LoadPolicy overlays the TOML file at path on top of the defaults. Tier and
// category tables merge by key; an achievements list replaces the default
// catalog. An empty path returns the defaults.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if strings.TrimSpace(path) == "" {
		return policy, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy %s: %w", path, err)
	}

	policy, err = ParsePolicy(string(content))
	if err != nil {
		return Policy{}, fmt.Errorf("policy %s: %w", path, err)
	}
	return policy, nil
}

func ParsePolicy(content string) (Policy, error) {
	policy := DefaultPolicy()
	metadata, err := toml.Decode(content, &policy)
	if err != nil {
		return Policy{}, fmt.Errorf("decode: %w", err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		return Policy{}, fmt.Errorf("unknown keys: %v", undecoded)
	}

	policy.normalize()
	if err := policy.Validate(); err != nil {
		return Policy{}, err
	}
	return policy, nil
}

func (policy *Policy) normalize() {
	categories := make(map[string]Category, len(policy.Categories))
	for key, category := range policy.Categories {
		categories[NormalizeKey(key)] = category
	}
	policy.Categories = categories

	tiers := make(map[string]decimal.Decimal, len(policy.Tiers))
	for key, allowance := range policy.Tiers {
		tiers[NormalizeKey(key)] = allowance
	}
	policy.Tiers = tiers

	for index := range policy.Achievements {
		rule := &policy.Achievements[index]
		rule.Code = strings.TrimSpace(rule.Code)
		rule.Requirement.Type = NormalizeKey(rule.Requirement.Type)
		rule.Requirement.Category = NormalizeKey(rule.Requirement.Category)
	}
}

var creditBoundsHint = fmt.Sprintf("must have at most %d decimal places and stay below %s", models.CreditScale, models.MaxCreditAmount)

func (policy Policy) Validate() error {
	var problems []error

	if _, ok := policy.Tiers[models.TierFree]; !ok {
		problems = append(problems, errors.New("tiers: free tier allowance is required"))
	}
	for tier, allowance := range policy.Tiers {
		if !models.IsKnownTier(tier) {
			problems = append(problems, fmt.Errorf("tiers: unknown tier %q", tier))
		}
		if allowance.IsNegative() {
			problems = append(problems, fmt.Errorf("tiers: %s allowance must not be negative", tier))
		}
		if !models.FitsCreditColumn(allowance) {
			problems = append(problems, fmt.Errorf("tiers: %s allowance %s", tier, creditBoundsHint))
		}
	}

	if len(policy.Categories) == 0 {
		problems = append(problems, errors.New("categories: at least one category is required"))
	}
	for key, category := range policy.Categories {
		if key == "" || key == models.CategoryAchievementReward {
			problems = append(problems, fmt.Errorf("categories: %q is not a usable key", key))
		}
		if !category.Cost.IsPositive() {
			problems = append(problems, fmt.Errorf("categories: %s cost must be positive", key))
		}
		if category.MarketValue.IsNegative() {
			problems = append(problems, fmt.Errorf("categories: %s market value must not be negative", key))
		}
		if !models.FitsCreditColumn(category.Cost) || !models.FitsCreditColumn(category.MarketValue) {
			problems = append(problems, fmt.Errorf("categories: %s cost and market value %s", key, creditBoundsHint))
		}
		if category.XP < 0 {
			problems = append(problems, fmt.Errorf("categories: %s xp must not be negative", key))
		}
	}

	seen := make(map[string]struct{}, len(policy.Achievements))
	for _, rule := range policy.Achievements {
		if rule.Code == "" {
			problems = append(problems, errors.New("achievements: code is required"))
			continue
		}
		if _, duplicate := seen[rule.Code]; duplicate {
			problems = append(problems, fmt.Errorf("achievements: duplicate code %q", rule.Code))
		}
		seen[rule.Code] = struct{}{}

		if !models.IsKnownRequirementType(rule.Requirement.Type) {
			problems = append(problems, fmt.Errorf("achievements: %s has unknown requirement type %q", rule.Code, rule.Requirement.Type))
		}
		if rule.Requirement.Type == models.RequirementCategoryCount {
			if _, ok := policy.Categories[rule.Requirement.Category]; !ok {
				problems = append(problems, fmt.Errorf("achievements: %s references unknown category %q", rule.Code, rule.Requirement.Category))
			}
		}
		if rule.Requirement.Value <= 0 {
			problems = append(problems, fmt.Errorf("achievements: %s threshold must be positive", rule.Code))
		}
		if rule.RewardCredits.IsNegative() || rule.RewardXP < 0 {
			problems = append(problems, fmt.Errorf("achievements: %s rewards must not be negative", rule.Code))
		}
		if !models.FitsCreditColumn(rule.RewardCredits) {
			problems = append(problems, fmt.Errorf("achievements: %s reward credits %s", rule.Code, creditBoundsHint))
		}
	}

	if policy.Levels.XPPerLevelUnit <= 0 {
		problems = append(problems, errors.New("levels: xp_per_level_unit must be positive"))
	}

	return errors.Join(problems...)
}

// DailyAllowance returns the allowance of tier, falling back to the free tier
// for tiers the policy does not price.
func (policy Policy) DailyAllowance(tier string) decimal.Decimal {
	if allowance, ok := policy.Tiers[NormalizeKey(tier)]; ok {
		return allowance
	}
	return policy.Tiers[models.TierFree]
}

func (policy Policy) Category(key string) (Category, bool) {
	category, ok := policy.Categories[NormalizeKey(key)]
	return category, ok
}

// Catalog converts the configured rules into catalog rows.
func (policy Policy) Catalog() []models.Achievement {
	catalog := make([]models.Achievement, 0, len(policy.Achievements))
	for _, rule := range policy.Achievements {
		active := true
		if rule.Active != nil {
			active = *rule.Active
		}
		catalog = append(catalog, models.Achievement{
			Code:                rule.Code,
			Name:                rule.Name,
			Description:         rule.Description,
			Icon:                rule.Icon,
			RequirementType:     rule.Requirement.Type,
			RequirementCategory: rule.Requirement.Category,
			RequirementValue:    rule.Requirement.Value,
			RewardCredits:       rule.RewardCredits,
			RewardXP:            rule.RewardXP,
			Active:              active,
		})
	}
	return catalog
}

func NormalizeKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
