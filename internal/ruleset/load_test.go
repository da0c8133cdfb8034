package ruleset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/skirmish-engine/internal/errors"
)

func TestDefault(t *testing.T) {
	rules, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	longsword, err := rules.Weapon("longsword")
	if err != nil {
		t.Fatalf("Weapon(longsword) error = %v", err)
	}
	if longsword.ThreatRange != DefaultThreatRange {
		t.Errorf("longsword threat range = %d, want default %d", longsword.ThreatRange, DefaultThreatRange)
	}
	if longsword.CritMultiplier != DefaultCritMultiplier {
		t.Errorf("longsword crit multiplier = %d, want default %d", longsword.CritMultiplier, DefaultCritMultiplier)
	}

	greataxe, err := rules.Weapon("greataxe")
	if err != nil {
		t.Fatalf("Weapon(greataxe) error = %v", err)
	}
	if greataxe.ThreatRange != 20 || greataxe.CritMultiplier != 3 {
		t.Errorf("greataxe = %+v, want threat 20 crit x3", greataxe)
	}

	if rules.Maneuvers.PushDistance != DefaultPushDistance {
		t.Errorf("push distance = %d, want %d", rules.Maneuvers.PushDistance, DefaultPushDistance)
	}
	if rules.Movement.ClimbRate != DefaultClimbRate {
		t.Errorf("climb rate = %d, want %d", rules.Movement.ClimbRate, DefaultClimbRate)
	}
}

func TestDefaultReturnsFreshCopies(t *testing.T) {
	first, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	first.Weapons["longsword"] = Weapon{Damage: "9d9"}

	second, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if second.Weapons["longsword"].Damage == "9d9" {
		t.Error("mutating one Default() copy leaked into another")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
stacking:
  dodge: stacking
weapons:
  club:
    damage: 1d6
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	rules, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	club, err := rules.Weapon("club")
	if err != nil {
		t.Fatalf("Weapon(club) error = %v", err)
	}
	if club.ThreatRange != DefaultThreatRange {
		t.Errorf("club threat range = %d, want default %d", club.ThreatRange, DefaultThreatRange)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load() on missing file succeeded, want error")
	}
}

func TestLoadFromReaderRejectsUnknownFields(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("wepons:\n  club:\n    damage: 1d6\n"))
	if err == nil {
		t.Fatal("LoadFromReader() accepted an unknown top-level field")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "invalid stacking mode",
			yaml:    "stacking:\n  dodge: sometimes\n",
			wantErr: "stacking.dodge",
		},
		{
			name:    "terrain cost below one",
			yaml:    "terrain:\n  mud:\n    cost: 0\n",
			wantErr: "terrain.mud",
		},
		{
			name:    "terrain check with undefined skill",
			yaml:    "terrain:\n  chasm:\n    cost: 2\n    skill: levitate\n    dc: 10\n",
			wantErr: "skill \"levitate\" is not defined",
		},
		{
			name:    "terrain check without dc",
			yaml:    "skills:\n  climb:\n    ability: str\nterrain:\n  chasm:\n    cost: 2\n    skill: climb\n",
			wantErr: "dc >= 1",
		},
		{
			name:    "weapon bad damage notation",
			yaml:    "weapons:\n  club:\n    damage: six\n",
			wantErr: "weapons.club",
		},
		{
			name:    "weapon threat range out of range",
			yaml:    "weapons:\n  club:\n    damage: 1d6\n    threat_range: 25\n",
			wantErr: "threat_range",
		},
		{
			name:    "spell bad damage notation",
			yaml:    "spells:\n  zap:\n    damage: lots\n    level: 1\n",
			wantErr: "spells.zap",
		},
		{
			name:    "skill invalid ability",
			yaml:    "skills:\n  fly:\n    ability: luck\n",
			wantErr: "skills.fly",
		},
		{
			name:    "skill references undefined condition",
			yaml:    "skills:\n  climb:\n    ability: str\n    condition_modifiers:\n      cursed: -2\n",
			wantErr: "condition \"cursed\" is not defined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromReader(strings.NewReader(tt.yaml))
			if err == nil {
				t.Fatal("LoadFromReader() succeeded, want validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
			if !apperrors.IsCode(err, apperrors.CodeRulesetInvalid) {
				t.Errorf("error = %v, want code %v", err, apperrors.CodeRulesetInvalid)
			}
		})
	}
}

func TestLookupErrors(t *testing.T) {
	rules, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	t.Run("unknown weapon", func(t *testing.T) {
		_, err := rules.Weapon("chainsaw")
		if !apperrors.IsCode(err, apperrors.CodeRulesetUnknownWeapon) {
			t.Errorf("error = %v, want code %v", err, apperrors.CodeRulesetUnknownWeapon)
		}
	})
	t.Run("unknown spell", func(t *testing.T) {
		_, err := rules.Spell("wish")
		if !apperrors.IsCode(err, apperrors.CodeRulesetUnknownSpell) {
			t.Errorf("error = %v, want code %v", err, apperrors.CodeRulesetUnknownSpell)
		}
	})
	t.Run("unknown skill", func(t *testing.T) {
		_, err := rules.Skill("basketweaving")
		if !apperrors.IsCode(err, apperrors.CodeRulesetUnknownSkill) {
			t.Errorf("error = %v, want code %v", err, apperrors.CodeRulesetUnknownSkill)
		}
	})
	t.Run("unknown condition", func(t *testing.T) {
		_, err := rules.Condition("confused")
		if !apperrors.IsCode(err, apperrors.CodeRulesetUnknownCondition) {
			t.Errorf("error = %v, want code %v", err, apperrors.CodeRulesetUnknownCondition)
		}
	})
}
