package personality

import (
	"testing"

	"finbridge/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	all := c.All()

	if len(all) != len(Priority) {
		t.Fatalf("expected %d archetypes, got %d", len(Priority), len(all))
	}
	for i, a := range all {
		if a.ID != Priority[i] {
			t.Errorf("position %d: got %s, want %s", i, a.ID, Priority[i])
		}
		if a.Name == "" || a.Description == "" || a.Color == "" {
			t.Errorf("%s: incomplete archetype %+v", a.ID, a)
		}
		if len(a.Recommendations) != 3 {
			t.Errorf("%s: expected 3 recommendations, got %d", a.ID, len(a.Recommendations))
		}
		if len(c.Templates(a.ID)) != 2 {
			t.Errorf("%s: expected 2 challenge templates", a.ID)
		}
		if a.AlignmentTarget == 0 {
			t.Errorf("%s: missing alignment target", a.ID)
		}
	}
}

func TestCatalogGet(t *testing.T) {
	a, ok := Default().Get(models.PersonalityRiskAverse)
	if !ok || a.Name != "The Safety-First Investor" {
		t.Errorf("risk_averse = %+v, %v", a, ok)
	}
	if _, ok := Default().Get("gambler"); ok {
		t.Error("unknown archetype should not be found")
	}
	if Default().Templates("gambler") != nil {
		t.Error("unknown archetype should have no templates")
	}
}

func TestCatalogAllIsACopy(t *testing.T) {
	all := Default().All()
	all[0].Name = "changed"
	if Default().All()[0].Name == "changed" {
		t.Error("All must not expose internal state")
	}
}

func TestParseCatalog(t *testing.T) {
	t.Run("duplicate_id", func(t *testing.T) {
		_, err := ParseCatalog([]byte("- id: a\n- id: a\n"))
		if err == nil {
			t.Fatal("expected duplicate error")
		}
	})

	t.Run("missing_id", func(t *testing.T) {
		_, err := ParseCatalog([]byte("- name: nameless\n"))
		if err == nil {
			t.Fatal("expected missing id error")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseCatalog([]byte("{not: a list"))
		if err == nil {
			t.Fatal("expected decode error")
		}
	})
}

func TestChallengeTemplateChallenge(t *testing.T) {
	tpl := Default().Templates(models.PersonalityPrudentSaver)[0]
	ch := tpl.Challenge("user-1", models.PersonalityPrudentSaver)

	if ch.UserID != "user-1" || ch.Title != "30-Day Investment Challenge" {
		t.Errorf("challenge = %+v", ch)
	}
	if ch.Status != models.ChallengeStatusPending || ch.Progress != 0 {
		t.Errorf("new challenge should be pending at 0, got %s/%d", ch.Status, ch.Progress)
	}
	if ch.TargetAmount.IntPart() != 1000 || ch.DurationDays != 30 {
		t.Errorf("target/duration = %s/%d", ch.TargetAmount, ch.DurationDays)
	}
}
