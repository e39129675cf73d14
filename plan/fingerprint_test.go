package plan

import "testing"

func TestFingerprint(t *testing.T) {
	a := topTechPlan()
	b := topTechPlan()
	b.Description = "same plan, different words"

	fa, err := a.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	fb, _ := b.Fingerprint()
	if fa != fb {
		t.Errorf("description changed fingerprint: %s vs %s", fa, fb)
	}
	if len(fa) != 32 {
		t.Errorf("fingerprint length = %d", len(fa))
	}

	b.Steps[2].N = 3
	if fc, _ := b.Fingerprint(); fc == fa {
		t.Error("changing a step should change the fingerprint")
	}
	if a.Description != "" || b.Description == "" {
		t.Error("Fingerprint must not modify the plan")
	}
}
