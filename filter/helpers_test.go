package filter

import "testing"

func mustSpec(t *testing.T, kind Kind, min, max, def float64) *Spec {
	t.Helper()
	s, err := NewSpec(kind, FamilyAdjustment, min, max, def)
	if err != nil {
		t.Fatalf("NewSpec(%s): %v", kind, err)
	}
	return s
}

func inRange(s *Spec) bool {
	return s.Value() >= s.Min() && s.Value() <= s.Max()
}
