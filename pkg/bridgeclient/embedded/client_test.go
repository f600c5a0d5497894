package embedded

import "testing"

func TestAvailableIsFalseWithoutBuildTag(t *testing.T) {
	if Available() {
		t.Fatal("expected embedded bindings to be unavailable in a default build")
	}
}
