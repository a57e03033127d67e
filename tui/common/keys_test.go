package common

import "testing"

func TestDefaultKeyMap_HasCancel(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.Cancel.Keys()) == 0 || km.Cancel.Keys()[0] != "ctrl+c" {
		t.Fatalf("expected ctrl+c cancel binding")
	}
	if km.ShortHelp() != "ctrl+c cancel" {
		t.Fatalf("unexpected hint: %q", km.ShortHelp())
	}
}
