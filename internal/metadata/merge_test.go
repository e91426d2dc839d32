package metadata

import "testing"

func TestMergeScenario2InheritanceMerge(t *testing.T) {
	child := map[string]any{
		"libraries": []any{"A"},
		"mainClass": "C",
	}
	parent := map[string]any{
		"libraries": []any{"B"},
		"mainClass": "D",
		"type":      "release",
	}

	Merge(child, parent)

	libs, ok := child["libraries"].([]any)
	if !ok || len(libs) != 2 || libs[0] != "B" || libs[1] != "A" {
		t.Fatalf("libraries = %#v, want [B A]", child["libraries"])
	}
	if child["mainClass"] != "C" {
		t.Errorf("mainClass = %v, want C (child wins)", child["mainClass"])
	}
	if child["type"] != "release" {
		t.Errorf("type = %v, want release (copied from parent)", child["type"])
	}
}

func TestMergeNestedObjects(t *testing.T) {
	child := map[string]any{
		"downloads": map[string]any{
			"client": map[string]any{"url": "child-url"},
		},
	}
	parent := map[string]any{
		"downloads": map[string]any{
			"client": map[string]any{"url": "parent-url", "size": float64(10)},
			"server": map[string]any{"url": "parent-server"},
		},
	}

	Merge(child, parent)

	downloads := child["downloads"].(map[string]any)
	client := downloads["client"].(map[string]any)
	if client["url"] != "child-url" {
		t.Errorf("client.url = %v, want child-url", client["url"])
	}
	if client["size"] != float64(10) {
		t.Errorf("client.size = %v, want 10 (inherited)", client["size"])
	}
	if _, ok := downloads["server"]; !ok {
		t.Errorf("server key should be inherited from parent")
	}
}

func TestMergeUnknownFieldsIgnored(t *testing.T) {
	child := map[string]any{"mainClass": "C"}
	parent := map[string]any{"someFutureField": "x"}
	Merge(child, parent)
	if child["someFutureField"] != "x" {
		t.Errorf("unknown parent field should still be copied, not errored on")
	}
}
