package cards

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDataset(t *testing.T) {
	ds, err := LoadDataset(filepath.Join("testdata", "cards.json"), DefaultIconTable())
	if err != nil {
		t.Fatalf("LoadDataset error: %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("expected 3 samples, got %d", ds.Len())
	}

	first := ds.Samples[0]
	if first.CardID != "bag_zoom-strict" {
		t.Fatalf("first card id = %q", first.CardID)
	}
	if !strings.Contains(first.Prompt, "Apple logo") {
		t.Fatalf("expected strict prompt, got %q", first.Prompt)
	}
	if first.Difficulty != "physics" || first.ModelName != "Sora 2" {
		t.Fatalf("unexpected difficulty/model: %q/%q", first.Difficulty, first.ModelName)
	}
	if first.FinalScore() != 7 {
		t.Fatalf("expected final score 7, got %v", first.FinalScore())
	}
	if first.TSR != 35.3 {
		t.Fatalf("expected tsr 35.3, got %v", first.TSR)
	}

	second := ds.Samples[1]
	if second.TotalScore != 15 || second.ChecklistLength != 3 {
		t.Fatalf("second total/len = %v/%d", second.TotalScore, second.ChecklistLength)
	}
	if second.Scores[1].Module != "R?" || second.Scores[2].Score != 0 {
		t.Fatalf("second scores = %+v", second.Scores)
	}

	third := ds.Samples[2]
	if third.ID != 3 || third.CardID != "pour_water" || third.PromptType != PromptRelax {
		t.Fatalf("third sample = %+v", third)
	}
	if !third.TransparentIcon || third.ModelIcon != "/icons/kling.png" {
		t.Fatalf("third icon = %q transparent=%v", third.ModelIcon, third.TransparentIcon)
	}

	if err := CheckIDs(ds.Samples); err != nil {
		t.Fatalf("expected unique ids, got %v", err)
	}
}

func TestDatasetFind(t *testing.T) {
	ds := NewDataset([]Record{{VideoName: "a.mp4"}, {VideoName: "b.mp4", PromptType: "strict"}}, IconTable{})
	s, err := ds.Find("b-strict")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if s.VideoName != "b.mp4" {
		t.Fatalf("found wrong sample: %+v", s)
	}
	if _, err := ds.Find("missing"); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}

func TestParseDatasetRejectsWrongTypes(t *testing.T) {
	bad := `[{"video_name": "a.mp4", "checklist_length": "ten"}]`
	if _, err := ParseDataset([]byte(bad), IconTable{}); err == nil {
		t.Fatal("expected schema error for string checklist_length")
	}
	if _, err := ParseDataset([]byte(`{"video_name": "a.mp4"}`), IconTable{}); err == nil {
		t.Fatal("expected schema error for non-array dataset")
	}
	if _, err := ParseDataset([]byte(`[{"scores": [{"id": "R1", "raw_score": null}]}]`), IconTable{}); err != nil {
		t.Fatalf("null raw_score should be accepted: %v", err)
	}
}

func TestCheckIDsReportsDuplicatesAndUnsafeIDs(t *testing.T) {
	samples := TransformAll([]Record{
		{VideoName: "same.mp4", PromptType: "relax"},
		{VideoName: "same.webm", PromptType: "relax"},
		{VideoName: `quo"te.mp4`},
		{VideoName: "with space.mp4"},
	}, IconTable{})
	err := CheckIDs(samples)
	if err == nil {
		t.Fatal("expected id errors")
	}
	msg := err.Error()
	for _, want := range []string{`duplicate card id "same-relax"`, `quo\"te`, "with space"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestLoadIconTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icons.yml")
	content := "icons:\n  My_Model: /icons/mine.png\ntransparent:\n  - my_model\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := LoadIconTable(path)
	if err != nil {
		t.Fatalf("LoadIconTable error: %v", err)
	}
	if table.Icon("MY_MODEL") != "/icons/mine.png" || !table.Transparent("my_model") {
		t.Fatalf("override not applied")
	}
	if table.Icon("veo3.1") != "/icons/veo.png" {
		t.Fatal("built-in entries should remain")
	}
	if _, err := LoadIconTable(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	def, err := LoadIconTable("")
	if err != nil || def.Len() != DefaultIconTable().Len() {
		t.Fatalf("empty path should yield default table, got len=%d err=%v", def.Len(), err)
	}
}
