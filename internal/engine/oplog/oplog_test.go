package oplog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func TestWriterAppendLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.ops")
	content := "hello"

	w, err := NewWriter(path, content, func() string { return content })
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	recs := []Record{
		{ID: "1", Parent: "root", Kind: KindInsert, Start: 5, NewText: " world"},
		{ID: "2", Parent: "1", Kind: KindDelete, Start: 0, End: 1, OldText: "h"},
	}
	for _, rec := range recs {
		if err := w.Append(rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	gotContent, gotRecs, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if gotContent != "hello" {
		t.Errorf("checkpoint = %q", gotContent)
	}
	if len(gotRecs) != 2 {
		t.Fatalf("loaded %d records", len(gotRecs))
	}
	if !reflect.DeepEqual(gotRecs, recs) {
		t.Errorf("records = %+v", gotRecs)
	}
}

func TestLoadMissingFile(t *testing.T) {
	content, recs, err := Load(filepath.Join(t.TempDir(), "absent.ops"))
	if err != nil || content != "" || recs != nil {
		t.Fatalf("got (%q, %v, %v)", content, recs, err)
	}
}

func TestRecordJSONRoundTripBatch(t *testing.T) {
	rec := Record{
		ID:     "10",
		Parent: "9",
		Kind:   KindBatch,
		Batch: []Record{
			{ID: "10a", Kind: KindReplace, Start: 4, End: 7, OldText: "old", NewText: "new"},
			{ID: "10b", Kind: KindInsert, Start: 0, NewText: "x"},
		},
		TimestampMs: 1712345678901,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, rec) {
		t.Fatalf("round trip = %+v", back)
	}
}

func TestCheckpointCompactsLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.ops")
	current := "start"

	w, err := NewWriter(path, current, func() string { return current })
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Append(Record{ID: "1", Kind: KindInsert, Start: 5, NewText: "!"}); err != nil {
		t.Fatal(err)
	}
	current = "start!"
	if err := w.Checkpoint(); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	// The log still accepts records after compaction.
	if err := w.Append(Record{ID: "2", Kind: KindInsert, Start: 6, NewText: "?"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	content, recs, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if content != "start!" {
		t.Errorf("checkpoint content = %q", content)
	}
	if len(recs) != 1 || recs[0].ID != "2" {
		t.Errorf("records after compaction = %+v", recs)
	}
}

func TestCheckpointThresholdAutoCompacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.ops")
	var sb strings.Builder
	w, err := NewWriter(path, "", sb.String)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < CheckpointOpThreshold; i++ {
		sb.WriteByte('a')
		if err := w.Append(Record{Kind: KindInsert, Start: int64(i), NewText: "a"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	content, recs, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected auto-compaction at %d ops, %d records remain", CheckpointOpThreshold, len(recs))
	}
	if len(content) != CheckpointOpThreshold {
		t.Errorf("checkpoint length = %d", len(content))
	}
}

func TestReplay(t *testing.T) {
	tests := []struct {
		name    string
		content string
		records []Record
		want    string
	}{
		{
			name:    "insert delete replace",
			content: "hello",
			records: []Record{
				{Kind: KindInsert, Start: 5, NewText: " world"},
				{Kind: KindDelete, Start: 0, End: 1},
				{Kind: KindReplace, Start: 0, End: 4, NewText: "HELL"},
			},
			want: "HELL world",
		},
		{
			name:    "batch applies in recorded order",
			content: "abc",
			records: []Record{{
				Kind: KindBatch,
				Batch: []Record{
					{Kind: KindDelete, Start: 2, End: 3},
					{Kind: KindDelete, Start: 0, End: 1},
				},
			}},
			want: "b",
		},
		{
			name:    "offsets clamped on damaged log",
			content: "ab",
			records: []Record{
				{Kind: KindInsert, Start: 99, NewText: "!"},
				{Kind: KindDelete, Start: 5, End: 2},
			},
			want: "ab",
		},
		{
			name:    "empty log is identity",
			content: "unchanged",
			want:    "unchanged",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Replay(tt.content, tt.records); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecoverRoundTrip(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("backup dir override uses XDG_DATA_HOME")
	}
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	docPath := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(docPath, []byte("on disk"), 0o644); err != nil {
		t.Fatal(err)
	}

	// No log yet.
	if _, ok, err := Recover(docPath); err != nil || ok {
		t.Fatalf("recover before backup: ok=%v err=%v", ok, err)
	}

	opsPath, err := PathForFile(docPath)
	if err != nil {
		t.Fatal(err)
	}
	w, err := NewWriter(opsPath, "on disk", func() string { return "on disk" })
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Append(Record{Kind: KindInsert, Start: 7, NewText: ", edited"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	text, ok, err := Recover(docPath)
	if err != nil || !ok {
		t.Fatalf("recover: ok=%v err=%v", ok, err)
	}
	if text != "on disk, edited" {
		t.Fatalf("recovered %q", text)
	}
}
