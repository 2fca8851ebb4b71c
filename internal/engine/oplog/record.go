package oplog

// Kind identifies the shape of an edit recorded in the log.
type Kind string

const (
	KindInsert  Kind = "insert"
	KindDelete  Kind = "delete"
	KindReplace Kind = "replace"
	KindBatch   Kind = "batch"
)

// Record is the JSON shape of one line in a .ops file: an edit applied on
// top of the preceding checkpoint or record.
type Record struct {
	ID        string  `json:"id"`
	Parent    string  `json:"parent"`
	Kind      Kind    `json:"kind"`
	Start     int64   `json:"start"`
	End       int64   `json:"end"`
	OldText   string  `json:"old_text,omitempty"`
	NewText   string  `json:"new_text,omitempty"`
	Batch     []Record `json:"batch,omitempty"`
	TimestampMs int64  `json:"ts"`
}

// checkpointLine is the first line of every .ops file: a full snapshot of
// the buffer content the following records apply on top of.
type checkpointLine struct {
	Content string `json:"content"`
}
