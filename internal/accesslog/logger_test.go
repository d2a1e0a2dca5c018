package accesslog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestLogWritesOneJSONLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Log(EventAccept, 7, nil)
	l.Log(EventParseError, 7, errors.New("boom"))

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}

	var first Entry
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatalf("unmarshal first line: %v", err)
	}
	if first.Event != EventAccept || first.FD != 7 || first.Error != "" {
		t.Errorf("first entry = %+v, want accept/fd=7/no error", first)
	}

	var second Entry
	if err := json.Unmarshal(lines[1], &second); err != nil {
		t.Fatalf("unmarshal second line: %v", err)
	}
	if second.Event != EventParseError || second.Error != "boom" {
		t.Errorf("second entry = %+v, want parse_error/boom", second)
	}
}
