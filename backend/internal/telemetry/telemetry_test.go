package telemetry

import (
	"bytes"
	"encoding/json"
	"log"
	"strings"
	"testing"
	"time"

	"fractal-marble/backend/internal/vecmath"
)

func newTestManager(buf *bytes.Buffer) *Manager {
	return NewManager(log.New(buf, "", 0))
}

func TestRecordRingBuffer(t *testing.T) {
	tm := newTestManager(&bytes.Buffer{})

	for i := 0; i < tm.maxEntries+10; i++ {
		tm.Record(Sample{Step: uint64(i)})
	}

	if tm.Len() != tm.maxEntries {
		t.Fatalf("expected %d entries, got %d", tm.maxEntries, tm.Len())
	}
	last, ok := tm.Latest()
	if !ok || last.Step != uint64(tm.maxEntries+9) {
		t.Errorf("unexpected latest sample: %+v", last)
	}
}

func TestRecordComputesSpeedAndCounters(t *testing.T) {
	tm := newTestManager(&bytes.Buffer{})
	impulse := vecmath.NewVec(1, 0, 0)

	tm.Record(Sample{Velocity: vecmath.NewVec(3, 4, 0), Contact: true, Impulse: &impulse})
	tm.Record(Sample{Velocity: vecmath.NewVec(0, 0, 0)})

	first := tm.data[0]
	if first.Speed != 5 {
		t.Errorf("speed: expected 5, got %v", first.Speed)
	}
	if first.Timestamp == 0 {
		t.Error("timestamp should be filled")
	}

	c := tm.Counters()
	if c["steps"] != 2 || c["contacts"] != 1 || c["impulses"] != 1 {
		t.Errorf("unexpected counters: %v", c)
	}
}

func TestDisabledSkipsRecords(t *testing.T) {
	tm := newTestManager(&bytes.Buffer{})
	tm.SetEnabled(false)
	tm.Record(Sample{})

	if tm.Len() != 0 {
		t.Error("disabled telemetry should not record")
	}
	if tm.PrintSummary() {
		t.Error("disabled telemetry should not print")
	}
}

func TestPrintSummaryRespectsInterval(t *testing.T) {
	var buf bytes.Buffer
	tm := newTestManager(&buf)

	now := time.Unix(1000, 0)
	tm.now = func() time.Time { return now }
	tm.lastPrint = now

	tm.Record(Sample{Level: "Равнина", Step: 7, Contact: true})

	if tm.PrintSummary() {
		t.Fatal("summary printed before interval elapsed")
	}

	now = now.Add(3 * time.Second)
	if !tm.PrintSummary() {
		t.Fatal("summary should be printed after interval")
	}
	if !strings.Contains(buf.String(), "contacts: 1") {
		t.Errorf("summary missing counters: %q", buf.String())
	}
	if len(tm.Counters()) != 0 {
		t.Error("counters should reset after summary")
	}
}

func TestJSON(t *testing.T) {
	tm := newTestManager(&bytes.Buffer{})
	tm.Record(Sample{Level: "Планета", Position: vecmath.NewVec(1, 2, 3)})

	out, err := tm.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var decoded []Sample
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Level != "Планета" || decoded[0].Position != vecmath.NewVec(1, 2, 3) {
		t.Errorf("unexpected decoded telemetry: %+v", decoded)
	}

	tm.Clear()
	if tm.Len() != 0 {
		t.Error("Clear should drop samples")
	}
}
