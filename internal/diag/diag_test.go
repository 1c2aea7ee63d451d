package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestReportIncrementsCount(t *testing.T) {
	bag := New(nil)
	bag.Report(1, "boom")
	bag.Report(2, "boom again")
	if bag.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", bag.Count())
	}
}

func TestReportFormatsLineNumber(t *testing.T) {
	var buf bytes.Buffer
	bag := New(&buf)
	bag.Report(7, "algo salió mal")
	if !strings.Contains(buf.String(), "línea 7") {
		t.Fatalf("expected output to include the line number, got %q", buf.String())
	}
}

func TestReportOmitsLineNumberWhenZero(t *testing.T) {
	var buf bytes.Buffer
	bag := New(&buf)
	bag.Report(0, "sin número")
	if strings.Contains(buf.String(), "línea") {
		t.Fatalf("expected no line-number phrase for lineno<=0, got %q", buf.String())
	}
}

func TestResetZeroesCounter(t *testing.T) {
	bag := New(nil)
	bag.Report(1, "x")
	bag.Report(1, "y")
	bag.Reset()
	if bag.Count() != 0 {
		t.Fatalf("Count() after Reset() = %d, want 0", bag.Count())
	}
}

func TestReportIsIdempotentPerCall(t *testing.T) {
	bag := New(nil)
	for i := 0; i < 5; i++ {
		bag.Report(1, "err %d", i)
	}
	if bag.Count() != 5 {
		t.Fatalf("Count() = %d, want 5 after 5 reports", bag.Count())
	}
}
