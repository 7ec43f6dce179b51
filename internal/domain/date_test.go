package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestClockTodayUsesCanonicalZone(t *testing.T) {
	// 23:30 UTC on May 31 is already June 1 in Moscow (UTC+3).
	at := time.Date(2024, 5, 31, 23, 30, 0, 0, time.UTC)
	msk, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	if got := FixedClock(at, time.UTC).Today(); !got.Equal(NewDate(2024, 5, 31)) {
		t.Fatalf("UTC today = %s", got)
	}
	if got := FixedClock(at, msk).Today(); !got.Equal(NewDate(2024, 6, 1)) {
		t.Fatalf("Moscow today = %s", got)
	}
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}
	if err := json.Unmarshal([]byte(`{"start":"2024-06-01","end":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Start.String() != "2024-06-01" || !payload.End.IsZero() {
		t.Fatalf("unexpected dates: %s %s", payload.Start, payload.End)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"start":"2024-06-01","end":null}` {
		t.Fatalf("unexpected json: %s", b)
	}
	if err := json.Unmarshal([]byte(`{"start":"06/01/2024"}`), &payload); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestDateOrdering(t *testing.T) {
	d := NewDate(2024, 6, 1)
	if !d.AddDays(1).After(d) || !d.AddDays(-1).Before(d) || !d.Equal(NewDate(2024, 6, 1)) {
		t.Fatalf("date ordering broken")
	}
}

func TestNewTaskPageLastPage(t *testing.T) {
	cases := []struct{ total, per, last int }{
		{0, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
	}
	for _, tc := range cases {
		p := NewTaskPage(nil, 1, tc.per, tc.total)
		if p.LastPage != tc.last {
			t.Fatalf("total=%d per=%d: last=%d want %d", tc.total, tc.per, p.LastPage, tc.last)
		}
		if p.Data == nil {
			t.Fatalf("data must not be nil")
		}
	}
}
