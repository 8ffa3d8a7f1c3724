package ecosystem

import "testing"

func TestHistory_RingBuffer(t *testing.T) {
	h := NewHistory(3)

	for i := 0; i < 5; i++ {
		h.Append(Snapshot{Day: i, Foxes: float64(i)})
	}

	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}
	if h.Cap() != 3 {
		t.Errorf("Cap = %d, want 3", h.Cap())
	}
	for i, want := range []int{2, 3, 4} {
		if got := h.At(i).Day; got != want {
			t.Errorf("At(%d).Day = %d, want %d", i, got, want)
		}
	}

	v := h.View()
	if v.Len() != 3 || v.Foxes[0] != 2 || v.Foxes[2] != 4 {
		t.Errorf("View = %+v", v)
	}

	h.Clear()
	if h.Len() != 0 || h.View().Len() != 0 {
		t.Error("Clear did not empty the history")
	}

	h.Append(Snapshot{Day: 9})
	if h.Len() != 1 || h.At(0).Day != 9 {
		t.Errorf("append after clear: len %d, first day %d", h.Len(), h.At(0).Day)
	}
}

func TestHistory_DefaultCapacity(t *testing.T) {
	if got := NewHistory(0).Cap(); got != DefaultHistoryCapacity {
		t.Errorf("Cap = %d, want %d", got, DefaultHistoryCapacity)
	}
}

func TestHistoryView_Last(t *testing.T) {
	h := NewHistory(50)
	for i := 0; i < 30; i++ {
		h.Append(Snapshot{Day: i, Rabbits: float64(i * 2)})
	}
	v := h.View()

	tests := []struct {
		n       int
		wantLen int
		first   int
	}{
		{20, 20, 10},
		{30, 30, 0},
		{100, 30, 0},
		{0, 0, 0},
		{-4, 0, 0},
	}

	for _, tt := range tests {
		last := v.Last(tt.n)
		if last.Len() != tt.wantLen {
			t.Errorf("Last(%d).Len = %d, want %d", tt.n, last.Len(), tt.wantLen)
			continue
		}
		if tt.wantLen > 0 && last.Day[0] != tt.first {
			t.Errorf("Last(%d) starts at day %d, want %d", tt.n, last.Day[0], tt.first)
		}
		if len(last.Series(Rabbits)) != tt.wantLen {
			t.Errorf("Last(%d) rabbit series length %d", tt.n, len(last.Series(Rabbits)))
		}
	}
}

func TestState_ResetAndSnapshot(t *testing.T) {
	s := NewState(10)
	p := DefaultParams()
	s.Reset(p)
	s.RecordSnapshot()
	s.Day = 4

	s.Reset(p)
	if s.Day != 0 || s.History().Len() != 0 {
		t.Errorf("reset left day %d, history %d", s.Day, s.History().Len())
	}
	if s.Populations != p.Initial() {
		t.Errorf("populations = %+v, want %+v", s.Populations, p.Initial())
	}

	s.RecordSnapshot()
	want := Snapshot{Day: 0, Foxes: 10, Rabbits: 50, Carrots: 200}
	if got := s.History().At(0); got != want {
		t.Errorf("snapshot = %+v, want %+v", got, want)
	}
}
