package calendar

import (
	"testing"

	"github.com/google/uuid"
)

func TestClockMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"09:00", 540, false},
		{"9:00", 540, false},
		{"09:00:00", 540, false},
		{"23:59", 1439, false},
		{"00:00", 0, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"", 0, true},
		{"mediodia", 0, true},
		{"12", 0, true},
	}
	for _, tt := range tests {
		got, err := ClockMinutes(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ClockMinutes(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ClockMinutes(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ClockMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClockMinutes_PaddedAndUnpaddedAgree(t *testing.T) {
	a, _ := ClockMinutes("9:00")
	b, _ := ClockMinutes("09:00")
	if a != b {
		t.Errorf("9:00 (%d) and 09:00 (%d) must compare equal", a, b)
	}
}

func TestValidateTimes(t *testing.T) {
	if err := ValidateTimes("09:00", "10:00"); err != nil {
		t.Errorf("valid pair rejected: %v", err)
	}
	if err := ValidateTimes("10:00", "10:00"); err == nil {
		t.Error("equal start/end must be rejected")
	}
	if err := ValidateTimes("11:00", "10:00"); err == nil {
		t.Error("inverted pair must be rejected")
	}
	if err := ValidateTimes("", "10:00"); err == nil {
		t.Error("missing start must be rejected")
	}
	if err := ValidateTimes("09:00", ""); err == nil {
		t.Error("missing end must be rejected")
	}
}

func TestIsFree_OverlapGeometry(t *testing.T) {
	existing := []Entry{
		{ID: uuid.New(), Date: "2024-05-06", Start: "09:00", End: "10:00"},
	}

	tests := []struct {
		name  string
		start string
		end   string
		free  bool
	}{
		{"touching after is free", "10:00", "11:00", true},
		{"touching before is free", "08:00", "09:00", true},
		{"partial right overlap", "09:30", "10:30", false},
		{"partial left overlap", "08:30", "09:30", false},
		{"candidate inside existing", "09:15", "09:45", false},
		{"existing inside candidate", "08:00", "11:00", false},
		{"identical range", "09:00", "10:00", false},
		{"disjoint later", "12:00", "13:00", true},
		{"unpadded hour still conflicts", "9:30", "9:45", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsFree(existing, Candidate{Date: "2024-05-06", Start: tt.start, End: tt.end})
			if got != tt.free {
				t.Errorf("IsFree(%s-%s) = %v, want %v", tt.start, tt.end, got, tt.free)
			}
		})
	}
}

func TestIsFree_OtherDatesIgnored(t *testing.T) {
	existing := []Entry{
		{ID: uuid.New(), Date: "2024-05-07", Start: "09:00", End: "10:00"},
	}
	if !IsFree(existing, Candidate{Date: "2024-05-06", Start: "09:00", End: "10:00"}) {
		t.Error("appointments on other dates must not conflict")
	}
}

func TestIsFree_ExcludeID(t *testing.T) {
	id := uuid.New()
	existing := []Entry{
		{ID: id, Date: "2024-05-06", Start: "09:00", End: "10:00"},
		{ID: uuid.New(), Date: "2024-05-06", Start: "12:00", End: "13:00"},
	}

	// Re-saving the same slot during an edit must not conflict with itself.
	if !IsFree(existing, Candidate{Date: "2024-05-06", Start: "09:00", End: "10:00", ExcludeID: id}) {
		t.Error("edit-in-place conflicts with its own prior state")
	}
	// Shifting within the freed window is legal too.
	if !IsFree(existing, Candidate{Date: "2024-05-06", Start: "09:30", End: "10:30", ExcludeID: id}) {
		t.Error("shifted edit within own window rejected")
	}
	// But it still conflicts with everything else.
	if IsFree(existing, Candidate{Date: "2024-05-06", Start: "12:30", End: "13:30", ExcludeID: id}) {
		t.Error("exclusion leaked onto a different appointment")
	}
	// Without the exclusion the same range is a conflict.
	if IsFree(existing, Candidate{Date: "2024-05-06", Start: "09:00", End: "10:00"}) {
		t.Error("identical range without exclusion must conflict")
	}
}

func TestIsFree_MalformedData(t *testing.T) {
	existing := []Entry{
		{ID: uuid.New(), Date: "2024-05-06", Start: "bad", End: "10:00"},
	}
	// Malformed stored rows are skipped, not treated as blocking.
	if !IsFree(existing, Candidate{Date: "2024-05-06", Start: "09:00", End: "10:00"}) {
		t.Error("malformed existing entry should not block")
	}
	// A malformed candidate is never free.
	if IsFree(nil, Candidate{Date: "2024-05-06", Start: "", End: "10:00"}) {
		t.Error("malformed candidate must not be reported free")
	}
}
