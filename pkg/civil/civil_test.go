package civil

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateOf(t *testing.T) {
	d := DateOf(time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC))
	if d.Year != 2024 || d.Month != time.June || d.Day != 10 {
		t.Errorf("unexpected date: %v", d)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-06-10" {
		t.Errorf("expected 2024-06-10, got %s", d.String())
	}
}

func TestParseDate_Invalid(t *testing.T) {
	if _, err := ParseDate("10/06/2024"); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestDateAddDays_MonthBoundary(t *testing.T) {
	d := Date{Year: 2024, Month: time.January, Day: 30}
	got := d.AddDays(3)
	want := Date{Year: 2024, Month: time.February, Day: 2}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDateAddDays_Negative(t *testing.T) {
	d := Date{Year: 2024, Month: time.March, Day: 1}
	got := d.AddDays(-1)
	want := Date{Year: 2024, Month: time.February, Day: 29}
	if got != want {
		t.Errorf("expected leap-day %v, got %v", want, got)
	}
}

func TestDateBeforeAfter(t *testing.T) {
	a := Date{Year: 2024, Month: time.June, Day: 10}
	b := Date{Year: 2024, Month: time.June, Day: 11}
	if !a.Before(b) {
		t.Error("expected a before b")
	}
	if !b.After(a) {
		t.Error("expected b after a")
	}
	if a.Before(a) {
		t.Error("date must not be before itself")
	}
}

func TestDateDaysSince(t *testing.T) {
	a := Date{Year: 2024, Month: time.June, Day: 17}
	b := Date{Year: 2024, Month: time.June, Day: 10}
	if got := a.DaysSince(b); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
	if got := b.DaysSince(a); got != -7 {
		t.Errorf("expected -7, got %d", got)
	}
}

func TestDateWeekday(t *testing.T) {
	d := Date{Year: 2024, Month: time.June, Day: 10}
	if d.Weekday() != time.Monday {
		t.Errorf("expected Monday, got %v", d.Weekday())
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := Date{Year: 2024, Month: time.June, Day: 10}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"2024-06-10"` {
		t.Errorf("unexpected encoding: %s", data)
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back != d {
		t.Errorf("round trip mismatch: %v != %v", back, d)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tod.Hour != 9 || tod.Minute != 30 {
		t.Errorf("unexpected value: %v", tod)
	}
	if tod.String() != "09:30" {
		t.Errorf("expected 09:30, got %s", tod.String())
	}
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	if _, err := ParseTimeOfDay("9:30 AM"); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestTimeOfDayBefore(t *testing.T) {
	cases := []struct {
		a, b   TimeOfDay
		before bool
	}{
		{TimeOfDay{9, 0}, TimeOfDay{10, 0}, true},
		{TimeOfDay{9, 30}, TimeOfDay{9, 45}, true},
		{TimeOfDay{13, 5}, TimeOfDay{9, 0}, false},
		{TimeOfDay{9, 30}, TimeOfDay{9, 30}, false},
	}
	for _, tc := range cases {
		if got := tc.a.Before(tc.b); got != tc.before {
			t.Errorf("%v before %v: expected %v, got %v", tc.a, tc.b, tc.before, got)
		}
	}
}

func TestTimeOfDayAddMinutes(t *testing.T) {
	tod := TimeOfDay{Hour: 9, Minute: 45}
	got := tod.AddMinutes(30)
	want := TimeOfDay{Hour: 10, Minute: 15}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDateAt(t *testing.T) {
	d := Date{Year: 2024, Month: time.June, Day: 10}
	got := d.At(TimeOfDay{Hour: 9, Minute: 30}, time.UTC)
	want := time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
