package domain

import "time"

// Interval half-open time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect
// Back-to-back intervals (a.End == b.Start) do not overlap
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// SlotCheck результат проверки конкретного времени начала
type SlotCheck int

const (
	SlotFree SlotCheck = iota
	SlotNotConfigured
	SlotDayOff
	SlotOutsideWindow
	SlotBusy
)

// DayAvailability входные данные расчёта на один день
type DayAvailability struct {
	Date      time.Time     // Полночь нужного дня в локации салона
	Hours     *WorkingHours // nil - шаблон не настроен
	DayOff    bool          // На дату есть отгул
	Busy      []Interval    // Активные записи сотрудника на дату
	Duration  int           // Длительность услуги в минутах
	Step      int           // Шаг сетки слотов в минутах
	NotBefore time.Time     // Слоты раньше этого момента отбрасываются
}

// AvailabilityResult outcome of the availability calculation
type AvailabilityResult struct {
	Slots      []Slot
	DayOff     bool
	Configured bool
}

// Window returns the working window of the day as absolute instants
func (d DayAvailability) Window() (Interval, bool) {
	hours, ok := d.Hours.ForDay(d.Date)
	if !ok {
		return Interval{}, false
	}
	start, err := hours.Start.On(d.Date)
	if err != nil {
		return Interval{}, false
	}
	end, err := hours.End.On(d.Date)
	if err != nil {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// CandidateStarts returns starts from window start to window end - duration inclusive
func CandidateStarts(window Interval, duration, step int) []time.Time {
	if duration <= 0 || step <= 0 {
		return nil
	}

	length := time.Duration(duration) * time.Minute
	last := window.End.Add(-length)

	var starts []time.Time
	for t := window.Start; !t.After(last); t = t.Add(time.Duration(step) * time.Minute) {
		starts = append(starts, t)
	}
	return starts
}

// Compute returns the free slots of the day
// Candidates are generated in ascending order, so the result is ordered and has no duplicates
func (d DayAvailability) Compute() AvailabilityResult {
	result := AvailabilityResult{Configured: d.Hours != nil}

	// 1. Отгул перекрывает весь день
	if d.DayOff {
		result.DayOff = true
		return result
	}

	// 2. Нет рабочего окна на этот день недели
	window, ok := d.Window()
	if !ok {
		return result
	}

	// 3. Кандидаты по сетке, отсеиваем пересечения и слишком ранние
	for _, start := range CandidateStarts(window, d.Duration, d.Step) {
		if start.Before(d.NotBefore) {
			continue
		}
		candidate := Interval{Start: start, End: start.Add(time.Duration(d.Duration) * time.Minute)}
		if overlapsAny(candidate, d.Busy) {
			continue
		}
		result.Slots = append(result.Slots, Slot{Start: start, DurationMinutes: d.Duration})
	}
	return result
}

// Check validates an arbitrary start against the same rules as Compute
// Alignment to the step grid and NotBefore are not checked
func (d DayAvailability) Check(start time.Time) SlotCheck {
	if d.Hours == nil {
		return SlotNotConfigured
	}
	if d.DayOff {
		return SlotDayOff
	}

	window, ok := d.Window()
	if !ok {
		return SlotOutsideWindow
	}

	candidate := Interval{Start: start, End: start.Add(time.Duration(d.Duration) * time.Minute)}
	if candidate.Start.Before(window.Start) || candidate.End.After(window.End) {
		return SlotOutsideWindow
	}
	if overlapsAny(candidate, d.Busy) {
		return SlotBusy
	}
	return SlotFree
}

func overlapsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

// DateOf returns midnight of t's calendar day in t's location
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsSameDay reports whether both instants fall on the same calendar day
func IsSameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}
