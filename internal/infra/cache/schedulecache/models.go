package schedulecache

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// entry значение в Redis
// Configured=false кэширует состояние "шаблон не настроен"
type entry struct {
	Configured bool                `json:"configured"`
	Days       map[string]dayEntry `json:"days,omitempty"` // ключ - номер дня недели, 0 = воскресенье
	UpdatedAt  time.Time           `json:"updatedAt"`
}

type dayEntry struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func toEntry(h *domain.WorkingHours) entry {
	if h == nil {
		return entry{Configured: false}
	}

	e := entry{
		Configured: true,
		Days:       make(map[string]dayEntry, len(h.Days)),
		UpdatedAt:  h.UpdatedAt,
	}
	for weekday, day := range h.Days {
		e.Days[strconv.Itoa(int(weekday))] = dayEntry{Start: day.Start.String(), End: day.End.String()}
	}
	return e
}

func (e entry) toDomain(employeeID int64) (*domain.WorkingHours, error) {
	h := &domain.WorkingHours{
		EmployeeID: employeeID,
		Days:       make(map[time.Weekday]domain.DayHours, len(e.Days)),
		UpdatedAt:  e.UpdatedAt,
	}

	for key, day := range e.Days {
		weekday, err := strconv.Atoi(key)
		if err != nil {
			return nil, err
		}
		start, err := types.NewTimeStringFromString(day.Start)
		if err != nil {
			return nil, err
		}
		end, err := types.NewTimeStringFromString(day.End)
		if err != nil {
			return nil, err
		}
		h.Days[time.Weekday(weekday)] = domain.DayHours{Start: start, End: end}
	}

	return h, nil
}
