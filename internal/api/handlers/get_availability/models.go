package get_availability

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	getAvailability "github.com/m04kA/SMC-SalonScheduler/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	EmployeeID      int64    `json:"employeeId"`
	ServiceID       int64    `json:"serviceId"`
	Date            string   `json:"date"`
	DurationMinutes int      `json:"durationMinutes"`
	Configured      bool     `json:"configured"`
	DayOff          bool     `json:"dayOff"`
	Slots           []string `json:"slots"` // ["09:00", "09:30", ...]
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.String()
	}

	return &AvailabilityResponse{
		EmployeeID:      resp.EmployeeID,
		ServiceID:       resp.ServiceID,
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Configured:      resp.Configured,
		DayOff:          resp.DayOff,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров, дата в часовом поясе салона
func ToUseCaseRequest(employeeID, serviceID int64, dateStr string, loc *time.Location) (*getAvailability.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, dateStr, loc)
	if err != nil {
		return nil, err
	}

	return &getAvailability.Request{
		EmployeeID: employeeID,
		ServiceID:  serviceID,
		Date:       date,
	}, nil
}
