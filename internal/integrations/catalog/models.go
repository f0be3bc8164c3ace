package catalog

// Service услуга салона из каталога
type Service struct {
	ID              int64   `json:"id"`
	SalonID         int64   `json:"salonId"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	EmployeeIDs     []int64 `json:"employeeIds"` // Сотрудники, оказывающие услугу
}

// ProvidedBy проверяет, что сотрудник оказывает услугу
func (s *Service) ProvidedBy(employeeID int64) bool {
	for _, id := range s.EmployeeIDs {
		if id == employeeID {
			return true
		}
	}
	return false
}

// Employee сотрудник салона из каталога
type Employee struct {
	ID      int64  `json:"id"`
	SalonID int64  `json:"salonId"`
	Name    string `json:"name"`
	Active  bool   `json:"active"`
}

// ErrorResponse модель ошибки каталога
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
