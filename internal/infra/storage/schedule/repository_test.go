package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateInSalon(t *testing.T) {
	loc := time.FixedZone("salon", -5*60*60)
	repo := NewRepository(nil, loc)

	got := repo.dateInSalon(time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2025, 10, 13, 0, 0, 0, 0, loc), got)
	assert.Equal(t, time.Monday, got.Weekday())
}
