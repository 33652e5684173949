package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "Journal Bq Fevrier 2025.csv", FileName(time.February, 2025))
	assert.Equal(t, "Journal Bq Aout 2024.csv", FileName(time.August, 2024))
	assert.Equal(t, "Journal Bq Decembre 2023.csv", FileName(time.December, 2023))
	assert.Equal(t, "Journal Bq Inconnu 2025.csv", FileName(0, 2025))
	assert.Equal(t, "Journal Bq Inconnu 2025.csv", FileName(13, 2025))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Janvier", MonthName(time.January))
	assert.Equal(t, "Juin", MonthName(time.June))
}
