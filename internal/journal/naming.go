package journal

import (
	"fmt"
	"time"
)

var monthNames = [...]string{
	"Janvier", "Fevrier", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Aout", "Septembre", "Octobre", "Novembre", "Decembre",
}

// MonthName returns the French month name, or "Inconnu" outside 1-12.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return "Inconnu"
	}
	return monthNames[m-1]
}

// FileName returns the output file name for a statement period, e.g.
// "Journal Bq Fevrier 2025.csv".
func FileName(month time.Month, year int) string {
	return fmt.Sprintf("Journal Bq %s %d.csv", MonthName(month), year)
}
