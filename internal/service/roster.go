package service

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// sortBySurname orders students A-Z by surname, then given name, then code,
// ignoring case and accents the way Spanish speakers expect.
func sortBySurname(students []models.Student) {
	col := collate.New(language.Spanish, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(students, func(i, j int) bool {
		a, b := students[i], students[j]
		if c := col.CompareString(a.Surname, b.Surname); c != 0 {
			return c < 0
		}
		if c := col.CompareString(a.GivenName, b.GivenName); c != 0 {
			return c < 0
		}
		return a.Code < b.Code
	})
}

func rosterEntries(students []models.Student) []models.RosterEntry {
	sortBySurname(students)
	entries := make([]models.RosterEntry, len(students))
	for i, s := range students {
		entries[i] = models.RosterEntry{Ordinal: i + 1, Student: s}
	}
	return entries
}
