package holiday

import (
	"fmt"
	"sync"
	"time"

	"github.com/ratesense/ratesense/internal/domain"
)

// fixedHoliday recurs on the same month and day every year.
type fixedHoliday struct {
	month time.Month
	day   int
	name  string
}

var fixedHolidays = []fixedHoliday{
	{time.January, 1, "Nový rok"},
	{time.May, 1, "Svátek práce"},
	{time.May, 8, "Den vítězství"},
	{time.July, 5, "Cyril a Metoděj"},
	{time.July, 6, "Jan Hus"},
	{time.September, 28, "Den české státnosti"},
	{time.October, 28, "Vznik Československa"},
	{time.November, 17, "Den boje za svobodu"},
	{time.December, 24, "Štědrý den"},
	{time.December, 25, "1. svátek vánoční"},
	{time.December, 26, "2. svátek vánoční"},
	{time.December, 31, "Silvestr"},
}

// Calendar resolves Czech public holidays and the spa-town event days for any
// year. Movable days derive from Easter and are cached per year.
type Calendar struct {
	mu      sync.Mutex
	movable map[int]map[string]string // year -> "MM-DD" -> name
}

// NewCalendar creates an empty calendar.
func NewCalendar() *Calendar {
	return &Calendar{movable: make(map[int]map[string]string)}
}

// EasterMonday computes Easter Monday for a year. The anonymous Gregorian
// computus yields Easter Sunday; the result is shifted by one day.
func EasterMonday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	sunday := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return sunday.AddDate(0, 0, 1)
}

// Name returns the holiday name for a date, or "" when the date is ordinary.
func (c *Calendar) Name(date time.Time) string {
	for _, fh := range fixedHolidays {
		if date.Month() == fh.month && date.Day() == fh.day {
			return fh.name
		}
	}
	if name, ok := c.movableFor(date.Year())[monthDayKey(date)]; ok {
		return name
	}
	return ""
}

// IsHoliday reports whether the date is a holiday or spa event day.
func (c *Calendar) IsHoliday(date time.Time) bool {
	return c.Name(date) != ""
}

func (c *Calendar) movableFor(year int) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.movable[year]; ok {
		return m
	}

	m := make(map[string]string)
	easter := EasterMonday(year)
	m[monthDayKey(easter)] = "Velikonoční pondělí"
	m[monthDayKey(easter.AddDate(0, 0, -2))] = "Velký pátek"

	// Otevírání pramenů: the spa season opens on the weekend before Pentecost.
	pentecost := easter.AddDate(0, 0, -1).AddDate(0, 0, 49)
	m[monthDayKey(pentecost.AddDate(0, 0, -8))] = "Otevírání pramenů"
	m[monthDayKey(pentecost.AddDate(0, 0, -7))] = "Otevírání pramenů"

	c.movable[year] = m
	return m
}

func monthDayKey(date time.Time) string {
	return fmt.Sprintf("%02d-%02d", int(date.Month()), date.Day())
}

// SeasonFor returns the demand season a date falls into.
func SeasonFor(date time.Time) domain.Season {
	switch date.Month() {
	case time.December, time.January, time.February:
		return domain.Season{Name: "zima", Level: domain.SeasonLow}
	case time.March, time.April:
		return domain.Season{Name: "jaro", Level: domain.SeasonShoulder}
	case time.May, time.June:
		return domain.Season{Name: "předsezóna", Level: domain.SeasonHigh}
	case time.July, time.August:
		return domain.Season{Name: "hlavní sezóna", Level: domain.SeasonPeak}
	case time.September, time.October:
		return domain.Season{Name: "posezóna", Level: domain.SeasonHigh}
	default:
		return domain.Season{Name: "podzim", Level: domain.SeasonLow}
	}
}
