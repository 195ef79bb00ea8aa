package valueobject

// PeriodToken names a reporting period relative to "today".
type PeriodToken string

const (
	PeriodMonthCurrent    PeriodToken = "month-current"
	PeriodMonthPrevious   PeriodToken = "month-previous"
	PeriodWeekCurrent     PeriodToken = "week-current"
	PeriodWeekPrevious    PeriodToken = "week-previous"
	PeriodLast30Days      PeriodToken = "last-30-days"
	PeriodLast12Months    PeriodToken = "last-12-months"
	PeriodQuarterCurrent  PeriodToken = "quarter-current"
	PeriodQuarterPrevious PeriodToken = "quarter-previous"
	PeriodYearCurrent     PeriodToken = "year-current"
	PeriodYearPrevious    PeriodToken = "year-previous"
	PeriodMonthToDate     PeriodToken = "month-to-date"
	PeriodQuarterToDate   PeriodToken = "quarter-to-date"
	PeriodYearToDate      PeriodToken = "year-to-date"
	PeriodCustom          PeriodToken = "custom"
)

// PeriodTokenInfo describes a token for pickers.
type PeriodTokenInfo struct {
	Token PeriodToken
	Label string
}

var periodTokens = []PeriodTokenInfo{
	{PeriodMonthCurrent, "Mese corrente"},
	{PeriodMonthPrevious, "Mese precedente"},
	{PeriodWeekCurrent, "Settimana corrente"},
	{PeriodWeekPrevious, "Settimana precedente"},
	{PeriodLast30Days, "Ultimi 30 giorni"},
	{PeriodLast12Months, "Ultimi 12 mesi"},
	{PeriodQuarterCurrent, "Trimestre corrente"},
	{PeriodQuarterPrevious, "Trimestre precedente"},
	{PeriodYearCurrent, "Anno corrente"},
	{PeriodYearPrevious, "Anno precedente"},
	{PeriodMonthToDate, "Mese ad oggi"},
	{PeriodQuarterToDate, "Trimestre ad oggi"},
	{PeriodYearToDate, "Anno ad oggi"},
	{PeriodCustom, "Personalizzato"},
}

// PeriodTokens returns the full vocabulary in display order.
func PeriodTokens() []PeriodTokenInfo {
	out := make([]PeriodTokenInfo, len(periodTokens))
	copy(out, periodTokens)
	return out
}

// IsValid reports whether the token belongs to the vocabulary.
func (t PeriodToken) IsValid() bool {
	for _, info := range periodTokens {
		if info.Token == t {
			return true
		}
	}
	return false
}
