package interest

import (
	"math"
	"time"

	"pawnshop-ledger/internal/domain/loan"
)

const (
	// DaysPerMonth is the fixed month length used to count elapsed months.
	// Elapsed time is measured in these units rather than calendar months.
	DaysPerMonth = 30.44

	// CapitalizationCycle is the number of accrual months after which the
	// accumulated interest is added to the principal.
	CapitalizationCycle = 12
)

// ElapsedMonths counts whole fixed-length months between start and asOf.
// It never returns a negative number.
func ElapsedMonths(start, asOf time.Time) int {
	// seconds via Unix, since Duration saturates past ~292 years
	days := float64(asOf.Unix()-start.Unix()) / 86400
	m := int(math.Floor(days / DaysPerMonth))
	if m < 0 {
		return 0
	}
	return m
}

// MonthAnchor returns the first day of the calendar month that accrual
// index month (1-based) falls in for a loan started on start.
func MonthAnchor(start time.Time, month int) time.Time {
	s := start.UTC()
	return time.Date(s.Year(), s.Month()+time.Month(month-1), 1, 0, 0, 0, 0, time.UTC)
}

type monthKey struct {
	year  int
	month time.Month
}

func keyOf(t time.Time) monthKey {
	u := t.UTC()
	return monthKey{u.Year(), u.Month()}
}

// Accrual is the outcome of walking a loan's months up to a date.
type Accrual struct {
	ElapsedMonths int
	// Principal after the last capitalization.
	Principal float64
	// Accrued is the interest accumulated since the last capitalization.
	Accrued float64
	// Entries is the loan's merged history: the existing entries followed
	// by the ones created by this walk.
	Entries []Entry
	// Changed is set when an entry was created or newly capitalized.
	Changed bool
}

// Gross is principal plus uncapitalized interest, before payments.
func (a Accrual) Gross() float64 { return a.Principal + a.Accrued }

// Accrue walks l month by month up to asOf. Interest is simple within a
// capitalization cycle and compounds once per cycle. The computation
// always starts from l.PrincipalAmount; existing only decides which
// months still need a history entry. existing must hold entries of l only
// and is not modified. newID supplies ids for created entries.
func Accrue(l loan.Loan, asOf time.Time, existing []Entry, newID func() string) (Accrual, error) {
	rate, err := l.LoanType.MonthlyRate()
	if err != nil {
		return Accrual{}, err
	}

	entries := make([]Entry, len(existing))
	copy(entries, existing)
	seen := make(map[monthKey]struct{}, len(entries))
	for _, e := range entries {
		seen[keyOf(e.Date)] = struct{}{}
	}

	out := Accrual{ElapsedMonths: ElapsedMonths(l.StartDate, asOf)}
	principal := l.PrincipalAmount
	accrued := 0.0
	inCycle := 0

	for month := 1; month <= out.ElapsedMonths; month++ {
		monthly := principal * rate
		accrued += monthly
		inCycle++

		anchor := MonthAnchor(l.StartDate, month)
		if _, ok := seen[keyOf(anchor)]; !ok {
			entries = append(entries, Entry{
				ID:                    newID(),
				LoanID:                l.ID,
				Date:                  anchor,
				Month:                 month,
				PrincipalAtAccrual:    principal,
				MonthlyInterestAmount: monthly,
				AccumulatedInterest:   accrued,
			})
			seen[keyOf(anchor)] = struct{}{}
			out.Changed = true
		}

		if inCycle == CapitalizationCycle {
			principal += accrued
			for i := range entries {
				if entries[i].Month == month && !entries[i].Capitalized {
					np := principal
					entries[i].Capitalized = true
					entries[i].NewPrincipal = &np
					out.Changed = true
				}
			}
			accrued = 0
			inCycle = 0
		}
	}

	out.Principal = principal
	out.Accrued = accrued
	out.Entries = entries
	return out, nil
}

// Outstanding is the balance left after paid, floored at zero.
func Outstanding(a Accrual, paid float64) float64 {
	return math.Max(0, a.Gross()-paid)
}
