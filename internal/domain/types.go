package domain

// All dates in this package are calendar days formatted as "2006-01-02".
// Both Calamari and Tempo key their records by day, so string dates keep
// map lookups and equality checks trivial.

// Entitlement units reported by Calamari for an absence request.
const (
    UnitDays  = "DAYS"
    UnitHours = "HOURS"
)

type Employee struct {
    Email        string
    ContractType string
}

// AbsenceRecord is one approved leave request spanning a date range,
// as returned by Calamari before normalization.
type AbsenceRecord struct {
    From           string
    To             string
    TypeName       string
    Unit           string
    AmountFirstDay *float64
    AmountLastDay  *float64
}

// AbsenceDay is one working day of absence. On the Calamari side it is
// produced by normalization; on the Tempo side it is one worklog against
// the absence issue. The two are compared for exact equality.
type AbsenceDay struct {
    Date  string
    Hours float64
}

type WorklogEntry struct {
    Date        string
    Seconds     int
    IssueKey    string
    AuthorEmail string
}

type TimesheetEntry struct {
    ID      string
    Email   string
    Started string // shift start timestamp, day is Started[:10]
    Hours   float64
}

// Conflict is a set of absence worklogs that could not be matched to any
// approved absence, kept in ledger order for the report.
type Conflict struct {
    Email   string
    Entries []AbsenceDay
}
