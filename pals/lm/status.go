package lm

import "fmt"

// Status is the termination code of Solve.
type Status int

const (
	StatusInputError     Status = 0 // general input parameter error
	StatusFtol           Status = 1 // convergence in chi-square
	StatusXtol           Status = 2 // convergence in parameter value
	StatusFtolXtol       Status = 3 // both of the above
	StatusGtol           Status = 4 // convergence in orthogonality
	StatusMaxIterations  Status = 5
	StatusFtolTooSmall   Status = 6 // no further chi-square improvement possible
	StatusXtolTooSmall   Status = 7
	StatusGtolTooSmall   Status = 8
	StatusNonFinite      Status = -16
	StatusNoFunction     Status = -17
	StatusNoData         Status = -18
	StatusNoFree         Status = -19
	StatusMemory         Status = -20
	StatusInitBounds     Status = -21
	StatusBadConstraints Status = -22
	StatusBadInput       Status = -23
	StatusDegreesOfFree  Status = -24
)

// OK reports whether the status is a successful termination.
func (s Status) OK() bool {
	return s > 0
}

var statusText = map[Status]string{
	StatusInputError:     "General input parameter error.",
	StatusFtol:           "OK. Convergence in chi-square.",
	StatusXtol:           "OK. Convergence in parameter value.",
	StatusFtolXtol:       "OK. Convergence in chi-square and parameter value.",
	StatusGtol:           "OK. Convergence in orthogonality.",
	StatusMaxIterations:  "OK. Maximum number of iterations reached.",
	StatusFtolTooSmall:   "OK. No further improvements: relative chi-square convergence criterion.",
	StatusXtolTooSmall:   "OK. No further improvements: relative parameter convergence criterion.",
	StatusGtolTooSmall:   "OK. No further improvements: orthogonality convergence criterion.",
	StatusNonFinite:      "Error. User function produced non-finite values.",
	StatusNoFunction:     "Error. No user function was supplied.",
	StatusNoData:         "Error. No user data points were supplied.",
	StatusNoFree:         "Error. No free parameters.",
	StatusMemory:         "Error. Memory allocation error.",
	StatusInitBounds:     "Error. Initial values inconsistent with constraints.",
	StatusBadConstraints: "Error. Initial constraints inconsistent.",
	StatusBadInput:       "Error. General input parameter error.",
	StatusDegreesOfFree:  "Error. Not enough degrees of freedom.",
}

// String returns the human-readable description of s.
func (s Status) String() string {
	if t, ok := statusText[s]; ok {
		return t
	}

	return fmt.Sprintf("Status(%d)", int(s))
}

// Statuses returns every known status in ascending order.
func Statuses() []Status {
	return []Status{
		StatusDegreesOfFree, StatusBadInput, StatusBadConstraints, StatusInitBounds,
		StatusMemory, StatusNoFree, StatusNoData, StatusNoFunction, StatusNonFinite,
		StatusInputError, StatusFtol, StatusXtol, StatusFtolXtol, StatusGtol,
		StatusMaxIterations, StatusFtolTooSmall, StatusXtolTooSmall, StatusGtolTooSmall,
	}
}
