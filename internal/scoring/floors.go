package scoring

import (
	"github.com/jonathan/jobfiltr/internal/types"
)

// FloorInput carries the facts the floor rules look at.
type FloorInput struct {
	DaysSincePosted  *int
	ApplicantCount   *int
	StaffingDetected bool
	Reposted         bool
}

type floorRule struct {
	name    string
	minimum types.PercentScore
	applies func(in FloorInput) bool
}

func olderThan(days int) func(FloorInput) bool {
	return func(in FloorInput) bool {
		return in.DaysSincePosted != nil && *in.DaysSincePosted >= days
	}
}

func manyApplicants(in FloorInput) bool {
	return in.ApplicantCount != nil && *in.ApplicantCount >= 500
}

// floorRules are ordered by minimum, highest first, so only the floor that
// actually decides the score is reported.
var floorRules = []floorRule{
	{name: "posted_90_days", minimum: 65, applies: olderThan(90)},
	{name: "applicants_500_aged", minimum: 55, applies: func(in FloorInput) bool {
		return manyApplicants(in) && olderThan(30)(in)
	}},
	{name: "posted_60_days", minimum: 50, applies: olderThan(60)},
	{name: "reposted", minimum: 50, applies: func(in FloorInput) bool { return in.Reposted }},
	{name: "applicants_500", minimum: 45, applies: manyApplicants},
	{name: "staffing_agency", minimum: 40, applies: func(in FloorInput) bool { return in.StaffingDetected }},
	{name: "posted_45_days", minimum: 35, applies: olderThan(45)},
}

// ApplyFloors raises score to the minimum of every rule that applies. It never
// lowers a score and applying it twice gives the same result. The names of rules
// that raised the score are returned.
func ApplyFloors(score types.PercentScore, in FloorInput) (types.PercentScore, []string) {
	var applied []string
	for _, r := range floorRules {
		if !r.applies(in) || r.minimum <= score {
			continue
		}
		score = score.Max(r.minimum)
		applied = append(applied, r.name)
	}
	return score, applied
}
