package models

import "time"

// Feature is the product area a ticket concerns. The values double as
// the button labels shown to the user.
type Feature string

const (
	FeatureStopList   Feature = "Stop List"
	FeatureGPA        Feature = "GPA"
	FeatureCoursework Feature = "Coursework"
	FeaturePlanner    Feature = "Planner"
	FeatureOthers     Feature = "Others"
)

func Features() []Feature {
	return []Feature{
		FeatureStopList,
		FeatureGPA,
		FeatureCoursework,
		FeaturePlanner,
		FeatureOthers,
	}
}

func ParseFeature(s string) (Feature, bool) {
	for _, f := range Features() {
		if s == string(f) {
			return f, true
		}
	}
	return "", false
}

// TracksCourse reports whether tickets for this feature carry a course code.
func (f Feature) TracksCourse() bool {
	return f == FeaturePlanner
}

type Status string

const (
	StatusOpen   Status = "Open"
	StatusClosed Status = "Closed"
)

type Ticket struct {
	ID          string
	Feature     Feature
	CourseCode  string
	Description string
	Status      Status
	CreatedAt   time.Time
}
