package rulelearn

type UnionParameters struct {
	TypeOfUnions         UnionType `json:"typeOfUnions"`
	ConsistencyThreshold float64   `json:"consistencyThreshold"`
}

func (p UnionParameters) Validate() error {
	if _, err := ParseUnionType(string(p.TypeOfUnions)); err != nil {
		return err
	}
	return validateThreshold(p.ConsistencyThreshold)
}

type UnionKind string

const (
	AtLeast UnionKind = "AT_LEAST"
	AtMost  UnionKind = "AT_MOST"
)

// Union is an upward (AT_LEAST) or downward (AT_MOST) union of decision
// classes with its rough approximations.
//
// Object sets are indices of objects in the table.
type Union struct {
	UnionType        UnionKind `json:"unionType"`
	LimitingDecision string    `json:"limitingDecision"`

	AccuracyOfApproximation float64 `json:"accuracyOfApproximation"`
	QualityOfApproximation  float64 `json:"qualityOfApproximation"`

	Objects            []int `json:"objects"`
	LowerApproximation []int `json:"lowerApproximation"`
	UpperApproximation []int `json:"upperApproximation"`
	Boundary           []int `json:"boundary"`
	PositiveRegion     []int `json:"positiveRegion"`
	NegativeRegion     []int `json:"negativeRegion"`
	BoundaryRegion     []int `json:"boundaryRegion"`
}

// Unions is unions with single limiting decision.
type Unions struct {
	DownwardUnions []Union `json:"downwardUnions"`
	UpwardUnions   []Union `json:"upwardUnions"`

	// quality of approximation of the whole classification.
	QualityOfApproximation float64 `json:"qualityOfApproximation"`
}

// Cones is dominance cones of each object, as indices of objects.
//
// The n-th element of each list is the cone of the n-th object.
type Cones struct {
	NumberOfObjects int `json:"numberOfObjects"`

	PositiveDCones    [][]int `json:"positiveDCones"`
	NegativeDCones    [][]int `json:"negativeDCones"`
	PositiveInvDCones [][]int `json:"positiveInvDCones"`
	NegativeInvDCones [][]int `json:"negativeInvDCones"`
}
