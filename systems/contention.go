package systems

import (
	"math"
	"sort"
)

// Distribution rule constants.
const (
	NeutralEgo             = 0.5
	EgoEpsilon             = 1e-6
	NeutralBonus           = 5.0  // added to each half when both agents are neutral
	CooperativeBonus       = 1.10 // multiplier when the pair asks for less than the cow
	PenaltyRate            = 0.10
	PenaltyMultiplier      = 3.0
	HigherEgoPenaltyFactor = 2.0 // extra weight on the penalty of the greedier agent
)

// Branch identifies which case of the distribution rule was applied.
type Branch uint8

const (
	BranchNeutral Branch = iota
	BranchUnder
	BranchExact
	BranchOver
)

func (b Branch) String() string {
	switch b {
	case BranchNeutral:
		return "neutral"
	case BranchUnder:
		return "under"
	case BranchExact:
		return "exact"
	default:
		return "over"
	}
}

// DistributePoints splits a cow's value between two agents by their egos.
func DistributePoints(egoA, egoB, value float64) (shareA, shareB float64) {
	shareA, shareB, _ = Distribute(egoA, egoB, value)
	return shareA, shareB
}

// Distribute is DistributePoints that also reports the branch taken.
// Shares are never negative.
func Distribute(egoA, egoB, value float64) (shareA, shareB float64, branch Branch) {
	if math.Abs(egoA-NeutralEgo) < EgoEpsilon && math.Abs(egoB-NeutralEgo) < EgoEpsilon {
		half := value / 2
		return half + NeutralBonus, half + NeutralBonus, BranchNeutral
	}

	wantA := egoA * value
	wantB := egoB * value
	totalWant := wantA + wantB

	if totalWant < value-EgoEpsilon {
		left := (value - totalWant) / 2
		return (wantA + left) * CooperativeBonus, (wantB + left) * CooperativeBonus, BranchUnder
	}
	if math.Abs(totalWant-value) <= EgoEpsilon {
		return wantA, wantB, BranchExact
	}

	// over-subscribed
	baseA := value * wantA / totalWant
	baseB := value * wantB / totalWant
	penA := PenaltyRate * egoA * baseA
	penB := PenaltyRate * egoB * baseB
	if egoA > egoB {
		penA *= HigherEgoPenaltyFactor
	} else if egoB > egoA {
		penB *= HigherEgoPenaltyFactor
	}
	shareA = math.Max(0, baseA-PenaltyMultiplier*penA)
	shareB = math.Max(0, baseB-PenaltyMultiplier*penB)
	return shareA, shareB, BranchOver
}

// NearestPair stable-sorts candidates by squared distance and returns the two
// closest. ok is false when fewer than two candidates exist.
func NearestPair(cands []Neighbor) (a, b Neighbor, ok bool) {
	if len(cands) < 2 {
		return Neighbor{}, Neighbor{}, false
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].DistSq < cands[j].DistSq
	})
	return cands[0], cands[1], true
}
