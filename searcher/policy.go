package searcher

import (
	"cmp"
	"math"

	"zerosum/game"

	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

// bestMove picks the visited move with the highest average value, breaking
// ties uniformly at random.
func bestMove(stats []MoveStat, rng *rand.Rand) (int, error) {
	var best []int
	maxValue := math.Inf(-1)
	for _, stat := range stats {
		if stat.Visits == 0 {
			continue
		}
		switch {
		case stat.Value > maxValue:
			maxValue = stat.Value
			best = append(best[:0], stat.Move)
		case stat.Value == maxValue:
			best = append(best, stat.Move)
		}
	}
	if len(best) == 0 {
		return 0, ErrNoStatistics
	}
	return best[rng.Intn(len(best))], nil
}

// weightedMove samples a move with probability proportional to its visits.
func weightedMove(stats []MoveStat, rng *rand.Rand) (int, error) {
	policy := adjustTemperature(stats, 1.0)
	if policy == nil {
		return 0, ErrNoStatistics
	}
	return stats[sample(policy, rng)].Move, nil
}

// adjustTemperature turns visit counts into move probabilities, sharpened
// (temperature < 1) or flattened (temperature > 1). Returns nil without visits.
func adjustTemperature(stats []MoveStat, temperature float64) []float64 {
	exponent := 1.0 / temperature
	sum := 0.0
	policy := make([]float64, len(stats))
	for i, stat := range stats {
		if stat.Visits == 0 {
			continue
		}
		policy[i] = math.Pow(float64(stat.Visits), exponent)
		sum += policy[i]
	}
	if sum == 0 {
		return nil
	}
	for i := range policy {
		policy[i] /= sum
	}
	return policy
}

func sample(policy []float64, rng *rand.Rand) int {
	sampled := rng.Float64()
	cumulative := 0.0
	last := 0
	for i, prob := range policy {
		if prob == 0 {
			continue
		}
		last = i
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return last // rounding
}

// visitShares spreads the root visits over the whole move space.
func visitShares(stats []MoveStat, moveSpace int) []float64 {
	shares := make([]float64, moveSpace)
	total := 0
	for _, stat := range stats {
		total += stat.Visits
	}
	if total == 0 {
		return nil
	}
	for _, stat := range stats {
		shares[stat.Move] = float64(stat.Visits) / float64(total)
	}
	return shares
}

// probabilities normalises visit counts with a softmax and sorts the moves
// from most to least likely.
func probabilities(board game.State, stats []MoveStat) []MoveProbability {
	if len(stats) == 0 {
		return nil
	}

	maxVisits := stats[0].Visits
	for _, stat := range stats[1:] {
		maxVisits = max(maxVisits, stat.Visits)
	}

	sum := 0.0
	result := make([]MoveProbability, len(stats))
	for i, stat := range stats {
		weight := math.Exp(float64(stat.Visits - maxVisits))
		sum += weight
		result[i] = MoveProbability{
			Move:        stat.Move,
			Text:        board.FormatMove(stat.Move),
			Probability: weight,
			Visits:      stat.Visits,
			Value:       stat.Value,
		}
	}
	for i := range result {
		result[i].Probability /= sum
	}

	slices.SortStableFunc(result, func(a, b MoveProbability) int {
		return cmp.Compare(b.Probability, a.Probability)
	})
	return result
}

// merge combines root statistics from independent searches by move: visits
// are summed and values averaged with visit weights.
func merge(results [][]MoveStat) []MoveStat {
	index := map[int]int{}
	var merged []MoveStat
	for _, stats := range results {
		for _, stat := range stats {
			i, ok := index[stat.Move]
			if !ok {
				i = len(merged)
				index[stat.Move] = i
				merged = append(merged, MoveStat{Move: stat.Move})
			}
			total := merged[i].Visits + stat.Visits
			if total > 0 {
				merged[i].Value = (merged[i].Value*float64(merged[i].Visits) + stat.Value*float64(stat.Visits)) / float64(total)
			}
			merged[i].Visits = total
		}
	}
	slices.SortFunc(merged, func(a, b MoveStat) int {
		return cmp.Compare(a.Move, b.Move)
	})
	return merged
}
