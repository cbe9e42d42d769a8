package search

// QualitySum returns the sum of blueprint ID times geodes over results.
func QualitySum(results []Result) int {
	total := 0
	for _, r := range results {
		total += r.BlueprintID * r.Geodes
	}
	return total
}

// GeodeProduct multiplies the geode counts of the first n results
// (all of them when n <= 0 or n exceeds the slice). An empty input yields 1.
func GeodeProduct(results []Result, n int) int {
	if n <= 0 || n > len(results) {
		n = len(results)
	}
	product := 1
	for _, r := range results[:n] {
		product *= r.Geodes
	}
	return product
}
