package synth

import (
	"sort"

	"github.com/roach88/crosstemp/internal/dataset"
)

// Group counts the trials of one day and task.
type Group struct {
	Day         int    `json:"day"`
	Task        string `json:"task"`
	Trials      int    `json:"trials"`
	Sample1     int    `json:"sample_1"`
	Distractor1 int    `json:"distractor_1"`
	Choice1     int    `json:"choice_1"`
}

// Summary describes a recording by its layout and label counts.
type Summary struct {
	Name     string  `json:"name"`
	Neurons  int     `json:"neurons"`
	Bins     int     `json:"bins"`
	Duration float64 `json:"duration"`
	Trials   int     `json:"trials"`
	Groups   []Group `json:"groups"`
}

// Summarize counts trials per day and task, ordered by day then task.
func Summarize(rec *dataset.Recording) Summary {
	type key struct {
		day  int
		task string
	}
	index := make(map[key]int)
	var groups []Group
	for _, tr := range rec.Trials {
		k := key{tr.Day, tr.Task}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Day: tr.Day, Task: tr.Task})
		}
		g := &groups[i]
		g.Trials++
		if tr.Sample == 1 {
			g.Sample1++
		}
		if tr.Distractor == 1 {
			g.Distractor1++
		}
		if tr.Choice == 1 {
			g.Choice1++
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Day != groups[j].Day {
			return groups[i].Day < groups[j].Day
		}
		return groups[i].Task < groups[j].Task
	})

	return Summary{
		Name:     rec.Name,
		Neurons:  rec.Neurons,
		Bins:     rec.Bins,
		Duration: rec.Duration,
		Trials:   len(rec.Trials),
		Groups:   groups,
	}
}

// CanonicalMap converts the summary for canonical JSON serialization.
func (s Summary) CanonicalMap() map[string]any {
	groups := make([]any, len(s.Groups))
	for i, g := range s.Groups {
		groups[i] = map[string]any{
			"day":          g.Day,
			"task":         g.Task,
			"trials":       g.Trials,
			"sample_1":     g.Sample1,
			"distractor_1": g.Distractor1,
			"choice_1":     g.Choice1,
		}
	}
	return map[string]any{
		"name":     s.Name,
		"neurons":  s.Neurons,
		"bins":     s.Bins,
		"duration": s.Duration,
		"trials":   s.Trials,
		"groups":   groups,
	}
}
