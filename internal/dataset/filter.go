package dataset

// Selection is the caller-supplied filter: a set of allowed fiscal years and
// a set of allowed organization states. An empty set matches nothing; the
// presentation layer passes every observed value when the user selects all.
type Selection struct {
	Years  []int
	States []string
}

// AllOf returns the selection covering every year and state observed in
// records, mirroring the default state of the filter controls.
func AllOf(records []Record) Selection {
	return Selection{Years: Years(records), States: States(records)}
}

// Filter returns the records whose fiscal year and state are both members of
// the selection. Surviving records keep their input order; the inputs are
// never mutated.
func Filter(records []Record, sel Selection) []Record {
	years := make(map[int]struct{}, len(sel.Years))
	for _, y := range sel.Years {
		years[y] = struct{}{}
	}
	states := make(map[string]struct{}, len(sel.States))
	for _, s := range sel.States {
		states[s] = struct{}{}
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if _, ok := years[r.FiscalYear]; !ok {
			continue
		}
		if _, ok := states[r.OrgState]; !ok {
			continue
		}
		out = append(out, r)
	}
	return out
}
