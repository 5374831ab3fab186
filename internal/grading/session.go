package grading

// Row is one student's grade sheet: the raw slot values for every key.
type Row struct {
	StudentID string
	Slots     [KeyCount][]Score
}

// NewRow parses raw values per key into a row.
func NewRow(studentID string, raw map[Key][]string) Row {
	row := Row{StudentID: studentID}
	for k, values := range raw {
		if idx := k.Index(); idx >= 0 {
			row.Slots[idx] = ParseScores(values)
		}
	}
	return row
}

// With returns a copy of r whose keys named in raw are replaced by the
// parsed values. Keys absent from raw keep their slots.
func (r Row) With(raw map[Key][]string) Row {
	for k, values := range raw {
		if idx := k.Index(); idx >= 0 {
			r.Slots[idx] = ParseScores(values)
		}
	}
	return r
}

// SetCell parses raw into slot i of k, growing the slot list when needed.
func (r *Row) SetCell(k Key, i int, raw string) {
	idx := k.Index()
	if idx < 0 || i < 0 || i >= MaxSlots {
		return
	}
	for len(r.Slots[idx]) <= i {
		r.Slots[idx] = append(r.Slots[idx], Score{State: ScoreEmpty})
	}
	r.Slots[idx][i] = ParseScore(raw)
}

// Stored returns the number of slots holding a non-empty value, counting
// up to the last non-empty one.
func (r Row) Stored(k Key) int {
	idx := k.Index()
	if idx < 0 {
		return 0
	}
	last := 0
	for i, s := range r.Slots[idx] {
		if s.State != ScoreEmpty {
			last = i + 1
		}
	}
	return last
}

// RowResult holds the computed scores of a row at full precision.
type RowResult struct {
	Averages [KeyCount]float64
	HasGrade [KeyCount]bool
	Unit1    float64
	Unit2    float64
	Final    float64
}

// Unit returns the score of u.
func (r RowResult) Unit(u Unit) float64 {
	if u == Unit2 {
		return r.Unit2
	}
	return r.Unit1
}

// UnitHasGrade reports whether any criterion of u holds a grade.
func (r RowResult) UnitHasGrade(u Unit) bool {
	for _, c := range Criteria {
		if r.HasGrade[Key{Unit: u, Criterion: c}.Index()] {
			return true
		}
	}
	return false
}

// Session is the calculation context of one course selection: its weights
// and the slot layout chosen by the instructor.
type Session struct {
	CourseID        string
	Weights         Weights
	DefaultsApplied bool
	Layout          SlotLayout
}

// NewSession builds a session. A nil weights pointer applies defaults.
func NewSession(courseID string, weights *Weights, defaults Weights, layout SlotLayout) *Session {
	s := &Session{CourseID: courseID, Layout: layout.Normalize()}
	if weights == nil {
		s.Weights = defaults
		s.DefaultsApplied = true
	} else {
		s.Weights = *weights
	}
	return s
}

// FitLayout widens the layout so no stored value of rows is hidden.
func (s *Session) FitLayout(rows []Row) {
	for _, r := range rows {
		for _, k := range Keys() {
			s.Layout.Widen(k, r.Stored(k))
		}
	}
}

// Visible returns the rendered slots of k: exactly Layout.Count(k) entries,
// padded with empty slots.
func (s *Session) Visible(r Row, k Key) []Score {
	n := s.Layout.Count(k)
	out := make([]Score, n)
	stored := r.Slots[k.Index()]
	for i := 0; i < n; i++ {
		if i < len(stored) {
			out[i] = stored[i]
		} else {
			out[i] = Score{State: ScoreEmpty}
		}
	}
	return out
}

// VisibleRaw returns the raw values of the rendered slots of k.
func (s *Session) VisibleRaw(r Row, k Key) []string {
	slots := s.Visible(r, k)
	raw := make([]string, len(slots))
	for i, sc := range slots {
		raw[i] = sc.Raw
	}
	return raw
}

// Compute recalculates a row from its rendered slots.
func (s *Session) Compute(r Row) RowResult {
	var res RowResult
	for _, k := range Keys() {
		slots := s.Visible(r, k)
		res.Averages[k.Index()] = CriterionAverage(slots)
		res.HasGrade[k.Index()] = HasGrade(slots)
	}
	res.Unit1 = UnitScore(Unit1, res.Averages, s.Weights)
	res.Unit2 = UnitScore(Unit2, res.Averages, s.Weights)
	res.Final = FinalScore(res.Unit1, res.Unit2)
	return res
}

// CellRef locates one rendered cell.
type CellRef struct {
	Row       int    `json:"row"`
	StudentID string `json:"student_id"`
	Key       Key    `json:"key"`
	Slot      int    `json:"slot"`
	Raw       string `json:"raw"`
}

// ValidationReport lists the invalid rendered cells of a table.
type ValidationReport struct {
	InvalidCount int       `json:"invalid_count"`
	Invalid      []CellRef `json:"invalid,omitempty"`
}

// OK reports whether the table may be saved or exported.
func (v ValidationReport) OK() bool {
	return v.InvalidCount == 0
}

// First returns the cell that should receive focus.
func (v ValidationReport) First() (CellRef, bool) {
	if len(v.Invalid) == 0 {
		return CellRef{}, false
	}
	return v.Invalid[0], true
}

// Validate scans every rendered cell in row, key and slot order.
func (s *Session) Validate(rows []Row) ValidationReport {
	var report ValidationReport
	for i, r := range rows {
		for _, k := range Keys() {
			for slot, sc := range s.Visible(r, k) {
				if sc.State != ScoreInvalid {
					continue
				}
				report.Invalid = append(report.Invalid, CellRef{Row: i, StudentID: r.StudentID, Key: k, Slot: slot, Raw: sc.Raw})
			}
		}
	}
	report.InvalidCount = len(report.Invalid)
	return report
}
