package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	u1cc = Key{Unit: Unit1, Criterion: ContinuousAssessment}
	u1cp = Key{Unit: Unit1, Criterion: Practice}
	u1ca = Key{Unit: Unit1, Criterion: Attitude}
)

func TestSessionComputeEndToEnd(t *testing.T) {
	w := Weights{40, 50, 10, 40, 50, 10}
	s := NewSession("course", &w, DefaultWeights, DefaultLayout())
	row := NewRow("st1", map[Key][]string{u1cc: {"18"}, u1cp: {"15"}, u1ca: {"20"}})

	res := s.Compute(row)
	assert.InDelta(t, 16.70, res.Unit1, 1e-9)
	assert.Equal(t, 16.70, Round2(res.Unit1))
	assert.Equal(t, 0.0, res.Unit2)
	assert.Equal(t, 8.35, Round2(res.Final))
	assert.True(t, res.UnitHasGrade(Unit1))
	assert.False(t, res.UnitHasGrade(Unit2))
}

func TestSessionAppliesDefaultsWhenWeightsAbsent(t *testing.T) {
	s := NewSession("course", nil, DefaultWeights, DefaultLayout())
	assert.True(t, s.DefaultsApplied)
	assert.Equal(t, DefaultWeights, s.Weights)
}

func TestAddingEmptySlotKeepsAverage(t *testing.T) {
	s := NewSession("course", nil, DefaultWeights, DefaultLayout())
	row := NewRow("st1", map[Key][]string{u1cc: {"14"}})
	before := s.Compute(row)

	require.NoError(t, s.Layout.Adjust(u1cc, 1))
	assert.Equal(t, 2, s.Layout.Count(u1cc))
	after := s.Compute(row)
	assert.Equal(t, before.Averages, after.Averages)
	assert.Len(t, s.Visible(row, u1cc), 2)
}

func TestLayoutBounds(t *testing.T) {
	l := DefaultLayout()
	assert.ErrorIs(t, l.Adjust(u1cc, -1), ErrSlotBounds)
	require.NoError(t, l.Set(u1cc, 3))
	assert.ErrorIs(t, l.Adjust(u1cc, 1), ErrSlotBounds)
	assert.Equal(t, 3, l.Count(u1cc))
}

func TestRemovedSlotLeavesComputation(t *testing.T) {
	layout := DefaultLayout()
	require.NoError(t, layout.Set(u1cc, 2))
	s := NewSession("course", nil, DefaultWeights, layout)
	row := NewRow("st1", map[Key][]string{u1cc: {"10", "20"}})
	assert.Equal(t, 15.0, s.Compute(row).Averages[u1cc.Index()])

	require.NoError(t, s.Layout.Adjust(u1cc, -1))
	assert.Equal(t, 10.0, s.Compute(row).Averages[u1cc.Index()])
}

func TestFitLayoutShowsStoredValues(t *testing.T) {
	s := NewSession("course", nil, DefaultWeights, DefaultLayout())
	rows := []Row{NewRow("st1", map[Key][]string{u1cp: {"10", "", "12"}})}
	s.FitLayout(rows)
	assert.Equal(t, 3, s.Layout.Count(u1cp))
	assert.Equal(t, 1, s.Layout.Count(u1cc))
}

func TestValidateReportsInvalidCells(t *testing.T) {
	s := NewSession("course", nil, DefaultWeights, DefaultLayout())
	rows := []Row{
		NewRow("st1", map[Key][]string{u1cc: {"12"}}),
		NewRow("st2", map[Key][]string{u1cp: {"25"}}),
	}
	report := s.Validate(rows)
	assert.False(t, report.OK())
	assert.Equal(t, 1, report.InvalidCount)
	first, ok := report.First()
	require.True(t, ok)
	assert.Equal(t, CellRef{Row: 1, StudentID: "st2", Key: u1cp, Slot: 0, Raw: "25"}, first)

	rows[1].SetCell(u1cp, 0, "19")
	assert.True(t, s.Validate(rows).OK())
}

func TestValidateIgnoresHiddenSlots(t *testing.T) {
	s := NewSession("course", nil, DefaultWeights, DefaultLayout())
	rows := []Row{NewRow("st1", map[Key][]string{u1cc: {"12", "99"}})}
	assert.True(t, s.Validate(rows).OK())
}

func TestRowWithKeepsOmittedKeys(t *testing.T) {
	stored := NewRow("st1", map[Key][]string{u1cc: {"18"}, u1cp: {"15"}, u1ca: {"20"}})

	edited := stored.With(map[Key][]string{u1cp: {"12", "NP"}})
	assert.Equal(t, "18", edited.Slots[u1cc.Index()][0].Raw)
	assert.Equal(t, "20", edited.Slots[u1ca.Index()][0].Raw)
	require.Len(t, edited.Slots[u1cp.Index()], 2)
	assert.Equal(t, ScoreNotPresented, edited.Slots[u1cp.Index()][1].State)

	assert.Equal(t, "15", stored.Slots[u1cp.Index()][0].Raw)
}
