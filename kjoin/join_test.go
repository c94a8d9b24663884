package kjoin

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kblocks/kmodel"
	"github.com/birdayz/kblocks/kschema"
	"github.com/go-logr/logr/testr"
	"github.com/google/go-cmp/cmp"
)

func join(left, right []kmodel.Row, cfg kmodel.JoinConfig) kmodel.ExecutionResult {
	return New().Execute(left, right, kschema.InferSchema(left), kschema.InferSchema(right), cfg)
}

func byDept(joinType kmodel.JoinType) kmodel.JoinConfig {
	return kmodel.JoinConfig{
		JoinType: joinType,
		Keys:     []kmodel.JoinKey{{LeftKey: "dept", RightKey: "dept"}},
	}
}

func assertRows(t *testing.T, want, got []kmodel.Row) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestInnerJoinPrefixed(t *testing.T) {
	left := []kmodel.Row{{"id": 1, "name": "Alice", "dept": 10}}
	right := []kmodel.Row{{"dept": 10, "dept_name": "Eng"}}

	res := join(left, right, byDept(kmodel.JoinTypeInner))
	assert.False(t, res.Failed())
	assertRows(t, []kmodel.Row{
		{"left_id": 1, "left_name": "Alice", "left_dept": 10, "right_dept": 10, "right_dept_name": "Eng"},
	}, res.SampleData)
	assert.Equal(t, 1, res.Rows())
	assert.Equal(t, 5, res.Schema.Len())
	assert.Equal(t, "", res.BlockID)
}

func TestInnerJoinExplicitColumns(t *testing.T) {
	left := []kmodel.Row{{"id": 1, "name": "Alice", "dept": 10}}
	right := []kmodel.Row{{"dept": 10, "dept_name": "Eng"}}

	cfg := byDept(kmodel.JoinTypeInner)
	cfg.OutputColumns = []kmodel.OutputColumn{
		{SourceColumn: "left.id", OutputName: "id"},
		{SourceColumn: "left.name", OutputName: "name"},
		{SourceColumn: "left.dept", OutputName: "dept"},
		{SourceColumn: "right.dept_name", OutputName: "dept_name"},
	}

	res := join(left, right, cfg)
	assertRows(t, []kmodel.Row{{"id": 1, "name": "Alice", "dept": 10, "dept_name": "Eng"}}, res.SampleData)
	assert.Equal(t, []string{"id", "name", "dept", "dept_name"}, res.Schema.Names())
}

func TestNullEquality(t *testing.T) {
	left := []kmodel.Row{{"id": 1, "dept": nil}}
	right := []kmodel.Row{{"dept": nil, "desc": "Unknown"}}

	t.Run("disabled by default", func(t *testing.T) {
		res := join(left, right, byDept(kmodel.JoinTypeInner))
		assert.False(t, res.Failed())
		assert.Equal(t, 0, len(res.SampleData))
		assert.Equal(t, 0, res.Rows())
	})

	t.Run("enabled", func(t *testing.T) {
		cfg := byDept(kmodel.JoinTypeInner)
		cfg.Options.NullEquality = true
		res := join(left, right, cfg)
		assert.Equal(t, 1, len(res.SampleData))
	})

	t.Run("null never matches a value", func(t *testing.T) {
		cfg := byDept(kmodel.JoinTypeInner)
		cfg.Options.NullEquality = true
		res := join(left, []kmodel.Row{{"dept": 0, "desc": "zero"}}, cfg)
		assert.Equal(t, 0, len(res.SampleData))
	})

	t.Run("absent key counts as null", func(t *testing.T) {
		cfg := byDept(kmodel.JoinTypeInner)
		cfg.Options.NullEquality = true
		res := New().Execute(
			[]kmodel.Row{{"id": 1}},
			[]kmodel.Row{{"dept": nil}},
			kmodel.NewSchema(kmodel.Column{Name: "id"}, kmodel.Column{Name: "dept"}),
			kmodel.NewSchema(kmodel.Column{Name: "dept"}),
			cfg,
		)
		assert.Equal(t, 1, len(res.SampleData))
	})
}

var (
	emps = []kmodel.Row{
		{"id": 1, "dept": 10},
		{"id": 2, "dept": 20},
		{"id": 3, "dept": 99},
	}
	depts = []kmodel.Row{
		{"dept": 10, "name": "Eng"},
		{"dept": 20, "name": "Ops"},
		{"dept": 20, "name": "Ops-2"},
		{"dept": 30, "name": "Sales"},
	}
)

func TestLeftJoin(t *testing.T) {
	res := join(emps, depts, byDept(kmodel.JoinTypeLeft))
	assertRows(t, []kmodel.Row{
		{"left_id": 1, "left_dept": 10, "right_dept": 10, "right_name": "Eng"},
		{"left_id": 2, "left_dept": 20, "right_dept": 20, "right_name": "Ops"},
		{"left_id": 2, "left_dept": 20, "right_dept": 20, "right_name": "Ops-2"},
		{"left_id": 3, "left_dept": 99},
	}, res.SampleData)
	assert.True(t, len(res.SampleData) >= len(emps))

	col, _ := res.Schema.Column("right_name")
	assert.True(t, col.Nullable)
}

func TestLeftJoinUnmatchedExplicitColumnsAreNull(t *testing.T) {
	cfg := byDept(kmodel.JoinTypeLeft)
	cfg.OutputColumns = []kmodel.OutputColumn{
		{SourceColumn: "left.id", OutputName: "id"},
		{SourceColumn: "right.name", OutputName: "dept_name"},
	}
	res := join(emps[2:], depts, cfg)
	assertRows(t, []kmodel.Row{{"id": 3, "dept_name": nil}}, res.SampleData)
}

func TestRightJoin(t *testing.T) {
	res := join(emps, depts, byDept(kmodel.JoinTypeRight))
	assertRows(t, []kmodel.Row{
		{"left_id": 1, "left_dept": 10, "right_dept": 10, "right_name": "Eng"},
		{"left_id": 2, "left_dept": 20, "right_dept": 20, "right_name": "Ops"},
		{"left_id": 2, "left_dept": 20, "right_dept": 20, "right_name": "Ops-2"},
		{"right_dept": 30, "right_name": "Sales"},
	}, res.SampleData)

	col, _ := res.Schema.Column("left_id")
	assert.True(t, col.Nullable)
}

func TestFullJoin(t *testing.T) {
	left := []kmodel.Row{
		{"id": 1, "dept": 20},
		{"id": 2, "dept": 20},
		{"id": 3, "dept": 99},
	}
	res := join(left, depts, byDept(kmodel.JoinTypeFull))

	// 4 matched pairs, 1 unmatched left, 2 unmatched right (10 and 30).
	assertRows(t, []kmodel.Row{
		{"left_id": 1, "left_dept": 20, "right_dept": 20, "right_name": "Ops"},
		{"left_id": 1, "left_dept": 20, "right_dept": 20, "right_name": "Ops-2"},
		{"left_id": 2, "left_dept": 20, "right_dept": 20, "right_name": "Ops"},
		{"left_id": 2, "left_dept": 20, "right_dept": 20, "right_name": "Ops-2"},
		{"left_id": 3, "left_dept": 99},
		{"right_dept": 10, "right_name": "Eng"},
		{"right_dept": 30, "right_name": "Sales"},
	}, res.SampleData)

	for _, col := range res.Schema.Columns {
		assert.True(t, col.Nullable, col.Name)
	}
}

func TestCrossJoinIgnoresKeys(t *testing.T) {
	res := join(emps, depts, byDept(kmodel.JoinTypeCross))
	assert.Equal(t, len(emps)*len(depts), len(res.SampleData))
	assert.Equal(t, kmodel.Row{"left_id": 1, "left_dept": 10, "right_dept": 10, "right_name": "Eng"}, res.SampleData[0])
	assert.Equal(t, kmodel.Row{"left_id": 3, "left_dept": 99, "right_dept": 30, "right_name": "Sales"}, res.SampleData[11])
}

func TestCrossJoinEmptySide(t *testing.T) {
	res := join(emps, nil, kmodel.JoinConfig{JoinType: kmodel.JoinTypeCross})
	assert.False(t, res.Failed())
	assert.Equal(t, 0, len(res.SampleData))
}

func TestMultiKeyJoin(t *testing.T) {
	left := []kmodel.Row{{"a": 1, "b": "x"}, {"a": 1, "b": "y"}}
	right := []kmodel.Row{{"a": 1.0, "b": "x", "v": true}}
	res := join(left, right, kmodel.JoinConfig{
		JoinType: kmodel.JoinTypeInner,
		Keys:     []kmodel.JoinKey{{LeftKey: "a", RightKey: "a"}, {LeftKey: "b", RightKey: "b"}},
	})
	assert.Equal(t, 1, len(res.SampleData))
	assert.Equal(t, "x", res.SampleData[0]["left_b"])
}

func TestDedupeOption(t *testing.T) {
	left := []kmodel.Row{{"k": 1}, {"k": 1}, {"k": 2}}
	right := []kmodel.Row{{"k": 1}, {"k": 2}}
	cfg := kmodel.JoinConfig{
		JoinType: kmodel.JoinTypeInner,
		Keys:     []kmodel.JoinKey{{LeftKey: "k", RightKey: "k"}},
	}

	res := join(left, right, cfg)
	assert.Equal(t, 3, len(res.SampleData))

	cfg.Options.Dedupe = true
	res = join(left, right, cfg)
	assertRows(t, []kmodel.Row{
		{"left_k": 1, "right_k": 1},
		{"left_k": 2, "right_k": 2},
	}, res.SampleData)
	assert.Equal(t, 2, res.Rows())
}

func TestValidationFailure(t *testing.T) {
	res := join(emps, depts, kmodel.JoinConfig{
		JoinType: kmodel.JoinTypeInner,
		Keys:     []kmodel.JoinKey{{LeftKey: "nope", RightKey: "dept"}, {LeftKey: "dept", RightKey: "gone"}},
	})
	assert.True(t, res.Failed())
	assert.Contains(t, res.Error, `left key "nope"`)
	assert.Contains(t, res.Error, "; ")
	assert.Contains(t, res.Error, `right key "gone"`)
	assert.Equal(t, 0, len(res.SampleData))
	assert.Equal(t, 0, res.Schema.Len())
}

func TestUnknownJoinType(t *testing.T) {
	res := join(emps, depts, kmodel.JoinConfig{JoinType: "sideways"})
	assert.True(t, res.Failed())
	assert.Contains(t, res.Error, `unknown join type "sideways"`)
	assert.Equal(t, 0, len(res.SampleData))
}

func TestJoinProperties(t *testing.T) {
	left := []kmodel.Row{
		{"k": 1}, {"k": 2}, {"k": 2}, {"k": nil}, {"k": 5},
	}
	right := []kmodel.Row{
		{"k": 2}, {"k": 3}, {"k": nil}, {"k": 1}, {"k": 1},
	}
	cfg := func(jt kmodel.JoinType) kmodel.JoinConfig {
		return kmodel.JoinConfig{JoinType: jt, Keys: []kmodel.JoinKey{{LeftKey: "k", RightKey: "k"}}}
	}

	inner := join(left, right, cfg(kmodel.JoinTypeInner))
	assert.True(t, len(inner.SampleData) <= len(left)*len(right))
	for _, row := range inner.SampleData {
		assert.True(t, Equal(row["left_k"], row["right_k"]))
	}

	// matched pairs: k=1 -> 2, k=2 -> 2
	matched := len(inner.SampleData)
	assert.Equal(t, 4, matched)

	leftRes := join(left, right, cfg(kmodel.JoinTypeLeft))
	assert.Equal(t, matched+2, len(leftRes.SampleData))

	full := join(left, right, cfg(kmodel.JoinTypeFull))
	// unmatched left: nil, 5; unmatched right: 3, nil
	assert.Equal(t, matched+2+2, len(full.SampleData))

	cross := join(left, right, cfg(kmodel.JoinTypeCross))
	assert.Equal(t, len(left)*len(right), len(cross.SampleData))
}

func TestExecutorWithLogr(t *testing.T) {
	e := New(WithLogr(testr.New(t)))
	cfg := byDept(kmodel.JoinTypeInner)
	cfg.Options.Dedupe = true
	res := e.Execute(emps, depts, kschema.InferSchema(emps), kschema.InferSchema(depts), cfg)
	assert.Equal(t, 3, len(res.SampleData))
}
