package engine

import (
	"testing"

	"reviewdesk/internal/model"
)

func numericFixture() *model.Table {
	return &model.Table{
		Columns: []string{"group_id", "pattern", "decision", "weight"},
		Rows: []model.Row{
			{"group_id": "G1", "pattern": "P1", "decision": nil, "weight": 1.5},
			{"group_id": "G2", "pattern": "P2", "decision": nil, "weight": 2.0},
		},
	}
}

func TestValidateValuesUnknownColumn(t *testing.T) {
	e := testEngine()
	tbl := detailFixture()

	err := e.validateValues(tbl, &model.UpdateIntent{Values: map[string]any{"no_such_column": "x"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := KindOf(err); got != KindSchemaViolation {
		t.Fatalf("kind=%s, want %s", got, KindSchemaViolation)
	}
}

func TestValidateValuesSkipsKeyColumns(t *testing.T) {
	e := testEngine()
	tbl := detailFixture()

	// 业务键与聚合元数据列不校验存在性，也不写入
	err := e.validateValues(tbl, &model.UpdateIntent{Values: map[string]any{
		"group_id":     "G1",
		"Cluster":      "X",
		"ticket_count": 3,
	}})
	if err != nil {
		t.Fatalf("validateValues: %v", err)
	}
}

func TestApplyValuesCoercesNumericColumn(t *testing.T) {
	e := testEngine()
	tbl := numericFixture()

	e.applyValues(tbl, 0, &model.UpdateIntent{Values: map[string]any{"weight": "4.25"}})

	if got, want := tbl.Rows[0]["weight"], 4.25; got != want {
		t.Fatalf("weight=%v (%T), want %v", got, got, want)
	}
}

func TestApplyValuesLenientFallbackKeepsOriginal(t *testing.T) {
	e := testEngine()
	tbl := numericFixture()

	// 宽容模式：转换失败原样写入，不报错
	e.applyValues(tbl, 0, &model.UpdateIntent{Values: map[string]any{"weight": "not-a-number"}})

	if got, want := tbl.Rows[0]["weight"], "not-a-number"; got != want {
		t.Fatalf("weight=%v, want original value %v", got, want)
	}
}

func TestStrictCoercionAbortsInDryRun(t *testing.T) {
	e := testEngine()
	e.strict = true
	tbl := numericFixture()

	err := e.validateValues(tbl, &model.UpdateIntent{Values: map[string]any{"weight": "not-a-number"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := KindOf(err); got != KindCoercionFailure {
		t.Fatalf("kind=%s, want %s", got, KindCoercionFailure)
	}
	// 干跑失败不得改动任何行
	if got, want := tbl.Rows[0]["weight"], 1.5; got != want {
		t.Fatalf("weight=%v, want untouched %v", got, want)
	}
}

func TestApplyValuesNonNumericColumnUntouchedByCoercion(t *testing.T) {
	e := testEngine()
	tbl := detailFixture()

	e.applyValues(tbl, 0, &model.UpdateIntent{Values: map[string]any{
		"decision": "No Change",
		"comment":  "looks fine",
	}})

	if got, want := tbl.Rows[0]["decision"], "No Change"; got != want {
		t.Fatalf("decision=%v, want %v", got, want)
	}
	if got, want := tbl.Rows[0]["comment"], "looks fine"; got != want {
		t.Fatalf("comment=%v, want %v", got, want)
	}
}

func TestApplyValuesMatchesColumnCaseInsensitively(t *testing.T) {
	e := testEngine()
	tbl := detailFixture()

	e.applyValues(tbl, 0, &model.UpdateIntent{Values: map[string]any{"Decision": "Increase"}})

	if got, want := tbl.Rows[0]["decision"], "Increase"; got != want {
		t.Fatalf("decision=%v, want %v", got, want)
	}
}
