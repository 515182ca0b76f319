package model

import (
	"time"

	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

// Loss event column names, in table order
const (
	ColumnTimestamp         = "Timestamp"
	ColumnBusinessUnit      = "Business_Unit"
	ColumnRiskCategory      = "Risk_Category"
	ColumnLossAmount        = "Loss_Amount"
	ColumnNearMissFlag      = "Near_Miss_Flag"
	ColumnControlBreachType = "Control_Breach_Type"
	ColumnRecoveryTimeDays  = "Recovery_Time_Days"
)

// ColumnBaselEventType is the category column summaries group by when none is given.
const ColumnBaselEventType = "Basel_Event_Type"

// LossEventColumns returns the generated table's column names in order.
func LossEventColumns() []string {
	return []string{
		ColumnTimestamp,
		ColumnBusinessUnit,
		ColumnRiskCategory,
		ColumnLossAmount,
		ColumnNearMissFlag,
		ColumnControlBreachType,
		ColumnRecoveryTimeDays,
	}
}

// LossEventColumnTypes returns the declared type of each loss event column.
func LossEventColumnTypes() map[string]types.ColumnType {
	return map[string]types.ColumnType{
		ColumnTimestamp:         types.ColumnTypeDatetime,
		ColumnBusinessUnit:      types.ColumnTypeString,
		ColumnRiskCategory:      types.ColumnTypeString,
		ColumnLossAmount:        types.ColumnTypeFloat,
		ColumnNearMissFlag:      types.ColumnTypeBool,
		ColumnControlBreachType: types.ColumnTypeString,
		ColumnRecoveryTimeDays:  types.ColumnTypeInt,
	}
}

// LossEvent is one synthetic operational loss record.
type LossEvent struct {
	Timestamp         time.Time `json:"Timestamp" yaml:"Timestamp"`
	BusinessUnit      string    `json:"Business_Unit" yaml:"Business_Unit"`
	RiskCategory      string    `json:"Risk_Category" yaml:"Risk_Category"`
	LossAmount        float64   `json:"Loss_Amount" yaml:"Loss_Amount"`
	NearMissFlag      bool      `json:"Near_Miss_Flag" yaml:"Near_Miss_Flag"`
	ControlBreachType string    `json:"Control_Breach_Type" yaml:"Control_Breach_Type"`
	RecoveryTimeDays  int64     `json:"Recovery_Time_Days" yaml:"Recovery_Time_Days"`
}

// NewLossEventTable lays events out as a table with the fixed loss event columns.
// An empty slice yields a zero-row table that still carries all columns.
func NewLossEventTable(events []LossEvent) *Table {
	n := len(events)
	ts := make([]any, n)
	bu := make([]any, n)
	rc := make([]any, n)
	loss := make([]any, n)
	nearMiss := make([]any, n)
	breach := make([]any, n)
	recovery := make([]any, n)

	for i, ev := range events {
		ts[i] = ev.Timestamp
		bu[i] = ev.BusinessUnit
		rc[i] = ev.RiskCategory
		loss[i] = ev.LossAmount
		nearMiss[i] = ev.NearMissFlag
		breach[i] = ev.ControlBreachType
		recovery[i] = ev.RecoveryTimeDays
	}

	colTypes := LossEventColumnTypes()
	values := map[string][]any{
		ColumnTimestamp:         ts,
		ColumnBusinessUnit:      bu,
		ColumnRiskCategory:      rc,
		ColumnLossAmount:        loss,
		ColumnNearMissFlag:      nearMiss,
		ColumnControlBreachType: breach,
		ColumnRecoveryTimeDays:  recovery,
	}

	names := LossEventColumns()
	cols := make([]*Column, len(names))
	for i, name := range names {
		cols[i] = &Column{Name: name, Type: colTypes[name], Values: values[name]}
	}

	// names are fixed and lengths equal, so construction cannot fail
	t, _ := NewTable(cols...)
	return t
}

// LossEventSchema describes a generated loss event table. Every column is critical.
func LossEventSchema() Schema {
	return Schema{
		ExpectedColumns: LossEventColumns(),
		ExpectedTypes:   LossEventColumnTypes(),
		CriticalColumns: LossEventColumns(),
	}
}
