package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Типовые / юнитовые (reconciler)
	TypInfo                   Code = 3000
	TypUnrecognizedUnit       Code = 3001
	TypDimensionMismatch      Code = 3002
	TypIllegalOperand         Code = 3003
	TypNonConstantExponent    Code = 3004
	TypNonIntegerExponent     Code = 3005
	TypIllegalComparison      Code = 3006
	TypAssignmentMismatch     Code = 3007
	TypReturnMismatch         Code = 3008
	TypConditionNotBoolean    Code = 3009
	TypMixedNumericUnit       Code = 3010
	TypUnitComparisonMismatch Code = 3011
	TypDimensionOverflow      Code = 3012
	TypAssumedReal            Code = 3013
	TypUnknownSymbol          Code = 3014

	// IO / загрузка моделей
	IOInfo         Code = 4000
	IOFileNotFound Code = 4001
	IOModelDecode  Code = 4002

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown error",
	TypInfo:                   "Type information",
	TypUnrecognizedUnit:       "Unrecognized SI unit",
	TypDimensionMismatch:      "Physical dimensions do not match",
	TypIllegalOperand:         "Illegal operand combination",
	TypNonConstantExponent:    "Exponent of a unit type must be a constant",
	TypNonIntegerExponent:     "Exponent of a unit type must be an integer",
	TypIllegalComparison:      "Illegal comparison",
	TypAssignmentMismatch:     "Incompatible types in assignment",
	TypReturnMismatch:         "Wrong return type",
	TypConditionNotBoolean:    "Condition is not boolean",
	TypMixedNumericUnit:       "Plain number mixed with a unit-typed value",
	TypUnitComparisonMismatch: "Compared unit types do not match",
	TypDimensionOverflow:      "Dimension exponent out of range",
	TypAssumedReal:            "Mismatched unit types, result assumed real",
	TypUnknownSymbol:          "Use of an undeclared name",
	IOInfo:                    "IO information",
	IOFileNotFound:            "Model file not found",
	IOModelDecode:             "Model file could not be decoded",
	ObsInfo:                   "Observability information",
	ObsTimings:                "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
