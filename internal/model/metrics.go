package model

import "github.com/shopspring/decimal"

// MinistryTotal aggregates all demands of one ministry.
type MinistryTotal struct {
	Ministry string          `json:"ministry"`
	Demands  int             `json:"demands"`
	Total    decimal.Decimal `json:"total"`
	Revenue  decimal.Decimal `json:"revenue"`
	Capital  decimal.Decimal `json:"capital"`
}

// DemandNode is a leaf of the allocation hierarchy.
type DemandNode struct {
	Demand string          `json:"demand"`
	Total  decimal.Decimal `json:"total"`
}

// MinistryNode is the first level of the allocation hierarchy.
type MinistryNode struct {
	Ministry string          `json:"ministry"`
	Total    decimal.Decimal `json:"total"`
	Demands  []DemandNode    `json:"demands"`
}

// Point is one scatter sample projected from a record.
type Point struct {
	X        decimal.Decimal `json:"x"`
	Y        decimal.Decimal `json:"y"`
	Category Category        `json:"category"`
	Ministry string          `json:"ministry"`
	Demand   string          `json:"demand"`
}
