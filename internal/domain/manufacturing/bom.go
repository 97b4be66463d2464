package manufacturing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/mfg-erp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BomComponent is one material line of a bill of materials. WastagePercent
// inflates the required quantity to cover expected process loss.
type BomComponent struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	BomID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	RawMaterialID  uuid.UUID       `gorm:"type:uuid;not null"`
	MaterialName   string          `gorm:"type:varchar(200);not null"`
	MaterialCode   string          `gorm:"type:varchar(50);not null"`
	Unit           string          `gorm:"type:varchar(10);not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(15,3);not null"`
	WastagePercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	Notes          string          `gorm:"type:varchar(500)"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BomComponent) TableName() string {
	return "bom_components"
}

// NewBomComponent creates a new BOM component line
func NewBomComponent(bomID, rawMaterialID uuid.UUID, materialName, materialCode, unit string,
	quantity, wastagePercent, unitCost decimal.Decimal) (*BomComponent, error) {

	if rawMaterialID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Material ID cannot be empty")
	}
	if materialName == "" {
		return nil, shared.NewDomainError("VALIDATION", "Material name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION", "Component quantity must be positive")
	}
	if wastagePercent.IsNegative() || wastagePercent.GreaterThanOrEqual(hundred) {
		return nil, shared.NewDomainError("VALIDATION", "Wastage percent must be between 0 and 100")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &BomComponent{
		ID:             uuid.New(),
		BomID:          bomID,
		RawMaterialID:  rawMaterialID,
		MaterialName:   materialName,
		MaterialCode:   materialCode,
		Unit:           unit,
		Quantity:       quantity,
		WastagePercent: wastagePercent,
		UnitCost:       unitCost,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// QuantityWithWastage returns the wastage-adjusted requirement:
// quantity unchanged when the wastage rate is zero, otherwise
// quantity * (1 + wastagePercent/100).
func (c *BomComponent) QuantityWithWastage() decimal.Decimal {
	adjusted, err := valueobject.MustNewQuantity(c.Quantity, c.Unit).WithWastage(c.WastagePercent)
	if err != nil {
		// unreachable: the percent is range-checked at construction
		panic(err)
	}
	return adjusted.Amount()
}

// EstimatedCost returns the wastage-adjusted material cost of the line
func (c *BomComponent) EstimatedCost() decimal.Decimal {
	return valueobject.NewMoneyINR(c.UnitCost).Multiply(c.QuantityWithWastage()).Amount()
}

// BomHeader is the aggregate root for a bill of materials: the recipe that
// turns raw materials into one unit batch of a finished good.
type BomHeader struct {
	shared.BaseAggregateRoot
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string          `gorm:"type:varchar(200);not null"`
	FinishedGoodID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName    string          `gorm:"type:varchar(200);not null"`
	ProductCode    string          `gorm:"type:varchar(50);not null"`
	OutputQuantity decimal.Decimal `gorm:"type:decimal(15,3);not null;default:1"`
	OutputUnit     string          `gorm:"type:varchar(10);not null"`
	BomVersion     int             `gorm:"not null;default:1"`
	IsActive       bool            `gorm:"not null;default:true"`
	Components     []BomComponent  `gorm:"foreignKey:BomID;references:ID"`
	Notes          string          `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (BomHeader) TableName() string {
	return "bom_headers"
}

// NewBomHeader creates a new active BOM
func NewBomHeader(code, name string, finishedGoodID uuid.UUID, productName, productCode string,
	outputQuantity decimal.Decimal, outputUnit string) (*BomHeader, error) {

	if code == "" {
		return nil, shared.NewDomainError("VALIDATION", "BOM code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION", "BOM name cannot be empty")
	}
	if finishedGoodID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Finished good ID cannot be empty")
	}
	if outputQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION", "Output quantity must be positive")
	}

	return &BomHeader{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		FinishedGoodID:    finishedGoodID,
		ProductName:       productName,
		ProductCode:       productCode,
		OutputQuantity:    outputQuantity,
		OutputUnit:        outputUnit,
		BomVersion:        1,
		IsActive:          true,
		Components:        make([]BomComponent, 0),
	}, nil
}

// AddComponent adds a material line to the BOM
func (b *BomHeader) AddComponent(rawMaterialID uuid.UUID, materialName, materialCode, unit string,
	quantity, wastagePercent, unitCost decimal.Decimal) (*BomComponent, error) {

	for _, c := range b.Components {
		if c.RawMaterialID == rawMaterialID {
			return nil, shared.NewDomainError("BUSINESS_RULE", "Material already exists in BOM, update quantity instead")
		}
	}

	component, err := NewBomComponent(b.ID, rawMaterialID, materialName, materialCode, unit,
		quantity, wastagePercent, unitCost)
	if err != nil {
		return nil, err
	}

	b.Components = append(b.Components, *component)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return component, nil
}

// UpdateComponent updates quantity, wastage and cost of a material line
func (b *BomHeader) UpdateComponent(componentID uuid.UUID, quantity, wastagePercent, unitCost decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION", "Component quantity must be positive")
	}
	if wastagePercent.IsNegative() || wastagePercent.GreaterThanOrEqual(hundred) {
		return shared.NewDomainError("VALIDATION", "Wastage percent must be between 0 and 100")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("VALIDATION", "Unit cost cannot be negative")
	}

	for idx := range b.Components {
		if b.Components[idx].ID == componentID {
			b.Components[idx].Quantity = quantity
			b.Components[idx].WastagePercent = wastagePercent
			b.Components[idx].UnitCost = unitCost
			b.Components[idx].UpdatedAt = time.Now()
			b.UpdatedAt = time.Now()
			b.IncrementVersion()
			return nil
		}
	}
	return shared.NewNotFoundError("BOM component", "id", componentID)
}

// RemoveComponent removes a material line from the BOM
func (b *BomHeader) RemoveComponent(componentID uuid.UUID) error {
	for idx, c := range b.Components {
		if c.ID == componentID {
			b.Components = append(b.Components[:idx], b.Components[idx+1:]...)
			b.UpdatedAt = time.Now()
			b.IncrementVersion()
			return nil
		}
	}
	return shared.NewNotFoundError("BOM component", "id", componentID)
}

// EstimatedMaterialCost sums the wastage-adjusted cost of all components
func (b *BomHeader) EstimatedMaterialCost() decimal.Decimal {
	total := decimal.Zero
	for _, c := range b.Components {
		total = total.Add(c.EstimatedCost())
	}
	return total
}

// MaterialRequirement is one exploded material need for a production quantity
type MaterialRequirement struct {
	RawMaterialID uuid.UUID
	MaterialName  string
	MaterialCode  string
	Unit          string
	Quantity      decimal.Decimal
}

// Explode scales the wastage-adjusted component quantities to the given
// production quantity of the finished good.
func (b *BomHeader) Explode(productionQuantity decimal.Decimal) ([]MaterialRequirement, error) {
	if productionQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION", "Production quantity must be positive")
	}
	if len(b.Components) == 0 {
		return nil, shared.NewDomainError("BUSINESS_RULE", "BOM has no components")
	}

	batches := productionQuantity.Div(b.OutputQuantity)
	requirements := make([]MaterialRequirement, 0, len(b.Components))
	for _, c := range b.Components {
		requirements = append(requirements, MaterialRequirement{
			RawMaterialID: c.RawMaterialID,
			MaterialName:  c.MaterialName,
			MaterialCode:  c.MaterialCode,
			Unit:          c.Unit,
			Quantity:      c.QuantityWithWastage().Mul(batches),
		})
	}
	return requirements, nil
}

// Duplicate builds a deep copy of the BOM as a new inactive version. The copy
// gets code "<origCode>-<version>"; the caller checks the code for collisions
// before saving.
func (b *BomHeader) Duplicate() *BomHeader {
	newVersion := b.BomVersion + 1
	copied := &BomHeader{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              fmt.Sprintf("%s-%d", b.Code, newVersion),
		Name:              b.Name,
		FinishedGoodID:    b.FinishedGoodID,
		ProductName:       b.ProductName,
		ProductCode:       b.ProductCode,
		OutputQuantity:    b.OutputQuantity,
		OutputUnit:        b.OutputUnit,
		BomVersion:        newVersion,
		IsActive:          false,
		Components:        make([]BomComponent, 0, len(b.Components)),
		Notes:             b.Notes,
	}

	now := time.Now()
	for _, c := range b.Components {
		copied.Components = append(copied.Components, BomComponent{
			ID:             uuid.New(),
			BomID:          copied.ID,
			RawMaterialID:  c.RawMaterialID,
			MaterialName:   c.MaterialName,
			MaterialCode:   c.MaterialCode,
			Unit:           c.Unit,
			Quantity:       c.Quantity,
			WastagePercent: c.WastagePercent,
			UnitCost:       c.UnitCost,
			Notes:          c.Notes,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	return copied
}

// Activate marks the BOM as the one to use for new work orders
func (b *BomHeader) Activate() {
	b.IsActive = true
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// Deactivate retires the BOM from use on new work orders
func (b *BomHeader) Deactivate() {
	b.IsActive = false
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// ComponentCount returns the number of material lines
func (b *BomHeader) ComponentCount() int {
	return len(b.Components)
}
