package model

// Unit is a lot in the strata plan.  Entitlements are the integer weight
// that determines both the unit's levy share and its voting power.  OwnerID
// is nil while a unit is unsold or between owners; only owned units take
// part in levy generation.
type Unit struct {
	ID           uint64  // units.id
	UnitNumber   string  // units.unit_number
	FloorNumber  int     // units.floor_number
	Entitlements int     // units.unit_entitlements
	OwnerID      *uint64 // units.owner_id (nullable)
}
