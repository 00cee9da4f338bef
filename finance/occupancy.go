package finance

import (
	"errors"

	"condominio-backend/models"

	"gorm.io/gorm"
)

// CurrentUnitForUser resolves the authenticated user's resident profile and
// the unit of their active occupancy (end_date IS NULL, newest first).
// Returns ErrNoActiveUnit when the user has no resident profile or the
// resident has no active occupancy.
func CurrentUnitForUser(db *gorm.DB, userID string) (*models.Unit, *models.Resident, error) {
	var resident models.Resident
	err := db.Where("user_id = ?", userID).First(&resident).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNoActiveUnit
		}
		return nil, nil, err
	}

	var occ models.Occupancy
	err = db.Preload("Unit").
		Where("resident_id = ? AND end_date IS NULL", resident.Id).
		Order("start_date DESC").
		First(&occ).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNoActiveUnit
		}
		return nil, nil, err
	}
	return &occ.Unit, &resident, nil
}

// ActiveResidents lists the residents currently occupying a unit, newest
// occupancy first.
func ActiveResidents(db *gorm.DB, unitID string) ([]models.Resident, error) {
	var occs []models.Occupancy
	err := db.Preload("Resident").
		Where("unit_id = ? AND end_date IS NULL", unitID).
		Order("start_date DESC").
		Find(&occs).Error
	if err != nil {
		return nil, err
	}
	residents := make([]models.Resident, 0, len(occs))
	for _, occ := range occs {
		residents = append(residents, occ.Resident)
	}
	return residents, nil
}

// ActiveResidentNames returns display names for a unit's current residents.
func ActiveResidentNames(db *gorm.DB, unitID string) ([]string, error) {
	residents, err := ActiveResidents(db, unitID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(residents))
	for i := range residents {
		names = append(names, residents[i].FullName())
	}
	return names, nil
}

// occupiedUnitIDs returns the set of units with at least one active
// occupancy. The generator only bills occupied units.
func occupiedUnitIDs(db *gorm.DB) (map[string]struct{}, error) {
	var ids []string
	err := db.Model(&models.Occupancy{}).
		Where("end_date IS NULL").
		Distinct().
		Pluck("unit_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
