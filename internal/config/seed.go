package config

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

// Default truck position (Nahualá municipal depot).
const (
	defaultVehicleLatitude  = 14.886351
	defaultVehicleLongitude = -91.514472
)

// Seed creates the default collection truck when no vehicle exists yet.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Vehicle{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	vehicle := models.Vehicle{
		Name:       models.DefaultVehicleName,
		Latitude:   defaultVehicleLatitude,
		Longitude:  defaultVehicleLongitude,
		LastUpdate: time.Now(),
	}
	if err := db.Create(&vehicle).Error; err != nil {
		return err
	}
	logrus.WithField("vehicle_id", vehicle.ID).Info("Default vehicle created")
	return nil
}
