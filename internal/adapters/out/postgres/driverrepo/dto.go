// Package driverrepo provides data transfer objects and mapping functions
// for driver persistence.
package driverrepo

import (
	"time"

	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO represents the database structure for persisting drivers.
type DriverDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name              string     `gorm:"type:varchar(255);not null"`
	Mode              string     `gorm:"type:varchar(16);not null"`
	LastLat           *float64   `gorm:"type:double precision"`
	LastLng           *float64   `gorm:"type:double precision"`
	PositionUpdatedAt *time.Time `gorm:""`
	ModeChangedAt     *time.Time `gorm:""`
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver aggregate to its database representation.
func fromDomain(d *driver.Driver) DriverDTO {
	dto := DriverDTO{
		ID:                d.ID().Bytes(),
		Name:              d.Name(),
		Mode:              string(d.Mode()),
		PositionUpdatedAt: d.PositionUpdatedAt(),
		ModeChangedAt:     d.ModeChangedAt(),
	}

	if pos := d.LastKnownPosition(); pos != nil {
		lat, lng := pos.Lat(), pos.Lng()
		dto.LastLat = &lat
		dto.LastLng = &lng
	}

	return dto
}

// toDomain converts a database DTO to a driver aggregate using RestoreDriver.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	mode, err := driver.ParseMode(dto.Mode)
	if err != nil {
		return nil, err
	}

	var position *kernel.GeoPoint
	if dto.LastLat != nil && dto.LastLng != nil {
		point, posErr := kernel.NewGeoPoint(*dto.LastLat, *dto.LastLng)
		if posErr != nil {
			return nil, posErr
		}
		position = &point
	}

	return driver.RestoreDriver(id, dto.Name, mode, position,
		dto.PositionUpdatedAt, dto.ModeChangedAt)
}
