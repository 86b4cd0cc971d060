package devices

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/kunoez/ks-inventory-sub000/internal/repository"
	custom_error "github.com/kunoez/ks-inventory-sub000/pkg/errors"
	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

var deviceColumns = []interface{}{
	"id", "company_id", "name", "type", "brand", "model", "serial_number",
	"status", "deleted_at", "created_at", "updated_at",
}

type DeviceFilter struct {
	CompanyID *int
	Status    *metadata.DeviceStatus
	Type      *string
}

type DeviceRepository struct {
	Repository *repository.Repository
}

func NewDeviceRepository(r *repository.Repository) *DeviceRepository {
	return &DeviceRepository{Repository: r}
}

func (r *DeviceRepository) GetDevices(filter DeviceFilter) ([]models.Device, error) {
	devices := []models.Device{}
	query := r.Repository.GoquDBWrapper.
		Select(deviceColumns...).
		From("devices").
		Where(goqu.I("deleted_at").IsNull()).
		Order(goqu.I("name").Asc())

	if filter.CompanyID != nil {
		query = query.Where(goqu.Ex{"company_id": *filter.CompanyID})
	}
	if filter.Status != nil {
		query = query.Where(goqu.Ex{"status": *filter.Status})
	}
	if filter.Type != nil {
		query = query.Where(goqu.Ex{"type": *filter.Type})
	}

	if err := query.Executor().ScanStructs(&devices); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return devices, nil
}

func (r *DeviceRepository) GetDevice(deviceID int) (*models.Device, error) {
	var device models.Device
	query := r.Repository.GoquDBWrapper.
		Select(deviceColumns...).
		From("devices").
		Where(goqu.Ex{"id": deviceID}, goqu.I("deleted_at").IsNull())

	found, err := query.Executor().ScanStruct(&device)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	if !found {
		return nil, custom_error.NotFound("device %d not found", deviceID)
	}

	return &device, nil
}

func (r *DeviceRepository) PersistDevice(device *models.Device) error {
	query := r.Repository.GoquDBWrapper.Insert("devices").
		Rows(goqu.Record{
			"company_id":    device.CompanyID,
			"name":          device.Name,
			"type":          device.Type,
			"brand":         device.Brand,
			"model":         device.Model,
			"serial_number": device.SerialNumber,
			"status":        metadata.DeviceAvailable,
		}).
		Returning("id", "status", "created_at", "updated_at")

	if _, err := query.Executor().ScanStruct(device); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return custom_error.WrapDBError("Duplicate serial number for device", string(pqErr.Code))
			case "23503":
				return custom_error.WrapDBError("Company does not exist", string(pqErr.Code))
			}
		}
		return fmt.Errorf("failed to insert device record: %w", err)
	}

	return nil
}

func (r *DeviceRepository) UpdateDevice(deviceID int, req UpdateDeviceRequest) (*models.Device, error) {
	updates := goqu.Record{"updated_at": goqu.L("NOW()")}

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Model != nil {
		updates["model"] = *req.Model
	}
	if req.SerialNumber != nil {
		updates["serial_number"] = *req.SerialNumber
	}
	if req.Status != nil {
		status, err := metadata.NewDeviceStatus(*req.Status)
		if err != nil {
			return nil, custom_error.InvalidState("%s", err.Error())
		}
		updates["status"] = status
	}

	query := r.Repository.GoquDBWrapper.
		Update("devices").
		Set(updates).
		Where(goqu.Ex{"id": deviceID}, goqu.I("deleted_at").IsNull()).
		Returning(deviceColumns...)

	var device models.Device
	found, err := query.Executor().ScanStruct(&device)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, custom_error.WrapDBError("Duplicate serial number for device", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to update device: %w", err)
	}
	if !found {
		return nil, custom_error.NotFound("device %d not found", deviceID)
	}

	return &device, nil
}

func (r *DeviceRepository) HasActiveAssignment(deviceID int) (bool, error) {
	var count int
	query := r.Repository.GoquDBWrapper.
		Select(goqu.COUNT("*")).
		From("device_assignments").
		Where(goqu.Ex{"device_id": deviceID, "status": "active"})

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return false, fmt.Errorf("failed to count active assignments: %w", err)
	}

	return count > 0, nil
}

// RemoveDevice soft-deletes the row so closed assignments keep a target to
// join against.
func (r *DeviceRepository) RemoveDevice(deviceID int) error {
	result, err := r.Repository.GoquDBWrapper.
		Update("devices").
		Set(goqu.Record{"deleted_at": goqu.L("NOW()"), "updated_at": goqu.L("NOW()")}).
		Where(goqu.Ex{"id": deviceID}, goqu.I("deleted_at").IsNull()).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NotFound("device %d not found", deviceID)
	}

	return nil
}
