package repository

import "github.com/memocorner/repair-desk/internal/model"

type DeviceEntity struct {
	ID          int64  `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID  int64  `db:"customer_id" gorm:"column:customer_id;not null;index"`
	Type        string `db:"type"        gorm:"column:type;not null"`
	Brand       string `db:"brand"       gorm:"column:brand;not null"`
	Model       string `db:"model"       gorm:"column:model;not null"`
	SerialIMEI  string `db:"serial_imei" gorm:"column:serial_imei"`
	Color       string `db:"color"       gorm:"column:color"`
	Accessories string `db:"accessories" gorm:"column:accessories"`
}

func (DeviceEntity) TableName() string { return "devices" }

func toDeviceEntity(d *model.Device) *DeviceEntity {
	if d == nil {
		return nil
	}
	return &DeviceEntity{
		ID:          d.ID,
		CustomerID:  d.CustomerID,
		Type:        d.Type,
		Brand:       d.Brand,
		Model:       d.Model,
		SerialIMEI:  d.SerialIMEI,
		Color:       d.Color,
		Accessories: d.Accessories,
	}
}

func toDeviceModel(e *DeviceEntity) *model.Device {
	if e == nil {
		return nil
	}
	return &model.Device{
		ID:          e.ID,
		CustomerID:  e.CustomerID,
		Type:        e.Type,
		Brand:       e.Brand,
		Model:       e.Model,
		SerialIMEI:  e.SerialIMEI,
		Color:       e.Color,
		Accessories: e.Accessories,
	}
}
