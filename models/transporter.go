package models

import (
	"context"
	"strings"
	"time"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/utils"
)

type Transporter struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	MobNo     string    `gorm:"size:20" json:"mob_no"`
	Remarks   string    `gorm:"size:255" json:"remarks"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTransporter struct {
	Name    string `json:"name" binding:"required,max=100"`
	MobNo   string `json:"mob_no" binding:"max=20"`
	Remarks string `json:"remarks" binding:"max=255"`
}

func (input *NewTransporter) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Transporter](ctx, "name", input.Name, id); err != nil {
		return err
	}
	return validateMobile(input.MobNo)
}

func CreateTransporter(ctx context.Context, input *NewTransporter) (*Transporter, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	transporter := Transporter{
		Name:    strings.TrimSpace(input.Name),
		MobNo:   input.MobNo,
		Remarks: input.Remarks,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&transporter).Error; err != nil {
		return nil, utils.NameConflict(err)
	}
	return &transporter, nil
}

func UpdateTransporter(ctx context.Context, id int, input *NewTransporter) (*Transporter, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	transporter, err := utils.FetchSingleModel[Transporter](ctx, id)
	if err != nil {
		return nil, err
	}
	old := *transporter

	db := config.GetDB()
	err = db.WithContext(ctx).Model(transporter).Updates(map[string]interface{}{
		"Name":    strings.TrimSpace(input.Name),
		"MobNo":   input.MobNo,
		"Remarks": input.Remarks,
	}).Error
	if err != nil {
		return nil, utils.NameConflict(err)
	}
	clearResourceCache(&old, input.Name)

	return transporter, nil
}

func GetTransporter(ctx context.Context, id int) (*Transporter, error) {
	return GetResource[Transporter](ctx, id)
}

func GetTransporterByName(ctx context.Context, name string) (*Transporter, error) {
	return GetResourceByName[Transporter](ctx, nil, name)
}

func ListTransporter(ctx context.Context, name *string) ([]*Transporter, error) {
	return listByName[Transporter](ctx, name)
}
