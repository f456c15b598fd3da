package models

import (
	"context"
	"strings"
	"time"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/utils"
)

type Party struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	MobNo     string    `gorm:"size:20" json:"mob_no"`
	Address   string    `gorm:"size:255" json:"address"`
	PartyType string    `gorm:"size:20;index" json:"party_type"`
	Remarks   string    `gorm:"size:255" json:"remarks"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewParty struct {
	Name      string `json:"name" binding:"required,max=100"`
	MobNo     string `json:"mob_no" binding:"max=20"`
	Address   string `json:"address" binding:"max=255"`
	PartyType string `json:"party_type" binding:"max=20"`
	Remarks   string `json:"remarks" binding:"max=255"`
}

// validate input for both create & update. (id = 0 for create)

func (input *NewParty) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Party](ctx, "name", input.Name, id); err != nil {
		return err
	}
	return validateMobile(input.MobNo)
}

func validateMobile(mobNo string) error {
	if len(strings.TrimSpace(mobNo)) == 0 {
		return nil
	}
	if err := utils.ValidatePhoneNumber(mobNo, utils.CountryCode); err != nil {
		return newInputError("invalid mobile number %q: %v", mobNo, err)
	}
	return nil
}

func CreateParty(ctx context.Context, input *NewParty) (*Party, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	party := Party{
		Name:      strings.TrimSpace(input.Name),
		MobNo:     input.MobNo,
		Address:   input.Address,
		PartyType: input.PartyType,
		Remarks:   input.Remarks,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&party).Error; err != nil {
		return nil, utils.NameConflict(err)
	}
	return &party, nil
}

func UpdateParty(ctx context.Context, id int, input *NewParty) (*Party, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	party, err := utils.FetchSingleModel[Party](ctx, id)
	if err != nil {
		return nil, err
	}
	old := *party

	db := config.GetDB()
	err = db.WithContext(ctx).Model(party).Updates(map[string]interface{}{
		"Name":      strings.TrimSpace(input.Name),
		"MobNo":     input.MobNo,
		"Address":   input.Address,
		"PartyType": input.PartyType,
		"Remarks":   input.Remarks,
	}).Error
	if err != nil {
		return nil, utils.NameConflict(err)
	}
	clearResourceCache(&old, input.Name)

	return party, nil
}

func GetParty(ctx context.Context, id int) (*Party, error) {
	return GetResource[Party](ctx, id)
}

func GetPartyByName(ctx context.Context, name string) (*Party, error) {
	return GetResourceByName[Party](ctx, nil, name)
}

func ListParty(ctx context.Context, name *string) ([]*Party, error) {
	return listByName[Party](ctx, name)
}
