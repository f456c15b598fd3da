package models

import (
	"encoding/json"
	"errors"
)

type BagsStatus string

const (
	BagsStatusActive   BagsStatus = "ACTIVE"
	BagsStatusReturned BagsStatus = "RETURNED"
)

func (t *BagsStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("bags status must be string")
	}
	switch str {
	case "ACTIVE":
		*t = BagsStatusActive
	case "RETURNED":
		*t = BagsStatusReturned
	default:
		return errors.New("invalid bags status")
	}
	return nil
}
