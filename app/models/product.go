package models

import "encoding/json"

// Product is a catalog record. IDs are positive integers assigned by the
// catalog service (max existing id + 1) and never change after creation.
type Product struct {
	ID          int64      `json:"id"          bson:"_id"         gorm:"primaryKey;autoIncrement:false"`
	Title       string     `json:"title"       bson:"title"       gorm:"size:255;not null"`
	Description string     `json:"description" bson:"description" gorm:"type:text;not null"`
	Code        string     `json:"code"        bson:"code"        gorm:"size:100;index"`
	Price       float64    `json:"price"       bson:"price"       gorm:"not null"`
	Stock       int        `json:"stock"       bson:"stock"       gorm:"not null"`
	Category    string     `json:"category"    bson:"category"    gorm:"size:100;index"`
	Status      bool       `json:"status"      bson:"status"      gorm:"not null;default:true"`
	Thumbnails  StringList `json:"thumbnails"  bson:"thumbnails"  gorm:"serializer:json"`
}

// StringList is a []string that tolerates a single bare JSON string,
// coercing it to a one-element list.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = StringList{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = StringList(many)
	return nil
}

func (s StringList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}
