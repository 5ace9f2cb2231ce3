package domain

import "time"

// District groups projects by administrative area.
type District struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Code      string    `json:"code" bson:"code"`
	Region    string    `json:"region,omitempty" bson:"region,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
