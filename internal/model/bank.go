package model

import "time"

// Bank is a persisted question-bank snapshot owned by a host. The merge
// pipeline itself is in-memory; banks are how a session loads an existing
// corpus and stores a committed result.
type Bank struct {
	ID        string                 `json:"id" bson:"_id,omitempty"`
	HostID    string                 `json:"hostId" bson:"hostId"`
	Name      string                 `json:"name" bson:"name"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Questions []Question             `json:"questions" bson:"questions"`
	CreatedAt time.Time              `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt" bson:"updatedAt"`
}
