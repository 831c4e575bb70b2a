package models

import "time"

// Vessel is a vessel the caller may see and edit defects for
type Vessel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserVessel is one row of the user to vessel assignment table
type UserVessel struct {
	ID         string    `json:"id" dynamodbav:"id"`
	UserID     string    `json:"userId" dynamodbav:"userId"`
	VesselID   string    `json:"vesselId" dynamodbav:"vesselId"`
	VesselName string    `json:"vesselName" dynamodbav:"vesselName"`
	AssignedAt time.Time `json:"assignedAt" dynamodbav:"assignedAt"`
	AssignedBy string    `json:"assignedBy,omitempty" dynamodbav:"assignedBy,omitempty"`
}
