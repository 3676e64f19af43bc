package directory

import "fmt"

// EntityKind identifies which kind of applicant a leave record belongs to.
type EntityKind string

const (
	EntityKindStaff  EntityKind = "staff"
	EntityKindDoctor EntityKind = "doctor"
	EntityKindUser   EntityKind = "user"
)

func (k EntityKind) Valid() bool {
	switch k {
	case EntityKindStaff, EntityKindDoctor, EntityKindUser:
		return true
	}
	return false
}

// EntityRef is the tagged reference every leave operation takes. The kind
// selects the directory adapter; the ID is the record within that adapter.
type EntityRef struct {
	Kind EntityKind `json:"entity_kind"`
	ID   string     `json:"entity_id"`
}

func (r EntityRef) String() string {
	return fmt.Sprintf("%s/%s", r.Kind, r.ID)
}

// Entity is the minimal resolved record, used for validation and notification.
type Entity struct {
	ID          string
	DisplayName string
	Email       string
}
