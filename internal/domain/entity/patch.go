package entity

import "taskboard/internal/domain/valueobject"

// DateUpdate carries a new value for an optional date. A nil Date clears it.
type DateUpdate struct {
	Date *valueobject.Date
}

// SetDate builds a DateUpdate that sets the date to d
func SetDate(d valueobject.Date) *DateUpdate {
	return &DateUpdate{Date: &d}
}

// ClearDate builds a DateUpdate that removes the date
func ClearDate() *DateUpdate {
	return &DateUpdate{}
}

func (u *DateUpdate) value() *valueobject.Date {
	if u.Date == nil {
		return nil
	}
	d := *u.Date
	return &d
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *valueobject.Priority
	Category    *valueobject.Category
	Status      *valueobject.Status
	StartDate   *DateUpdate
	EndDate     *DateUpdate
	StartTime   *string
	EndTime     *string
}

// StatusPatch builds a patch that only changes the status
func StatusPatch(status valueobject.Status) TaskPatch {
	return TaskPatch{Status: &status}
}

// IsEmpty reports whether the patch carries no fields
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.Priority == nil &&
		p.Category == nil &&
		p.Status == nil &&
		p.StartDate == nil &&
		p.EndDate == nil &&
		p.StartTime == nil &&
		p.EndTime == nil
}
