package mapper

import (
	"fmt"
	"time"

	"taskboard/internal/domain/entity"
	"taskboard/internal/domain/repository"
	"taskboard/internal/domain/valueobject"
)

// TaskFromDocument converts a stored document to a Task entity.
// Unknown statuses fall back to todo so that every task lands in a column.
func TaskFromDocument(doc repository.TaskDocument) entity.Task {
	status, err := valueobject.ParseStatus(doc.Status)
	if err != nil {
		status = valueobject.StatusTodo
	}

	priority, err := valueobject.ParsePriority(doc.Priority)
	if err != nil {
		priority = valueobject.PriorityMedium
	}

	category, err := valueobject.ParseCategory(doc.Category)
	if err != nil {
		category = valueobject.CategoryOther
	}

	return entity.Task{
		ID:          doc.ID,
		OwnerID:     doc.OwnerID,
		Title:       doc.Title,
		Description: doc.Description,
		Priority:    priority,
		Category:    category,
		Status:      status,
		StartDate:   dateFromTime(doc.StartDate),
		EndDate:     dateFromTime(doc.EndDate),
		StartTime:   doc.StartTime,
		EndTime:     doc.EndTime,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

// InputToDocument builds a new document from a normalized create input
func InputToDocument(ownerID string, in entity.CreateTaskInput, now int64) repository.TaskDocument {
	return repository.TaskDocument{
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority.String(),
		Category:    in.Category.String(),
		StartDate:   dateToTime(in.StartDate),
		EndDate:     dateToTime(in.EndDate),
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Status:      in.Status.String(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// PatchToFieldSet lists only the fields present in the patch, plus updatedAt
func PatchToFieldSet(p entity.TaskPatch, updatedAt int64) repository.FieldSet {
	fields := repository.FieldSet{
		repository.FieldUpdatedAt: updatedAt,
	}

	if p.Title != nil {
		fields[repository.FieldTitle] = *p.Title
	}
	if p.Description != nil {
		fields[repository.FieldDescription] = *p.Description
	}
	if p.Priority != nil {
		fields[repository.FieldPriority] = p.Priority.String()
	}
	if p.Category != nil {
		fields[repository.FieldCategory] = p.Category.String()
	}
	if p.Status != nil {
		fields[repository.FieldStatus] = p.Status.String()
	}
	if p.StartDate != nil {
		fields[repository.FieldStartDate] = dateToTime(p.StartDate.Date)
	}
	if p.EndDate != nil {
		fields[repository.FieldEndDate] = dateToTime(p.EndDate.Date)
	}
	if p.StartTime != nil {
		fields[repository.FieldStartTime] = *p.StartTime
	}
	if p.EndTime != nil {
		fields[repository.FieldEndTime] = *p.EndTime
	}

	return fields
}

// ApplyFieldSet writes a normalized field set onto doc
func ApplyFieldSet(doc *repository.TaskDocument, fields repository.FieldSet) error {
	for key, value := range fields {
		switch key {
		case repository.FieldTitle:
			doc.Title, _ = value.(string)
		case repository.FieldDescription:
			doc.Description, _ = value.(string)
		case repository.FieldPriority:
			doc.Priority, _ = value.(string)
		case repository.FieldCategory:
			doc.Category, _ = value.(string)
		case repository.FieldStatus:
			doc.Status, _ = value.(string)
		case repository.FieldStartTime:
			doc.StartTime, _ = value.(string)
		case repository.FieldEndTime:
			doc.EndTime, _ = value.(string)
		case repository.FieldStartDate:
			doc.StartDate, _ = value.(*time.Time)
		case repository.FieldEndDate:
			doc.EndDate, _ = value.(*time.Time)
		case repository.FieldUpdatedAt:
			doc.UpdatedAt, _ = value.(int64)
		default:
			return fmt.Errorf("field %q cannot be patched", key)
		}
	}
	return nil
}

// DecodeFieldSet normalizes a field set that went through a generic decoder
// (JSON numbers as float64, dates as RFC3339 strings).
func DecodeFieldSet(raw map[string]interface{}) (repository.FieldSet, error) {
	fields := make(repository.FieldSet, len(raw))

	for key, value := range raw {
		switch key {
		case repository.FieldTitle, repository.FieldDescription, repository.FieldPriority,
			repository.FieldCategory, repository.FieldStatus, repository.FieldStartTime,
			repository.FieldEndTime:
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("field %q must be a string", key)
			}
			fields[key] = s

		case repository.FieldStartDate, repository.FieldEndDate:
			t, err := decodeTime(value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			fields[key] = t

		case repository.FieldUpdatedAt:
			n, err := decodeInt64(value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			fields[key] = n

		default:
			return nil, fmt.Errorf("field %q cannot be patched", key)
		}
	}

	return fields, nil
}

func decodeTime(value interface{}) (*time.Time, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *time.Time:
		return v, nil
	case time.Time:
		return &v, nil
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp: %w", err)
		}
		t = t.UTC()
		return &t, nil
	default:
		return nil, fmt.Errorf("unexpected timestamp type %T", value)
	}
}

func decodeInt64(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("unexpected number type %T", value)
	}
}

// dateToTime stores a calendar date as midnight UTC
func dateToTime(d *valueobject.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

func dateFromTime(t *time.Time) *valueobject.Date {
	if t == nil {
		return nil
	}
	d := valueobject.DateOf(t.UTC())
	return &d
}
