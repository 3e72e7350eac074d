package model

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

/* =========================================================
   JSONList: ordered JSON array column (jsonb on postgres).
   NULL and empty both read back as an empty list.
   ========================================================= */

type JSONList[T any] []T

func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		l = JSONList[T]{}
	}
	return datatypes.JSONSlice[T](l).Value()
}

func (l *JSONList[T]) Scan(value interface{}) error {
	if value == nil {
		*l = JSONList[T]{}
		return nil
	}
	if b, ok := value.([]byte); ok && len(b) == 0 {
		*l = JSONList[T]{}
		return nil
	}
	if s, ok := value.(string); ok && s == "" {
		*l = JSONList[T]{}
		return nil
	}
	if err := (*datatypes.JSONSlice[T])(l).Scan(value); err != nil {
		return err
	}
	if *l == nil {
		*l = JSONList[T]{}
	}
	return nil
}

func (JSONList[T]) GormDataType() string { return "json" }

func (JSONList[T]) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return datatypes.JSONSlice[T](nil).GormDBDataType(db, field)
}

/* =========================================================
   TagList: text[] on postgres, "{a,b}" text elsewhere.
   ========================================================= */

type TagList []string

func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		t = TagList{}
	}
	return pq.StringArray(t).Value()
}

func (t *TagList) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	if arr == nil {
		arr = pq.StringArray{}
	}
	*t = TagList(arr)
	return nil
}

func (TagList) GormDataType() string { return "text[]" }

func (TagList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
