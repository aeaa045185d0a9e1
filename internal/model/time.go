package model

import (
	"fmt"
	"time"
)

// LocalTime is a custom time type to format time as "YYYY-MM-DD HH:MM:SS".
type LocalTime time.Time

const timeFormat = "2006-01-02 15:04:05"

// MarshalJSON implements the json.Marshaler interface.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	formatted := fmt.Sprintf("\"%s\"", time.Time(t).Format(timeFormat))
	return []byte(formatted), nil
}

// DateOnly 用于仅包含日期的业务字段（要求日、处理期限等），序列化为 "YYYY-MM-DD"。
type DateOnly time.Time

const dateFormat = "2006-01-02"

// MarshalJSON implements the json.Marshaler interface.
func (d DateOnly) MarshalJSON() ([]byte, error) {
	formatted := fmt.Sprintf("\"%s\"", time.Time(d).Format(dateFormat))
	return []byte(formatted), nil
}

// UnmarshalJSON 接受 "YYYY-MM-DD" 形式的日期字符串，空串视为零值。
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = DateOnly(time.Time{})
		return nil
	}
	t, err := time.Parse(`"`+dateFormat+`"`, s)
	if err != nil {
		return err
	}
	*d = DateOnly(t)
	return nil
}
