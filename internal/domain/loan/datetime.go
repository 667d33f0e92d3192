package loan

import (
	"bytes"
	"fmt"
	"time"
)

// DateTimeLayout 借阅时间的展示格式（本地时区）
const DateTimeLayout = time.DateTime

// DateTime 以"2006-01-02 15:04:05"格式序列化的时间
type DateTime struct {
	time.Time
}

// NewDateTime 截断到秒
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.Truncate(time.Second)}
}

// ParseDateTime 按本地时区解析
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.ParseInLocation(DateTimeLayout, s, time.Local)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{Time: t}, nil
}

// MustParseDateTime 仅用于固定数据
func MustParseDateTime(s string) DateTime {
	dt, err := ParseDateTime(s)
	if err != nil {
		panic(err)
	}
	return dt
}

func (d DateTime) String() string {
	return d.Format(DateTimeLayout)
}

// MarshalJSON 实现json.Marshaler
func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON 实现json.Unmarshaler
func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid datetime: %s", data)
	}
	parsed, err := ParseDateTime(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
