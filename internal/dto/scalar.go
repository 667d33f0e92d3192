package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Int 既接受JSON数字也接受数字字符串（表单提交的"1"与1等价）
type Int int

// IntPtr 便于构造可选字段
func IntPtr(v int) *Int {
	i := Int(v)
	return &i
}

// UnmarshalJSON 实现json.Unmarshaler
func (i *Int) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("不是整数: %s", data)
	}
	*i = Int(n)
	return nil
}

// ID 既接受字符串也接受数字的标识
type ID string

// UnmarshalJSON 实现json.Unmarshaler
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("不是合法的ID: %s", data)
	}
	*id = ID(n.String())
	return nil
}

// String 实现Stringer
func (id ID) String() string {
	return string(id)
}
