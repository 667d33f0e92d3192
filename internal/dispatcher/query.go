package dispatcher

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// BuildQuery 把逻辑参数转成查询串参数
// 规则：
//  1. nil值、nil指针、nil切片、去空白后为空的字符串被丢弃
//  2. 切片/数组按","拼接成一个值，空白元素跳过；空切片保留为空值（roles=表示清空角色）
//  3. 其他值用fmt格式化
//
// 结果为空时返回nil，调用方据此省略"?"
func BuildQuery(params map[string]any) url.Values {
	var q url.Values
	for key, value := range params {
		s, ok := queryValue(value)
		if !ok {
			continue
		}
		if q == nil {
			q = url.Values{}
		}
		q.Set(key, s)
	}
	return q
}

func queryValue(value any) (string, bool) {
	if value == nil {
		return "", false
	}
	if s, ok := value.(string); ok {
		return s, strings.TrimSpace(s) != ""
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", false
		}
	case reflect.Slice:
		if rv.IsNil() {
			return "", false
		}
	}
	if v, ok := value.(fmt.Stringer); ok {
		return queryValue(v.String())
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return queryValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if s, ok := queryValue(rv.Index(i).Interface()); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ","), true
	}
	return fmt.Sprint(value), true
}

// encodeQuery 带"?"的查询串，没有参数时返回空串
func encodeQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
