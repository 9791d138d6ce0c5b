package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON 通用 JSON 对象类型
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, err := scanBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, j)
}

// StringArray 字符串集合类型，用于存储 images、color_variants 等
type StringArray []string

// Value 实现 driver.Valuer 接口
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(s))
}

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}
	bytes, err := scanBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, s)
}

// Contains 判断是否包含（精确匹配，区分大小写）
func (s StringArray) Contains(value string) bool {
	for _, item := range s {
		if item == value {
			return true
		}
	}
	return false
}

// With 返回追加后的新集合，已存在时原样返回
func (s StringArray) With(value string) StringArray {
	if s.Contains(value) {
		return s
	}
	out := make(StringArray, 0, len(s)+1)
	out = append(out, s...)
	return append(out, value)
}

// Without 返回移除指定值后的新集合
func (s StringArray) Without(value string) StringArray {
	out := make(StringArray, 0, len(s))
	for _, item := range s {
		if item != value {
			out = append(out, item)
		}
	}
	return out
}

// FirstDuplicate 返回第一个重复值
func (s StringArray) FirstDuplicate() (string, bool) {
	seen := make(map[string]struct{}, len(s))
	for _, item := range s {
		if _, ok := seen[item]; ok {
			return item, true
		}
		seen[item] = struct{}{}
	}
	return "", false
}

func scanBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
