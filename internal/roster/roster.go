// Package roster 负责读写员工名单文件，格式为
//
//	{"employees": {"<姓名>": {"<星期>": "<班次>", ...}, ...}}
//
// 员工的先后顺序以及每个员工偏好的先后顺序都会影响排班结果，因此解码时保留对象中键的顺序。
package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

var (
	ErrMissingEmployees = errors.New(`名单中缺少 "employees" 字段`)
	ErrInvalidFormat    = errors.New("名单格式错误")
)

func LoadFile(path string) ([]*domain.Employee, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开名单文件 %s: %w", path, err)
	}
	defer file.Close()

	employees, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("无法读取名单文件 %s: %w", path, err)
	}

	return employees, nil
}

func Decode(r io.Reader) ([]*domain.Employee, error) {
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var employees []*domain.Employee
	found := false

	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}

		if key != "employees" {
			// 其余字段直接跳过
			var skipped json.RawMessage
			if err := dec.Decode(&skipped); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
			}
			continue
		}

		if employees, err = decodeEmployees(dec); err != nil {
			return nil, err
		}
		found = true
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	if !found {
		return nil, ErrMissingEmployees
	}

	return employees, nil
}

func decodeEmployees(dec *json.Decoder) ([]*domain.Employee, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	employees := make([]*domain.Employee, 0)
	byName := make(map[string]*domain.Employee)

	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}

		// 同名员工以最后一次出现的偏好为准，但保留第一次出现的位置
		e, exists := byName[name]
		if exists {
			e.Preferences = e.Preferences[:0]
		} else {
			e = domain.NewEmployee(name)
			byName[name] = e
			employees = append(employees, e)
		}

		if err := decodePreferences(dec, e); err != nil {
			return nil, fmt.Errorf("员工 %s: %w", name, err)
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	return employees, nil
}

func decodePreferences(dec *json.Decoder, e *domain.Employee) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	for dec.More() {
		day, err := readKey(dec)
		if err != nil {
			return err
		}

		var shift string
		if err := dec.Decode(&shift); err != nil {
			return fmt.Errorf("%w: %s 的班次必须是字符串", ErrInvalidFormat, day)
		}

		e.AddPreference(domain.Day(day), domain.Shift(shift))
	}

	return expectDelim(dec, '}')
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: 期望字段名，实际为 %v", ErrInvalidFormat, tok)
	}

	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("%w: 期望 %q，实际为 %v", ErrInvalidFormat, want, tok)
	}

	return nil
}

// Encode 按名单顺序写出与 Decode 相同格式的名单
func Encode(w io.Writer, employees []*domain.Employee) error {
	var buf bytes.Buffer

	buf.WriteString("{\n  \"employees\": {")
	for i, e := range employees {
		if i > 0 {
			buf.WriteByte(',')
		}

		name, err := json.Marshal(e.Name)
		if err != nil {
			return err
		}
		buf.WriteString("\n    ")
		buf.Write(name)
		buf.WriteString(": {")

		for j, p := range e.Preferences {
			if j > 0 {
				buf.WriteString(", ")
			}
			day, err := json.Marshal(string(p.Day))
			if err != nil {
				return err
			}
			shift, err := json.Marshal(string(p.Shift))
			if err != nil {
				return err
			}
			buf.Write(day)
			buf.WriteString(": ")
			buf.Write(shift)
		}
		buf.WriteByte('}')
	}
	if len(employees) > 0 {
		buf.WriteString("\n  ")
	}
	buf.WriteString("}\n}\n")

	_, err := w.Write(buf.Bytes())
	return err
}
